package lib

import (
	"math/rand/v2"
	"slices"

	"github.com/ardnew/complexpr/lang"
)

// Random returns pseudo-random number functions. They draw from the
// automatically seeded global source.
func Random() Module {
	return Module{
		Name: "random",
		Funcs: map[string]lang.NativeFunc{
			"random":        random,
			"random_range":  randomRange,
			"random_choose": randomChoose,
			"shuffle":       shuffle,
		},
	}
}

// random returns a Float in [0, 1).
func random(args []lang.Value) (lang.Value, error) {
	if err := lang.MaxArgs(len(args), 0); err != nil {
		return nil, err
	}

	return lang.Float(rand.Float64()), nil
}

// randomRange returns an Integer in [0, max) or [min, max), or Void when the
// range is empty.
func randomRange(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 2); err != nil {
		return nil, err
	}

	lo, hi := int64(0), int64(0)

	for i, a := range args {
		n, err := intArg(a)
		if err != nil {
			return nil, err
		}

		if i == len(args)-1 {
			hi = n
		} else {
			lo = n
		}
	}

	if lo >= hi {
		return lang.Void{}, nil
	}

	return lang.Integer(lo + rand.Int64N(hi-lo)), nil
}

func randomChoose(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	list, err := listArg(args[0])
	if err != nil {
		return nil, err
	}

	if len(list) == 0 {
		return lang.Void{}, nil
	}

	return list[rand.IntN(len(list))], nil
}

// shuffle returns a permuted copy of a list.
func shuffle(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 1, 1); err != nil {
		return nil, err
	}

	list, err := listArg(args[0])
	if err != nil {
		return nil, err
	}

	res := slices.Clone(list)
	rand.Shuffle(len(res), func(i, j int) { res[i], res[j] = res[j], res[i] })

	return res, nil
}
