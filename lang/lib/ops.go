package lib

import "github.com/ardnew/complexpr/lang"

// Ops returns the function forms of the arithmetic operators.
func Ops() Module {
	return Module{
		Name: "ops",
		Funcs: map[string]lang.NativeFunc{
			"add":  fold(lang.Add, lang.Integer(0)),
			"sub":  fold(lang.Sub, lang.Integer(0)),
			"mul":  fold(lang.Mul, lang.Integer(1)),
			"div":  fold(lang.Div, lang.Integer(1)),
			"frac": fold(lang.Frac, lang.Integer(1)),
			"mod":  fold(lang.Mod, lang.Integer(1)),
			"pow":  pow,
			"cmp":  cmp,
		},
	}
}

// pow folds from the right, so pow(a, b, c) is a ^ (b ^ c).
func pow(args []lang.Value) (lang.Value, error) {
	if len(args) == 0 {
		return lang.Integer(1), nil
	}

	res := args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		var err error
		if res, err = lang.Pow(args[i], res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func cmp(args []lang.Value) (lang.Value, error) {
	if err := lang.BoundArgs(len(args), 2, 2); err != nil {
		return nil, err
	}

	c, ok := lang.Compare(args[0], args[1])
	if !ok {
		return lang.Void{}, nil
	}

	return lang.Integer(c), nil
}
