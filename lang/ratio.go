package lang

import (
	"math"
	"math/bits"
	"strconv"
)

// Ratio is an exact rational number, always stored in lowest terms with a
// positive denominator. The zero Ratio is 0//1.
//
// Arithmetic on Ratios is checked: an operation whose exact result does not
// fit in 64 bits reports overflow rather than wrapping.
type Ratio struct {
	num, den int64
}

// NewRatio returns num/den reduced. It reports false if den is zero or the
// reduced ratio has no representation with a positive int64 denominator,
// such as 1/math.MinInt64.
func NewRatio(num, den int64) (Ratio, bool) {
	if den == 0 {
		return Ratio{}, false
	}

	un, ud := uabs64(num), uabs64(den)

	g := gcdU(un, ud)
	un, ud = un/g, ud/g

	if ud > math.MaxInt64 {
		return Ratio{}, false
	}

	n, ok := signed64(un, (num < 0) != (den < 0))
	if !ok {
		return Ratio{}, false
	}

	return Ratio{num: n, den: int64(ud)}, true
}

// Num returns the numerator.
func (r Ratio) Num() int64 { return r.num }

// Den returns the denominator, which is always positive.
func (r Ratio) Den() int64 {
	if r.den == 0 {
		return 1
	}

	return r.den
}

// Float returns the nearest float64 to r.
func (r Ratio) Float() float64 { return float64(r.num) / float64(r.Den()) }

// IsZero reports whether r equals zero.
func (r Ratio) IsZero() bool { return r.num == 0 }

func (r Ratio) String() string {
	return strconv.FormatInt(r.num, 10) + "//" + strconv.FormatInt(r.Den(), 10)
}

// add returns r+s over the least common denominator.
func (r Ratio) add(s Ratio) (Ratio, bool) {
	return r.addSigned(s, false)
}

func (r Ratio) sub(s Ratio) (Ratio, bool) {
	return r.addSigned(s, true)
}

func (r Ratio) addSigned(s Ratio, negate bool) (Ratio, bool) {
	b, d := r.Den(), s.Den()
	g := gcd(b, d)
	b1, d1 := b/g, d/g

	x, ok1 := mul64(r.num, d1)
	y, ok2 := mul64(s.num, b1)
	den, ok3 := mul64(b, d1)

	if !ok1 || !ok2 || !ok3 {
		return Ratio{}, false
	}

	var (
		num int64
		ok  bool
	)

	if negate {
		num, ok = sub64(x, y)
	} else {
		num, ok = add64(x, y)
	}

	if !ok {
		return Ratio{}, false
	}

	return NewRatio(num, den)
}

// mul cross-reduces before multiplying, so the product is already in lowest
// terms.
func (r Ratio) mul(s Ratio) (Ratio, bool) {
	b, d := r.Den(), s.Den()
	g1 := int64(gcdU(uabs64(r.num), uint64(d)))
	g2 := int64(gcdU(uabs64(s.num), uint64(b)))

	num, ok1 := mul64(r.num/g1, s.num/g2)
	den, ok2 := mul64(b/g2, d/g1)

	if !ok1 || !ok2 {
		return Ratio{}, false
	}

	return NewRatio(num, den)
}

// inv returns 1/r. It reports false for zero.
func (r Ratio) inv() (Ratio, bool) {
	return NewRatio(r.Den(), r.num)
}

// quo returns r/s. It reports false if s is zero or the result overflows.
func (r Ratio) quo(s Ratio) (Ratio, bool) {
	t, ok := s.inv()
	if !ok {
		return Ratio{}, false
	}

	return r.mul(t)
}

// rem returns r - s*trunc(r/s), matching the sign convention of integer %.
func (r Ratio) rem(s Ratio) (Ratio, bool) {
	q, ok := r.quo(s)
	if !ok {
		return Ratio{}, false
	}

	p, ok := s.mul(ratioOf(q.num / q.Den()))
	if !ok {
		return Ratio{}, false
	}

	return r.sub(p)
}

func (r Ratio) neg() (Ratio, bool) {
	if r.num == math.MinInt64 {
		return Ratio{}, false
	}

	return Ratio{num: -r.num, den: r.Den()}, true
}

// cmp compares the full 128-bit cross products, so it never overflows.
func (r Ratio) cmp(s Ratio) int {
	sr, ss := sign64(r.num), sign64(s.num)
	if sr != ss || sr == 0 {
		return cmp3(sr, ss)
	}

	ahi, alo := bits.Mul64(uabs64(r.num), uint64(s.Den()))
	bhi, blo := bits.Mul64(uabs64(s.num), uint64(r.Den()))

	c := 0

	switch {
	case ahi < bhi || (ahi == bhi && alo < blo):
		c = -1
	case ahi > bhi || (ahi == bhi && alo > blo):
		c = 1
	}

	return c * sr
}

// pow raises r to the integer power n. It fails with WrongArgValue for 0
// raised to a negative power or a result that overflows.
func (r Ratio) pow(n int64) (Ratio, error) {
	base := r

	un := uint64(n)
	if n < 0 {
		inv, ok := r.inv()
		if !ok {
			return Ratio{}, WrongArgValue(Integer(n))
		}

		base, un = inv, uint64(-n)
	}

	acc := ratioOf(1)

	for ; un > 0; un >>= 1 {
		var ok bool

		if un&1 == 1 {
			if acc, ok = acc.mul(base); !ok {
				return Ratio{}, RatioOverflow(r, Integer(n))
			}
		}

		if un > 1 {
			if base, ok = base.mul(base); !ok {
				return Ratio{}, RatioOverflow(r, Integer(n))
			}
		}
	}

	return acc, nil
}

// Floor returns the greatest integer not greater than r.
func (r Ratio) Floor() int64 {
	q := r.num / r.Den()
	if r.num%r.Den() != 0 && r.num < 0 {
		q--
	}

	return q
}

// Ceil returns the least integer not less than r.
func (r Ratio) Ceil() int64 {
	q := r.num / r.Den()
	if r.num%r.Den() != 0 && r.num > 0 {
		q++
	}

	return q
}

func ratioOf(n int64) Ratio { return Ratio{num: n, den: 1} }

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// gcdU returns the greatest common divisor of a and b, or 1 if both are zero.
func gcdU(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}

	if a == 0 {
		return 1
	}

	return a
}

// uabs64 returns |n|, which is exact for math.MinInt64.
func uabs64(n int64) uint64 {
	if n < 0 {
		return uint64(-n)
	}

	return uint64(n)
}

func sign64(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// signed64 returns the magnitude u with the given sign.
func signed64(u uint64, negative bool) (int64, bool) {
	if negative {
		if u > 1<<63 {
			return 0, false
		}

		return int64(-u), true
	}

	if u > math.MaxInt64 {
		return 0, false
	}

	return int64(u), true
}

func mul64(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uabs64(a), uabs64(b))
	if hi != 0 {
		return 0, false
	}

	return signed64(lo, (a < 0) != (b < 0) && lo != 0)
}

func add64(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}

	return c, true
}

func sub64(a, b int64) (int64, bool) {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		return 0, false
	}

	return c, true
}
