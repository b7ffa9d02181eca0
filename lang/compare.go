package lang

// Equal reports whether a and b are equal. Numbers compare across types
// after promotion, so 1 == 1.0 == 1//1 == 1+0i. Values of unrelated types
// are never equal.
func Equal(a, b Value) bool {
	if x, y, l := promote(a, b); l != levelNone {
		switch l {
		case levelInteger:
			return x.(Integer) == y.(Integer)
		case levelRatio:
			return x.(Ratio).cmp(y.(Ratio)) == 0
		case levelFloat:
			return x.(Float) == y.(Float)
		default:
			return x.(Complex) == y.(Complex)
		}
	}

	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)

		return ok && x == y
	case Str:
		y, ok := b.(Str)

		return ok && x == y
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}

		return true
	case *Function:
		y, ok := b.(*Function)

		return ok && x == y
	case *Lambda:
		y, ok := b.(*Lambda)

		return ok && x == y
	case Void:
		_, ok := b.(Void)

		return ok
	}

	return false
}

// Compare orders a and b, returning -1, 0 or +1. It reports false when the
// pair is unordered: a NaN operand, a Complex operand, or types other than
// two real numbers or two Bools.
func Compare(a, b Value) (int, bool) {
	x, y, l := promote(a, b)

	switch l {
	case levelInteger:
		return cmp3(x.(Integer), y.(Integer)), true
	case levelRatio:
		return x.(Ratio).cmp(y.(Ratio)), true
	case levelFloat:
		p, q := x.(Float), y.(Float)
		if p != p || q != q {
			return 0, false
		}

		return cmp3(p, q), true
	case levelComplex:
		return 0, false
	}

	if p, ok := a.(Bool); ok {
		if q, ok := b.(Bool); ok {
			return cmp3(boolInt(p), boolInt(q)), true
		}
	}

	return 0, false
}

// orderable reports whether a and b belong to a pair of types that ordering
// operators accept, even if the particular values are unordered.
func orderable(a, b Value) bool {
	la, lb := levelOf(a), levelOf(b)
	if la != levelNone && lb != levelNone {
		return la != levelComplex && lb != levelComplex
	}

	_, p := a.(Bool)
	_, q := b.(Bool)

	return p && q
}

// compareOp applies one of the ordering or equality operators.
func compareOp(op Op, a, b Value) (Value, error) {
	switch op {
	case OpEq:
		return Bool(Equal(a, b)), nil
	case OpNe:
		return Bool(!Equal(a, b)), nil
	}

	if !orderable(a, b) {
		return nil, WrongOpArgTypes(a, b)
	}

	c, ok := Compare(a, b)
	if !ok {
		return Bool(false), nil
	}

	switch op {
	case OpLt:
		return Bool(c < 0), nil
	case OpGt:
		return Bool(c > 0), nil
	case OpLe:
		return Bool(c <= 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func cmp3[T ~int64 | ~float64 | ~int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolInt(b Bool) int {
	if b {
		return 1
	}

	return 0
}
