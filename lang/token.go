package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind uint8

// Token kinds.
const (
	TokValue      TokenKind = iota // literal integer, float, string or bool
	TokImaginary                   // imaginary literal such as 2i; Val holds the magnitude
	TokIdent                       // identifier, possibly $-prefixed
	TokOp                          // binary operator
	TokNeg                         // unary minus, produced by the grouping pass
	TokAssign                      // =
	TokAssignOp                    // compound assignment such as +=
	TokLParen                      // (
	TokRParen                      // )
	TokComma                       // ,
	TokSemicolon                   // ;
	TokColon                       // :
	TokCall                        // function-call marker, produced by the grouping pass
)

// Op is an arithmetic or comparison operator.
type Op uint8

// Operators.
const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpFrac
	OpEq
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
)

// Symbol returns the source spelling of op.
func (op Op) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpPow:
		return "^"
	case OpFrac:
		return "//"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	default:
		return "?"
	}
}

func (op Op) String() string { return op.Symbol() }

// Apply evaluates a op b.
func (op Op) Apply(a, b Value) (Value, error) {
	switch op {
	case OpAdd:
		return Add(a, b)
	case OpSub:
		return Sub(a, b)
	case OpMul:
		return Mul(a, b)
	case OpDiv:
		return Div(a, b)
	case OpMod:
		return Mod(a, b)
	case OpPow:
		return Pow(a, b)
	case OpFrac:
		return Frac(a, b)
	case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe:
		return compareOp(op, a, b)
	default:
		return nil, ErrNoOperator.With(slog.String("op", op.Symbol()))
	}
}

// Token is one lexical unit of source text.
type Token struct {
	Val  Value  // TokValue, TokImaginary (as Float)
	Name string // TokIdent
	Pos  int    // byte offset in the source
	Kind TokenKind
	Op   Op // TokOp, TokAssignOp
}

// IsOperator reports whether t expects an operand to its right. A '(' that
// follows an operator-like token opens a group rather than a call, and a '-'
// after one is negation.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case TokOp, TokNeg, TokAssign, TokAssignOp, TokComma, TokSemicolon, TokColon:
		return true
	default:
		return false
	}
}

// Binding returns the precedence weight of t. Higher weights bind looser and
// end up nearer the root of the tree.
func (t Token) Binding() int {
	switch t.Kind {
	case TokSemicolon:
		return 120
	case TokComma:
		return 110
	case TokAssign, TokAssignOp:
		return 100
	case TokOp:
		switch t.Op {
		case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe:
			return 80
		case OpAdd, OpSub:
			return 70
		case OpMul, OpDiv, OpMod, OpFrac:
			return 60
		case OpPow:
			return 40
		}
	case TokNeg:
		return 35
	case TokColon:
		return 30
	case TokCall:
		return 20
	}

	return 0
}

// RightAssoc reports whether t groups right to left.
func (t Token) RightAssoc() bool {
	switch t.Kind {
	case TokNeg, TokAssign, TokAssignOp, TokComma:
		return true
	case TokOp:
		return t.Op == OpPow
	default:
		return false
	}
}

// String renders t as source text.
func (t Token) String() string {
	switch t.Kind {
	case TokValue:
		return t.Val.Repr()
	case TokImaginary:
		if f, ok := t.Val.(Float); ok && f == 1 {
			return "i"
		}

		return t.Val.String() + "i"
	case TokIdent:
		return t.Name
	case TokOp:
		return t.Op.Symbol()
	case TokNeg:
		return "-"
	case TokAssign:
		return "="
	case TokAssignOp:
		return t.Op.Symbol() + "="
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	case TokComma:
		return ","
	case TokSemicolon:
		return ";"
	case TokColon:
		return ":"
	case TokCall:
		return "<call>"
	default:
		return "?"
	}
}

// punct lists operator and punctuation spellings, longest first so that the
// first prefix match is the longest match.
var punct = []struct {
	text string
	tok  Token
}{
	{"//", Token{Kind: TokOp, Op: OpFrac}},
	{"<=", Token{Kind: TokOp, Op: OpLe}},
	{">=", Token{Kind: TokOp, Op: OpGe}},
	{"!=", Token{Kind: TokOp, Op: OpNe}},
	{"==", Token{Kind: TokOp, Op: OpEq}},
	{"+=", Token{Kind: TokAssignOp, Op: OpAdd}},
	{"-=", Token{Kind: TokAssignOp, Op: OpSub}},
	{"*=", Token{Kind: TokAssignOp, Op: OpMul}},
	{"/=", Token{Kind: TokAssignOp, Op: OpDiv}},
	{"%=", Token{Kind: TokAssignOp, Op: OpMod}},
	{"(", Token{Kind: TokLParen}},
	{")", Token{Kind: TokRParen}},
	{",", Token{Kind: TokComma}},
	{";", Token{Kind: TokSemicolon}},
	{":", Token{Kind: TokColon}},
	{"^", Token{Kind: TokOp, Op: OpPow}},
	{"=", Token{Kind: TokAssign}},
	{"<", Token{Kind: TokOp, Op: OpLt}},
	{">", Token{Kind: TokOp, Op: OpGt}},
	{"+", Token{Kind: TokOp, Op: OpAdd}},
	{"-", Token{Kind: TokOp, Op: OpSub}},
	{"*", Token{Kind: TokOp, Op: OpMul}},
	{"/", Token{Kind: TokOp, Op: OpDiv}},
	{"%", Token{Kind: TokOp, Op: OpMod}},
}

// Tokenize splits src into tokens.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{src: strings.TrimRight(src, " \t\r\n\v\f")}

	var tokens []Token

	for {
		lx.skipSpace()

		if lx.eof() {
			return tokens, nil
		}

		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}
}

// lexer holds the tokenizer state.
type lexer struct {
	src string
	pos int
}

func (lx *lexer) eof() bool { return lx.pos >= len(lx.src) }

func (lx *lexer) peekAt(off int) byte {
	if lx.pos+off >= len(lx.src) {
		return 0
	}

	return lx.src[lx.pos+off]
}

func (lx *lexer) skipSpace() {
	for !lx.eof() && isSpace(lx.src[lx.pos]) {
		lx.pos++
	}
}

func (lx *lexer) next() (Token, error) {
	start := lx.pos
	c := lx.peekAt(0)

	switch {
	case isIdentStart(c) || (c == '$' && isIdentStart(lx.peekAt(1))):
		return lx.ident(), nil
	case isDigit(c) || (c == '.' && isDigit(lx.peekAt(1))):
		return lx.number()
	case c == '"':
		if tok, ok, err := lx.str(); ok {
			return tok, err
		}
	}

	rest := lx.src[start:]

	for _, p := range punct {
		if strings.HasPrefix(rest, p.text) {
			lx.pos += len(p.text)

			tok := p.tok
			tok.Pos = start

			return tok, nil
		}
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return Token{}, ErrUnexpected.
		Msgf("Invalid token beginning with '%c' at position %d", r, start).
		With(slog.Int("pos", start), slog.String("char", string(r)))
}

func (lx *lexer) ident() Token {
	start := lx.pos
	if lx.src[lx.pos] == '$' {
		lx.pos++
	}

	for !lx.eof() && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}

	switch name := lx.src[start:lx.pos]; name {
	case "i":
		return Token{Kind: TokImaginary, Val: Float(1), Pos: start}
	case "true":
		return Token{Kind: TokValue, Val: Bool(true), Pos: start}
	case "false":
		return Token{Kind: TokValue, Val: Bool(false), Pos: start}
	default:
		return Token{Kind: TokIdent, Name: name, Pos: start}
	}
}

func (lx *lexer) number() (Token, error) {
	start := lx.pos

	for !lx.eof() && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}

	if lx.peekAt(0) == '.' {
		lx.pos++

		for !lx.eof() && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}

	if lx.peekAt(0) == 'i' {
		lx.pos++
	}

	text := lx.src[start:lx.pos]

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Token{Kind: TokValue, Val: Integer(n), Pos: start}, nil
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Token{Kind: TokValue, Val: Float(f), Pos: start}, nil
	}

	if mag, ok := strings.CutSuffix(text, "i"); ok {
		if f, err := strconv.ParseFloat(mag, 64); err == nil {
			return Token{Kind: TokImaginary, Val: Float(f), Pos: start}, nil
		}
	}

	return Token{}, ErrInvalidNumber.
		Msgf("Numerical literal '%s' at %d could not be parsed as a number", text, start).
		With(slog.Int("pos", start), slog.String("literal", text))
}

// str scans a string literal. It reports false, leaving the position
// unchanged, if the literal is unterminated or contains a malformed escape;
// the caller then reports the quote as an unexpected character.
func (lx *lexer) str() (Token, bool, error) {
	start := lx.pos
	i := start + 1

	var sb strings.Builder

	for i < len(lx.src) {
		c := lx.src[i]

		switch c {
		case '"':
			lx.pos = i + 1

			return Token{Kind: TokValue, Val: Str(sb.String()), Pos: start}, true, nil
		case '\\':
			n, ok, err := unescape(lx.src[i:], &sb)
			if !ok {
				return Token{}, false, nil
			}

			if err != nil {
				lx.pos = i

				return Token{}, true, err
			}

			i += n
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return Token{}, false, nil
}

// unescape decodes the escape sequence at the start of s into sb and returns
// its length.
func unescape(s string, sb *strings.Builder) (int, bool, error) {
	if len(s) < 2 {
		return 0, false, nil
	}

	switch s[1] {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'e':
		sb.WriteByte(0x1b)
	case '0':
		sb.WriteByte(0)
	case '"':
		sb.WriteByte('"')
	case '\\':
		sb.WriteByte('\\')
	case 'x':
		if len(s) < 4 || !isHex(s[2]) || !isHex(s[3]) {
			return 0, false, nil
		}

		n, _ := strconv.ParseUint(s[2:4], 16, 32)
		sb.WriteRune(rune(n))

		return 4, true, nil
	case 'u':
		end := strings.IndexByte(s, '}')
		if len(s) < 4 || s[2] != '{' || end < 4 || end > 11 {
			return 0, false, nil
		}

		digits := s[3:end]
		for i := range len(digits) {
			if !isHex(digits[i]) {
				return 0, false, nil
			}
		}

		n, _ := strconv.ParseUint(digits, 16, 32)
		if r := rune(n); !utf8.ValidRune(r) {
			return 0, true, ErrInvalidCodepoint.
				Msgf("%#x is not a valid Unicode codepoint", n).
				With(slog.Uint64("codepoint", n))
		}

		sb.WriteRune(rune(n))

		return end + 1, true, nil
	default:
		return 0, false, nil
	}

	return 2, true, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
