package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Kind classifies an [Error] by the failure it describes.
type Kind uint8

// Error kinds, grouped by the stage that raises them.
const (
	KindUnknown Kind = iota

	// Tokenizer.
	KindUnexpected
	KindInvalidNumber
	KindInvalidCodepoint

	// Tree builder.
	KindNoLParen
	KindNoRParen
	KindTokenNoArgs
	KindAssignLeftInvalid
	KindColonLeftNotIdentifier
	KindNoOperator

	// Evaluator and library functions.
	KindTooFewArgs
	KindTooManyArgs
	KindWrongFunc
	KindVariableUnset
	KindIdentifierReserved
	KindInvalidSpecialIdent
	KindWrongArgType
	KindWrongOpArgTypes
	KindWrongArgValue
	KindListOutOfBounds
	KindIO
	KindOther
)

// Stage names the pipeline stage that raises errors of kind k.
func (k Kind) Stage() string {
	switch {
	case k >= KindUnexpected && k <= KindInvalidCodepoint:
		return "tokenize"
	case k >= KindNoLParen && k <= KindNoOperator:
		return "tree"
	case k >= KindTooFewArgs:
		return "eval"
	default:
		return "unknown"
	}
}

func (k Kind) String() string {
	switch k {
	case KindUnexpected:
		return "Unexpected"
	case KindInvalidNumber:
		return "InvalidNumber"
	case KindInvalidCodepoint:
		return "InvalidCodepoint"
	case KindNoLParen:
		return "NoLParen"
	case KindNoRParen:
		return "NoRParen"
	case KindTokenNoArgs:
		return "TokenNoArgs"
	case KindAssignLeftInvalid:
		return "AssignLeftInvalid"
	case KindColonLeftNotIdentifier:
		return "ColonLeftNotIdentifier"
	case KindNoOperator:
		return "NoOperator"
	case KindTooFewArgs:
		return "TooFewArgs"
	case KindTooManyArgs:
		return "TooManyArgs"
	case KindWrongFunc:
		return "WrongFunc"
	case KindVariableUnset:
		return "VariableUnset"
	case KindIdentifierReserved:
		return "IdentifierReserved"
	case KindInvalidSpecialIdent:
		return "InvalidSpecialIdent"
	case KindWrongArgType:
		return "WrongArgType"
	case KindWrongOpArgTypes:
		return "WrongOpArgTypes"
	case KindWrongArgValue:
		return "WrongArgValue"
	case KindListOutOfBounds:
		return "ListOutOfBounds"
	case KindIO:
		return "IOError"
	case KindOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// Predefined errors (sentinel values). Compare with errors.Is; occurrences
// derived from a sentinel match it regardless of message or attributes.
var (
	ErrUnexpected        = newKindError(KindUnexpected, "unexpected character")
	ErrInvalidNumber     = newKindError(KindInvalidNumber, "invalid numeric literal")
	ErrInvalidCodepoint  = newKindError(KindInvalidCodepoint, "invalid codepoint")
	ErrNoLParen          = newKindError(KindNoLParen, "unmatched closing parenthesis")
	ErrNoRParen          = newKindError(KindNoRParen, "unmatched opening parenthesis")
	ErrTokenNoArgs       = newKindError(KindTokenNoArgs, "operator is missing an operand")
	ErrAssignLeftInvalid = newKindError(KindAssignLeftInvalid, "left side of assignment must be an identifier")
	ErrColonLeftNotIdent = newKindError(KindColonLeftNotIdentifier, "left side of ':' must be identifiers")
	ErrNoOperator        = newKindError(KindNoOperator, "no operator for token")

	ErrTooFewArgs          = newKindError(KindTooFewArgs, "too few arguments")
	ErrTooManyArgs         = newKindError(KindTooManyArgs, "too many arguments")
	ErrWrongFunc           = newKindError(KindWrongFunc, "value is not a function")
	ErrVariableUnset       = newKindError(KindVariableUnset, "variable has not been initialized")
	ErrIdentifierReserved  = newKindError(KindIdentifierReserved, "identifier is reserved")
	ErrInvalidSpecialIdent = newKindError(KindInvalidSpecialIdent, "special identifier does not exist")
	ErrWrongArgType        = newKindError(KindWrongArgType, "argument is of the wrong type")
	ErrWrongOpArgTypes     = newKindError(KindWrongOpArgTypes, "operator arguments are of the wrong types")
	ErrWrongArgValue       = newKindError(KindWrongArgValue, "argument has an invalid value")
	ErrListOutOfBounds     = newKindError(KindListOutOfBounds, "list index out of bounds")
	ErrIO                  = newKindError(KindIO, "IO Error")
	ErrOther               = newKindError(KindOther, "error")
)

// TraceKind identifies what produced an error.
type TraceKind uint8

// Trace kinds.
const (
	TraceNone TraceKind = iota
	TraceFunction
	TraceOperator
	TraceManual
)

// Trace records the operator or function active when an error was raised.
type Trace struct {
	Kind TraceKind
	Name string
}

// FunctionTrace returns a trace naming function name.
func FunctionTrace(name string) Trace { return Trace{Kind: TraceFunction, Name: name} }

// OperatorTrace returns a trace naming operator symbol sym.
func OperatorTrace(sym string) Trace { return Trace{Kind: TraceOperator, Name: sym} }

// ManualTrace returns the trace of an error raised by a script.
func ManualTrace() Trace { return Trace{Kind: TraceManual} }

// String returns the prefix rendered in front of an error message.
func (t Trace) String() string {
	switch t.Kind {
	case TraceFunction:
		return "Function '" + t.Name + "': "
	case TraceOperator:
		return "Operator '" + t.Name + "': "
	case TraceManual:
		return "Induced manually: "
	default:
		return ""
	}
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	trace Trace
	kind  Kind
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func newKindError(kind Kind, msg string) *Error {
	return &Error{msg: msg, kind: kind}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err, kind: KindOther}
}

// Error implements the error interface.
//
// The trace prefix (if any) precedes the message, and the wrapped error
// follows it separated by ": ".
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return e.trace.String() + strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind != KindUnknown && t.kind == e.kind
}

// Kind returns the kind of e.
func (e *Error) Kind() Kind { return e.kind }

// Trace returns the provenance trace of e.
func (e *Error) Trace() Trace { return e.trace }

// Message returns the message of e without trace prefix or cause.
func (e *Error) Message() string { return e.msg }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.kind != KindUnknown {
		attrs = append(attrs, slog.String("kind", e.kind.String()))
	}

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.trace.Kind != TraceNone {
		attrs = append(attrs, slog.String("trace", strings.TrimSuffix(e.trace.String(), ": ")))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// Msgf returns a copy of e with its message replaced.
func (e *Error) Msgf(format string, args ...any) *Error {
	c := e.clone()
	c.msg = fmt.Sprintf(format, args...)

	return c
}

// Traced returns a copy of e carrying trace t, unless e already has a trace.
func (e *Error) Traced(t Trace) *Error {
	if e.trace.Kind != TraceNone {
		return e
	}

	c := e.clone()
	c.trace = t

	return c
}

// withTrace attaches t to err if err is an untraced *Error.
func withTrace(err error, t Trace) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Traced(t)
	}

	return err
}

// TooFewArgs reports a call with count arguments where min are required.
func TooFewArgs(min, count int) *Error {
	return ErrTooFewArgs.
		Msgf("Too few arguments (expected %d, found %d)", min, count).
		With(slog.Int("min", min), slog.Int("count", count))
}

// TooManyArgs reports a call with count arguments where at most max are
// accepted.
func TooManyArgs(max, count int) *Error {
	return ErrTooManyArgs.
		Msgf("Too many arguments (expected %d, found %d)", max, count).
		With(slog.Int("max", max), slog.Int("count", count))
}

// WrongFunc reports an attempt to call v.
func WrongFunc(v Value) *Error {
	return ErrWrongFunc.Msgf("'%s' is not a function", v).
		With(slog.String("type", v.Type().String()))
}

// VariableUnset reports a lookup of the unbound name.
func VariableUnset(name string) *Error {
	return ErrVariableUnset.Msgf("Variable '%s' has not been initialized", name).
		With(slog.String("name", name))
}

// IdentifierReserved reports an attempt to bind a reserved name.
func IdentifierReserved(name string) *Error {
	return ErrIdentifierReserved.Msgf("Identifier '%s' is reserved", name).
		With(slog.String("name", name))
}

// InvalidSpecialIdent reports an unknown $-prefixed name.
func InvalidSpecialIdent(name string) *Error {
	return ErrInvalidSpecialIdent.Msgf("Special identifier '%s' does not exist", name).
		With(slog.String("name", name))
}

// WrongArgType reports an argument of an unsupported type.
func WrongArgType(v Value) *Error {
	return ErrWrongArgType.Msgf("Argument '%s' is of the wrong type", v).
		With(slog.String("type", v.Type().String()))
}

// WrongOpArgTypes reports an operator applied to an unsupported pair of
// operand types.
func WrongOpArgTypes(a, b Value) *Error {
	return ErrWrongOpArgTypes.
		Msgf("Operator arguments '%s' and '%s' are of the wrong types", a.Type(), b.Type())
}

// WrongArgValue reports an argument of the right type with an unusable value.
func WrongArgValue(v Value) *Error {
	return ErrWrongArgValue.Msgf("Argument '%s' has an invalid value", v).
		With(slog.String("type", v.Type().String()))
}

// RatioOverflow reports exact arithmetic on a and b whose result does not
// fit in a 64-bit Ratio.
func RatioOverflow(a, b Value) *Error {
	return ErrWrongArgValue.Msgf("Exact arithmetic on '%s' and '%s' overflows", a, b).
		With(slog.String("type", TypeRatio.String()))
}

// ListOutOfBounds reports an invalid list index.
func ListOutOfBounds(index int64) *Error {
	return ErrListOutOfBounds.Msgf("List index %d out of bounds", index).
		With(slog.Int64("index", index))
}

// IOError reports a failed file or stream operation.
func IOError(err error) *Error {
	return ErrIO.Wrap(err)
}

// Other reports a library-defined failure.
func Other(msg string) *Error {
	return ErrOther.Msgf("%s", msg)
}
