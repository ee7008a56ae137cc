package cpu

import (
	"errors"

	"github.com/guitardave/dcpu16/translate"
)

var f = translate.From

var (
	// Scan-phase errors without token context.
	ErrStatement       = errors.New(f("statement does not match grammar"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
)

// ErrSyntax wraps any scan-phase error with the offending source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrUnknownMnemonic reports an operation name absent from both the basic
// and the non-basic mnemonic tables.
type ErrUnknownMnemonic string

func (err ErrUnknownMnemonic) Error() string {
	return f("unknown operation '%v'", string(err))
}

// ErrInvalidOperand reports a reserved register used in address form, or a
// literal token outside the signed 16-bit range.
type ErrInvalidOperand string

func (err ErrInvalidOperand) Error() string {
	return f("invalid operand '%v'", string(err))
}

// ErrUnresolvedOperand reports a token matching none of the addressing-mode
// classes.
type ErrUnresolvedOperand string

func (err ErrUnresolvedOperand) Error() string {
	return f("unresolved operand '%v'", string(err))
}

// ErrUnknownLabel reports a label referenced somewhere in the source but
// never defined.
type ErrUnknownLabel string

func (err ErrUnknownLabel) Error() string {
	return f("unknown label '%v'", string(err))
}

// ErrParseExpression reports a $() expression that did not evaluate to an
// integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
