package grammar

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOperand    = errors.New("grammar: invalid operand")
	ErrOperandOutOfRange = errors.New("grammar: operand out of range 0 - 2^32")
	ErrTooManyOperands   = errors.New("grammar: too many operands")
	ErrInvalidOpChain    = errors.New("grammar: invalid op-chain token")
)

// Error reports the offending token of a rejected operand list or op-chain.
type Error struct {
	Err   error
	Index int
	Token string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: token %d %q", e.Err, e.Index, e.Token)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func tokenError(err error, index int, token string) *Error {
	return &Error{Err: err, Index: index, Token: token}
}
