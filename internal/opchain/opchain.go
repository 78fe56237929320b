// Package opchain owns the operation chain model and the fold that workers
// run over each item.
//
// Ownership boundary:
// - opcode table (closed set of nine codes)
// - step/chain values shared by the grammar and the wire codec
// - deterministic 32-bit fold
package opchain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownOpcode = errors.New("opchain: unknown opcode")

// Opcode identifies one chain operation. Values are the wire codes.
type Opcode uint32

const (
	OpAdd    Opcode = 0 // item + operand
	OpSub    Opcode = 1 // item - operand
	OpRevSub Opcode = 2 // operand - item
	OpAnd    Opcode = 3
	OpOr     Opcode = 4
	OpXor    Opcode = 5
	OpNot    Opcode = 6 // unary, operand slot carries 0
	OpShr    Opcode = 7
	OpShl    Opcode = 8
)

// NumOpcodes is the size of the closed opcode set.
const NumOpcodes = 9

var opcodeNames = [NumOpcodes]string{
	OpAdd:    "add",
	OpSub:    "sub",
	OpRevSub: "rsub",
	OpAnd:    "and",
	OpOr:     "or",
	OpXor:    "xor",
	OpNot:    "not",
	OpShr:    "shr",
	OpShl:    "shl",
}

func (o Opcode) Valid() bool {
	return o < NumOpcodes
}

// Unary reports whether the opcode ignores its operand.
func (o Opcode) Unary() bool {
	return o == OpNot
}

func (o Opcode) String() string {
	if !o.Valid() {
		return "opcode(" + strconv.FormatUint(uint64(o), 10) + ")"
	}
	return opcodeNames[o]
}

// Step is one (opcode, operand) pair of a chain.
type Step struct {
	Op      Opcode
	Operand uint32
}

// String renders the step in the op-chain grammar.
func (s Step) String() string {
	operand := strconv.FormatUint(uint64(s.Operand), 10)
	switch s.Op {
	case OpAdd:
		return "+" + operand
	case OpSub:
		return "-" + operand
	case OpRevSub:
		return operand + "-"
	case OpAnd:
		return "&" + operand
	case OpOr:
		return "|" + operand
	case OpXor:
		return "^" + operand
	case OpNot:
		return "~"
	case OpShr:
		return "=>>" + operand
	case OpShl:
		return "=<<" + operand
	default:
		return s.Op.String()
	}
}

// Chain is an ordered list of steps. Order is significant.
type Chain []Step

// Validate checks every opcode is part of the closed set.
func (c Chain) Validate() error {
	for i, step := range c {
		if !step.Op.Valid() {
			return fmt.Errorf("%w: step %d code %d", ErrUnknownOpcode, i, uint32(step.Op))
		}
	}
	return nil
}

// Normalize returns a copy with unary operands zeroed, the form they take on the wire.
func (c Chain) Normalize() Chain {
	out := make(Chain, len(c))
	for i, step := range c {
		if step.Op.Unary() {
			step.Operand = 0
		}
		out[i] = step
	}
	return out
}

// String renders the chain in the op-chain grammar.
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, step := range c {
		parts[i] = step.String()
	}
	return strings.Join(parts, ",")
}
