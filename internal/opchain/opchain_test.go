package opchain

import (
	"errors"
	"testing"
)

func TestChainString(t *testing.T) {
	chain := Chain{
		{Op: OpAdd, Operand: 3},
		{Op: OpSub, Operand: 4},
		{Op: OpRevSub, Operand: 6},
		{Op: OpAnd, Operand: 1},
		{Op: OpOr, Operand: 8},
		{Op: OpXor, Operand: 6},
		{Op: OpNot},
		{Op: OpShr, Operand: 4},
		{Op: OpShl, Operand: 2},
	}
	want := "+3,-4,6-,&1,|8,^6,~,=>>4,=<<2"
	if got := chain.String(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestNormalizeZeroesUnaryOperand(t *testing.T) {
	in := Chain{{Op: OpNot, Operand: 77}, {Op: OpAdd, Operand: 5}}
	out := in.Normalize()
	if out[0].Operand != 0 {
		t.Fatalf("expected unary operand zeroed, got %d", out[0].Operand)
	}
	if out[1].Operand != 5 {
		t.Fatalf("binary operand changed: %d", out[1].Operand)
	}
	if in[0].Operand != 77 {
		t.Fatalf("normalize mutated input")
	}
}

func TestValidate(t *testing.T) {
	if err := (Chain{{Op: OpShl, Operand: 1}}).Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := (Chain{{Op: NumOpcodes}}).Validate(); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
}

func TestOpcodeString(t *testing.T) {
	if OpRevSub.String() != "rsub" {
		t.Fatalf("unexpected name: %q", OpRevSub.String())
	}
	if Opcode(12).String() != "opcode(12)" {
		t.Fatalf("unexpected name: %q", Opcode(12).String())
	}
}
