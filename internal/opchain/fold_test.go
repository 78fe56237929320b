package opchain

import (
	"errors"
	"math"
	"testing"
)

func TestFoldExamples(t *testing.T) {
	tests := []struct {
		name       string
		item       uint32
		chain      Chain
		iterations uint32
		want       uint32
	}{
		{
			name:       "or then shift right",
			item:       6,
			chain:      Chain{{Op: OpOr, Operand: 8}, {Op: OpShr, Operand: 4}},
			iterations: 1,
			want:       0,
		},
		{
			name:       "add sub xor",
			item:       7,
			chain:      Chain{{Op: OpAdd, Operand: 3}, {Op: OpSub, Operand: 4}, {Op: OpXor, Operand: 6}},
			iterations: 1,
			want:       0,
		},
		{
			name:       "reverse subtract",
			item:       7,
			chain:      Chain{{Op: OpRevSub, Operand: 6}},
			iterations: 1,
			want:       math.MaxUint32,
		},
		{
			name:       "zero iterations",
			item:       42,
			chain:      Chain{{Op: OpAdd, Operand: 1}},
			iterations: 0,
			want:       42,
		},
		{
			name:       "two iterations",
			item:       1,
			chain:      Chain{{Op: OpAdd, Operand: 1}, {Op: OpShl, Operand: 1}},
			iterations: 2,
			want:       10,
		},
		{
			name:       "empty chain",
			item:       9,
			chain:      nil,
			iterations: 3,
			want:       9,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Fold(tc.item, tc.chain, tc.iterations)
			if err != nil {
				t.Fatalf("fold: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestFoldStepByStep(t *testing.T) {
	chain := Chain{{Op: OpAdd, Operand: 3}, {Op: OpSub, Operand: 4}, {Op: OpXor, Operand: 6}}
	item := uint32(7)
	want := []uint32{10, 6, 0}
	for i, step := range chain {
		next, err := Apply(step, item)
		if err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
		if next != want[i] {
			t.Fatalf("step %d: got=%d want=%d", i, next, want[i])
		}
		item = next
	}
}

func TestApplyWraparound(t *testing.T) {
	tests := []struct {
		name string
		step Step
		item uint32
		want uint32
	}{
		{"add wraps", Step{Op: OpAdd, Operand: 2}, math.MaxUint32, 1},
		{"sub wraps", Step{Op: OpSub, Operand: 1}, 0, math.MaxUint32},
		{"rsub", Step{Op: OpRevSub, Operand: 10}, 3, 7},
		{"and", Step{Op: OpAnd, Operand: 0x0f}, 0xff, 0x0f},
		{"or", Step{Op: OpOr, Operand: 0xf0}, 0x0f, 0xff},
		{"xor", Step{Op: OpXor, Operand: 0xff}, 0x0f, 0xf0},
		{"not ignores operand", Step{Op: OpNot, Operand: 1234}, 0, math.MaxUint32},
		{"shr", Step{Op: OpShr, Operand: 4}, 0xf0, 0x0f},
		{"shl", Step{Op: OpShl, Operand: 4}, 0x0f, 0xf0},
		{"shr by 32 is shr by 0", Step{Op: OpShr, Operand: 32}, 0xabcd, 0xabcd},
		{"shl by 33 is shl by 1", Step{Op: OpShl, Operand: 33}, 1, 2},
		{"shl drops high bits", Step{Op: OpShl, Operand: 31}, 3, 0x80000000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.step, tc.item)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got=%#x want=%#x", got, tc.want)
			}
		})
	}
}

func TestApplyUnknownOpcode(t *testing.T) {
	_, err := Apply(Step{Op: Opcode(9), Operand: 1}, 1)
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
}

func TestFoldRejectsUnknownOpcodeBeforeWork(t *testing.T) {
	chain := Chain{{Op: OpAdd, Operand: 1}, {Op: Opcode(42)}}
	if _, err := Fold(1, chain, 0); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
}
