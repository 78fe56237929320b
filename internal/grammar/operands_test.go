package grammar

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseOperands(t *testing.T) {
	tests := []struct {
		src  string
		want []uint32
	}{
		{"1-4", []uint32{1, 2, 3, 4}},
		{"1,4,7", []uint32{1, 4, 7}},
		{"7", []uint32{7}},
		{"0", []uint32{0}},
		{"4294967295", []uint32{4294967295}},
		{"4294967294-4294967295", []uint32{4294967294, 4294967295}},
		{"9,1-3,9", []uint32{9, 1, 2, 3, 9}},
		{"5-5", []uint32{5}},
		{"-0", []uint32{0}},
		{"007", []uint32{7}},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := ParseOperands(tc.src)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.src, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("operands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOperandsReversedRangeIsEmpty(t *testing.T) {
	got, err := ParseOperands("4-1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty expansion, got %v", got)
	}

	got, err = ParseOperands("2,4-1,3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]uint32{2, 3}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("operands mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOperandsRejects(t *testing.T) {
	tests := []struct {
		src   string
		want  error
		index int
	}{
		{"4294967296", ErrOperandOutOfRange, 0},
		{"1,99999999999999999999", ErrOperandOutOfRange, 1},
		{"1-4294967296", ErrOperandOutOfRange, 0},
		{"-3", ErrOperandOutOfRange, 0},
		{"1--3", ErrInvalidOperand, 0},
		{"-0-3", ErrInvalidOperand, 0},
		{" 2,3", ErrInvalidOperand, 0},
		{"2, 3", ErrInvalidOperand, 1},
		{"1\t", ErrInvalidOperand, 0},
		{"", ErrInvalidOperand, 0},
		{"1,,2", ErrInvalidOperand, 1},
		{"1,", ErrInvalidOperand, 1},
		{"a", ErrInvalidOperand, 0},
		{"1-", ErrInvalidOperand, 0},
		{"1-2-3", ErrInvalidOperand, 0},
		{"+1", ErrInvalidOperand, 0},
		{"1 2", ErrInvalidOperand, 0},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := ParseOperands(tc.src)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got != nil {
				t.Fatalf("expected no partial result, got %v", got)
			}
			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if gerr.Index != tc.index {
				t.Fatalf("unexpected index: got=%d want=%d", gerr.Index, tc.index)
			}
		})
	}
}

func TestParseOperandsLimit(t *testing.T) {
	if _, err := ParseOperandsLimit("1-10", 10); err != nil {
		t.Fatalf("limit 10: %v", err)
	}
	_, err := ParseOperandsLimit("1-10,11", 10)
	if !errors.Is(err, ErrTooManyOperands) {
		t.Fatalf("expected ErrTooManyOperands, got %v", err)
	}
	if _, err := ParseOperands("0-4294967295"); !errors.Is(err, ErrTooManyOperands) {
		t.Fatalf("expected default limit to reject full range, got %v", err)
	}
	got, err := ParseOperandsLimit("1-3", 0)
	if err != nil {
		t.Fatalf("unlimited: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected operands: %v", got)
	}
}

func TestParseOperandsIsPure(t *testing.T) {
	a, err := ParseOperands("3,1-4,2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := ParseOperands("3,1-4,2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("parses differ:\n%s", diff)
	}
}
