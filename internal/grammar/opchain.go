package grammar

import (
	"fmt"

	"github.com/danmuck/chainctl/internal/opchain"
)

// binaryPrefixes maps operator prefixes to opcodes. Longer prefixes first.
var binaryPrefixes = []struct {
	symbol string
	op     opchain.Opcode
}{
	{"=>>", opchain.OpShr},
	{"=<<", opchain.OpShl},
	{"+", opchain.OpAdd},
	{"-", opchain.OpSub},
	{"&", opchain.OpAnd},
	{"|", opchain.OpOr},
	{"^", opchain.OpXor},
}

// ParseOpChain parses a comma-separated op-chain into ordered steps.
//
// Token forms: "+N" "-N" "&N" "|N" "^N" "=>>N" "=<<N", "N-" (operand minus
// item) and "~" (bitwise not, operand 0).
func ParseOpChain(src string) (opchain.Chain, error) {
	raw := splitTokens(src)
	steps := make([]opchain.Step, 0, len(raw))
	for i, tok := range raw {
		step, err := lexStep(tok)
		if err != nil {
			return nil, tokenError(err, i, tok)
		}
		steps = append(steps, step)
	}
	return opchain.Chain(steps), nil
}

func lexStep(tok string) (opchain.Step, error) {
	if tok == "~" {
		return opchain.Step{Op: opchain.OpNot}, nil
	}

	s := scanner{src: tok}
	if d, ok := s.digits(); ok {
		if !s.accept("-") || !s.done() {
			return opchain.Step{}, ErrInvalidOpChain
		}
		v, err := stepOperand(d)
		if err != nil {
			return opchain.Step{}, err
		}
		return opchain.Step{Op: opchain.OpRevSub, Operand: v}, nil
	}

	for _, p := range binaryPrefixes {
		if !s.accept(p.symbol) {
			continue
		}
		d, ok := s.digits()
		if !ok || !s.done() {
			return opchain.Step{}, ErrInvalidOpChain
		}
		v, err := stepOperand(d)
		if err != nil {
			return opchain.Step{}, err
		}
		return opchain.Step{Op: p.op, Operand: v}, nil
	}
	return opchain.Step{}, ErrInvalidOpChain
}

func stepOperand(digits string) (uint32, error) {
	v, err := number{digits: digits}.value()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidOpChain, err)
	}
	return v, nil
}
