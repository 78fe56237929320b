package grammar

// DefaultMaxOperands bounds range expansion so "0-4294967295" cannot exhaust memory.
const DefaultMaxOperands = 1 << 20

type operandToken struct {
	lo, hi  uint32
	isRange bool
}

func (t operandToken) count() uint64 {
	if !t.isRange {
		return 1
	}
	if t.lo > t.hi {
		return 0
	}
	return uint64(t.hi-t.lo) + 1
}

// ParseOperands parses a comma-separated operand list using DefaultMaxOperands.
func ParseOperands(src string) ([]uint32, error) {
	return ParseOperandsLimit(src, DefaultMaxOperands)
}

// ParseOperandsLimit parses src into an ordered list of operands, expanding
// inclusive ranges in place. A reversed range ("4-1") expands to nothing.
// A limit of zero or less disables the check.
func ParseOperandsLimit(src string, limit int) ([]uint32, error) {
	raw := splitTokens(src)
	tokens := make([]operandToken, 0, len(raw))
	var total uint64
	for i, tok := range raw {
		parsed, err := lexOperand(tok)
		if err != nil {
			return nil, tokenError(err, i, tok)
		}
		total += parsed.count()
		if limit > 0 && total > uint64(limit) {
			return nil, tokenError(ErrTooManyOperands, i, tok)
		}
		tokens = append(tokens, parsed)
	}

	out := make([]uint32, 0, total)
	for _, tok := range tokens {
		if !tok.isRange {
			out = append(out, tok.lo)
			continue
		}
		for v := uint64(tok.lo); v <= uint64(tok.hi); v++ {
			out = append(out, uint32(v))
		}
	}
	return out, nil
}

// lexOperand accepts N, optionally sign-prefixed, or LO-HI with unsigned bounds.
func lexOperand(tok string) (operandToken, error) {
	s := scanner{src: tok}
	lo, ok := s.signedNumber()
	if !ok {
		return operandToken{}, ErrInvalidOperand
	}
	if s.done() {
		v, err := lo.value()
		if err != nil {
			return operandToken{}, err
		}
		return operandToken{lo: v, hi: v}, nil
	}
	if lo.negative || !s.accept("-") {
		return operandToken{}, ErrInvalidOperand
	}
	hiDigits, ok := s.digits()
	if !ok || !s.done() {
		return operandToken{}, ErrInvalidOperand
	}
	loVal, err := lo.value()
	if err != nil {
		return operandToken{}, err
	}
	hiVal, err := number{digits: hiDigits}.value()
	if err != nil {
		return operandToken{}, err
	}
	return operandToken{lo: loVal, hi: hiVal, isRange: true}, nil
}
