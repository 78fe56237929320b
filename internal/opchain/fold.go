package opchain

import "fmt"

// shiftMask reduces shift amounts modulo 32 so every platform agrees.
const shiftMask = 31

// Apply runs one step against item using 32-bit wraparound arithmetic.
func Apply(step Step, item uint32) (uint32, error) {
	operand := step.Operand
	switch step.Op {
	case OpAdd:
		return item + operand, nil
	case OpSub:
		return item - operand, nil
	case OpRevSub:
		return operand - item, nil
	case OpAnd:
		return item & operand, nil
	case OpOr:
		return item | operand, nil
	case OpXor:
		return item ^ operand, nil
	case OpNot:
		return ^item, nil
	case OpShr:
		return item >> (operand & shiftMask), nil
	case OpShl:
		return item << (operand & shiftMask), nil
	default:
		return 0, fmt.Errorf("%w: code %d", ErrUnknownOpcode, uint32(step.Op))
	}
}

// Fold applies chain to item iterations times and returns the result.
// Zero iterations leaves the item unchanged.
func Fold(item uint32, chain Chain, iterations uint32) (uint32, error) {
	if err := chain.Validate(); err != nil {
		return 0, err
	}
	for range iterations {
		for _, step := range chain {
			next, err := Apply(step, item)
			if err != nil {
				return 0, err
			}
			item = next
		}
	}
	return item, nil
}
