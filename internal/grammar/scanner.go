package grammar

import (
	"strconv"
	"strings"
)

// scanner walks a single comma-free token.
type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) accept(lit string) bool {
	if strings.HasPrefix(s.src[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

func (s *scanner) digits() (string, bool) {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	return s.src[start:s.pos], s.pos > start
}

// number is an optionally sign-prefixed decimal literal as written.
type number struct {
	negative bool
	digits   string
}

func (s *scanner) signedNumber() (number, bool) {
	start := s.pos
	neg := s.accept("-")
	d, ok := s.digits()
	if !ok {
		s.pos = start
		return number{}, false
	}
	return number{negative: neg, digits: d}, true
}

// value range-checks n into the unsigned 32-bit operand domain. The sign
// prefix is accepted by the lexer but only "-0" survives this check.
func (n number) value() (uint32, error) {
	v, err := strconv.ParseUint(n.digits, 10, 32)
	if err != nil {
		return 0, ErrOperandOutOfRange
	}
	if n.negative && v != 0 {
		return 0, ErrOperandOutOfRange
	}
	return uint32(v), nil
}

// splitTokens splits on commas only; whitespace is not part of either
// grammar and fails the token it appears in.
func splitTokens(src string) []string {
	return strings.Split(src, ",")
}
