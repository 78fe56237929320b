package protocol

import (
	"encoding/binary"
	"fmt"
)

// WordSize is the width of every wire field.
const WordSize = 4

// EncodeU32 returns v in network byte order.
func EncodeU32(v uint32) []byte {
	buf := make([]byte, WordSize)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// AppendU32 appends each value in network byte order.
func AppendU32(dst []byte, vs ...uint32) []byte {
	for _, v := range vs {
		dst = binary.BigEndian.AppendUint32(dst, v)
	}
	return dst
}

// EncodeWords concatenates the encoding of every word.
func EncodeWords(words []uint32) []byte {
	return AppendU32(make([]byte, 0, len(words)*WordSize), words...)
}

// DecodeU32s splits b into words. It never decodes a partial word.
func DecodeU32s(b []byte) ([]uint32, error) {
	if len(b)%WordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrFraming, len(b))
	}
	words := make([]uint32, len(b)/WordSize)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(b[i*WordSize:])
	}
	return words, nil
}

// wordReader consumes decoded words left to right.
type wordReader struct {
	words []uint32
	pos   int
}

func (r *wordReader) remaining() int {
	return len(r.words) - r.pos
}

func (r *wordReader) next() (uint32, bool) {
	if r.pos >= len(r.words) {
		return 0, false
	}
	v := r.words[r.pos]
	r.pos++
	return v, true
}

// take returns the next n words, or false when fewer remain.
func (r *wordReader) take(n uint64) ([]uint32, bool) {
	if n > uint64(r.remaining()) {
		return nil, false
	}
	out := make([]uint32, n)
	copy(out, r.words[r.pos:])
	r.pos += int(n)
	return out, true
}
