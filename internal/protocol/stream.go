package protocol

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WriteMessage writes header and payload in a single Write.
func WriteMessage(w io.Writer, op Operation, payload encoding.BinaryMarshaler) error {
	buf, err := NewHeader(op).MarshalBinary()
	if err != nil {
		return err
	}
	if payload != nil {
		body, err := payload.MarshalBinary()
		if err != nil {
			return err
		}
		buf = append(buf, body...)
	}
	_, err = w.Write(buf)
	return err
}

// ReadHeader reads one header. A clean end of stream is returned as io.EOF.
// extra is passed to DecodeHeader.
func ReadHeader(r io.Reader, extra ...Operation) (Header, error) {
	buf := make([]byte, HeaderSize)
	if err := readFirst(r, buf); err != nil {
		return Header{}, err
	}
	return DecodeHeader(buf, extra...)
}

// ReadQueryWork reads one work unit. A clean end of stream before the first
// byte is returned as io.EOF: the scheduler's shutdown signal.
func ReadQueryWork(r io.Reader, limits Limits) (QueryWork, error) {
	head := make([]byte, 2*WordSize)
	if err := readFirst(r, head); err != nil {
		return QueryWork{}, err
	}
	numOps := binary.BigEndian.Uint32(head[WordSize:])
	if limits.MaxChainSteps > 0 && numOps > limits.MaxChainSteps {
		return QueryWork{}, fmt.Errorf("%w: %d steps", ErrPayloadTooLarge, numOps)
	}
	rest := make([]byte, (2*uint64(numOps)+1)*WordSize)
	if err := readRest(r, rest, ErrMalformedChain); err != nil {
		return QueryWork{}, err
	}
	return DecodeQueryWork(append(head, rest...))
}

// ReadSubmitJob reads one submit-job payload.
func ReadSubmitJob(r io.Reader, limits Limits) (SubmitJob, error) {
	countBuf := make([]byte, WordSize)
	if err := readRest(r, countBuf, ErrTruncated); err != nil {
		return SubmitJob{}, err
	}
	numOps := binary.BigEndian.Uint32(countBuf)
	if limits.MaxChainSteps > 0 && numOps > limits.MaxChainSteps {
		return SubmitJob{}, fmt.Errorf("%w: %d steps", ErrPayloadTooLarge, numOps)
	}
	// chain pairs, iterations, item count
	mid := make([]byte, (2*uint64(numOps)+2)*WordSize)
	if err := readRest(r, mid, ErrTruncated); err != nil {
		return SubmitJob{}, err
	}
	numItems := binary.BigEndian.Uint32(mid[len(mid)-WordSize:])
	if limits.MaxItems > 0 && numItems > limits.MaxItems {
		return SubmitJob{}, fmt.Errorf("%w: %d items", ErrPayloadTooLarge, numItems)
	}
	items := make([]byte, uint64(numItems)*WordSize)
	if err := readRest(r, items, ErrTruncated); err != nil {
		return SubmitJob{}, err
	}
	buf := append(append(countBuf, mid...), items...)
	return DecodeSubmitJob(buf)
}

// ReadQueryResult reads a results reply, consuming only the words its status
// and count call for.
func ReadQueryResult(r io.Reader, limits Limits) (QueryResult, error) {
	statusBuf := make([]byte, WordSize)
	if err := readRest(r, statusBuf, ErrTruncated); err != nil {
		return QueryResult{}, err
	}
	if Status(binary.BigEndian.Uint32(statusBuf)) != StatusDone {
		return DecodeQueryResult(statusBuf)
	}
	countBuf := make([]byte, WordSize)
	if err := readRest(r, countBuf, ErrTruncated); err != nil {
		return QueryResult{}, err
	}
	numItems := binary.BigEndian.Uint32(countBuf)
	if limits.MaxItems > 0 && numItems > limits.MaxItems {
		return QueryResult{}, fmt.Errorf("%w: %d items", ErrPayloadTooLarge, numItems)
	}
	pairs := make([]byte, 2*uint64(numItems)*WordSize)
	if err := readRest(r, pairs, ErrTruncated); err != nil {
		return QueryResult{}, err
	}
	buf := append(append(statusBuf, countBuf...), pairs...)
	return DecodeQueryResult(buf)
}

func ReadQueryResultsRequest(r io.Reader) (QueryResultsRequest, error) {
	buf := make([]byte, 2*WordSize)
	if err := readRest(r, buf, ErrTruncated); err != nil {
		return QueryResultsRequest{}, err
	}
	return DecodeQueryResultsRequest(buf)
}

func ReadSubmitWork(r io.Reader) (SubmitWork, error) {
	buf := make([]byte, WordSize)
	if err := readRest(r, buf, ErrTruncated); err != nil {
		return SubmitWork{}, err
	}
	return DecodeSubmitWork(buf)
}

func ReadJobID(r io.Reader) (uint32, error) {
	buf := make([]byte, WordSize)
	if err := readRest(r, buf, ErrTruncated); err != nil {
		return 0, err
	}
	return DecodeJobID(buf)
}

// readFirst fills buf, passing a clean io.EOF through untouched.
func readFirst(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	default:
		return err
	}
}

// readRest fills buf; running out of stream is reported as short.
func readRest(r io.Reader, buf []byte, short error) error {
	if len(buf) == 0 {
		return nil
	}
	_, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", short, err)
	}
	return err
}
