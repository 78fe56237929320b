package protocol

import (
	"fmt"

	"github.com/danmuck/chainctl/internal/opchain"
)

// DecodeSubmitJob parses a submit-job payload.
func DecodeSubmitJob(b []byte) (SubmitJob, error) {
	r, err := newWordReader(b)
	if err != nil {
		return SubmitJob{}, err
	}
	chain, err := readChain(r, ErrTruncated)
	if err != nil {
		return SubmitJob{}, err
	}
	iterations, ok := r.next()
	if !ok {
		return SubmitJob{}, fmt.Errorf("%w: missing iterations", ErrTruncated)
	}
	numItems, ok := r.next()
	if !ok {
		return SubmitJob{}, fmt.Errorf("%w: missing item count", ErrTruncated)
	}
	items, ok := r.take(uint64(numItems))
	if !ok {
		return SubmitJob{}, fmt.Errorf("%w: want %d items, have %d words", ErrTruncated, numItems, r.remaining())
	}
	if r.remaining() != 0 {
		return SubmitJob{}, fmt.Errorf("%w: %d words", ErrTrailingData, r.remaining())
	}
	return SubmitJob{Chain: chain, Iterations: iterations, Items: items}, nil
}

// DecodeQueryWork parses a work unit. Any mismatch between the declared step
// count and the words that follow is ErrMalformedChain.
func DecodeQueryWork(b []byte) (QueryWork, error) {
	r, err := newWordReader(b)
	if err != nil {
		return QueryWork{}, err
	}
	item, ok := r.next()
	if !ok {
		return QueryWork{}, fmt.Errorf("%w: missing item", ErrTruncated)
	}
	chain, err := readChain(r, ErrMalformedChain)
	if err != nil {
		return QueryWork{}, err
	}
	iterations, ok := r.next()
	if !ok {
		return QueryWork{}, fmt.Errorf("%w: missing iterations", ErrMalformedChain)
	}
	if r.remaining() != 0 {
		return QueryWork{}, fmt.Errorf("%w: %d extra words", ErrMalformedChain, r.remaining())
	}
	return QueryWork{Item: item, Chain: chain, Iterations: iterations}, nil
}

// DecodeSubmitWork parses a single answer word.
func DecodeSubmitWork(b []byte) (SubmitWork, error) {
	v, err := decodeSingle(b)
	if err != nil {
		return SubmitWork{}, err
	}
	return SubmitWork{Answer: v}, nil
}

// DecodeJobID parses the scheduler's reply to a submit-job message.
func DecodeJobID(b []byte) (uint32, error) {
	return decodeSingle(b)
}

func DecodeQueryResultsRequest(b []byte) (QueryResultsRequest, error) {
	words, err := DecodeU32s(b)
	if err != nil {
		return QueryResultsRequest{}, err
	}
	if len(words) != 2 {
		return QueryResultsRequest{}, fmt.Errorf("%w: want 2 words, have %d", ErrInvalidLength, len(words))
	}
	return QueryResultsRequest{JobID: words[0], TimeoutMS: words[1]}, nil
}

// DecodeQueryResult reads the status and, for StatusDone only, the count
// followed by interleaved (item, answer) pairs.
func DecodeQueryResult(b []byte) (QueryResult, error) {
	r, err := newWordReader(b)
	if err != nil {
		return QueryResult{}, err
	}
	raw, ok := r.next()
	if !ok {
		return QueryResult{}, fmt.Errorf("%w: missing status", ErrTruncated)
	}
	status := Status(raw)
	if !status.Valid() {
		return QueryResult{}, fmt.Errorf("%w: %d", ErrUnknownStatus, raw)
	}
	if status != StatusDone {
		if r.remaining() != 0 {
			return QueryResult{}, fmt.Errorf("%w: %d words after status %s", ErrTrailingData, r.remaining(), status)
		}
		return QueryResult{Status: status}, nil
	}

	numItems, ok := r.next()
	if !ok {
		return QueryResult{}, fmt.Errorf("%w: missing item count", ErrTruncated)
	}
	pairs, ok := r.take(2 * uint64(numItems))
	if !ok {
		return QueryResult{}, fmt.Errorf("%w: want %d pairs, have %d words", ErrTruncated, numItems, r.remaining())
	}
	if r.remaining() != 0 {
		return QueryResult{}, fmt.Errorf("%w: %d words", ErrTrailingData, r.remaining())
	}
	result := QueryResult{
		Status:  status,
		Items:   make([]uint32, numItems),
		Answers: make([]uint32, numItems),
	}
	for i := range result.Items {
		result.Items[i] = pairs[2*i]
		result.Answers[i] = pairs[2*i+1]
	}
	return result, nil
}

func newWordReader(b []byte) (*wordReader, error) {
	words, err := DecodeU32s(b)
	if err != nil {
		return nil, err
	}
	return &wordReader{words: words}, nil
}

func decodeSingle(b []byte) (uint32, error) {
	words, err := DecodeU32s(b)
	if err != nil {
		return 0, err
	}
	if len(words) != 1 {
		return 0, fmt.Errorf("%w: want 1 word, have %d", ErrInvalidLength, len(words))
	}
	return words[0], nil
}

// readChain reads numOps then numOps (opcode, operand) pairs. short is the
// error reported when the pairs run out.
func readChain(r *wordReader, short error) (opchain.Chain, error) {
	numOps, ok := r.next()
	if !ok {
		return nil, fmt.Errorf("%w: missing step count", short)
	}
	pairs, ok := r.take(2 * uint64(numOps))
	if !ok {
		return nil, fmt.Errorf("%w: want %d steps, have %d words", short, numOps, r.remaining())
	}
	chain := make(opchain.Chain, numOps)
	for i := range chain {
		chain[i] = opchain.Step{Op: opchain.Opcode(pairs[2*i]), Operand: pairs[2*i+1]}
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}
	return chain, nil
}
