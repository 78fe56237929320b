package protocol

import (
	"fmt"

	"github.com/danmuck/chainctl/internal/opchain"
)

// SubmitJob is the submitter->scheduler job payload.
type SubmitJob struct {
	Chain      opchain.Chain
	Iterations uint32
	Items      []uint32
}

// Words lays out numOps, chain pairs, iterations, numItems, items.
func (p SubmitJob) Words() []uint32 {
	words := make([]uint32, 0, 3+2*len(p.Chain)+len(p.Items))
	words = appendChain(words, p.Chain)
	words = append(words, p.Iterations, uint32(len(p.Items)))
	return append(words, p.Items...)
}

func (p SubmitJob) MarshalBinary() ([]byte, error) {
	if err := p.Chain.Validate(); err != nil {
		return nil, err
	}
	return EncodeWords(p.Words()), nil
}

// QueryWork is one item's unit of work, scheduler->worker.
type QueryWork struct {
	Item       uint32
	Chain      opchain.Chain
	Iterations uint32
}

func (p QueryWork) Words() []uint32 {
	words := make([]uint32, 0, 3+2*len(p.Chain))
	words = append(words, p.Item)
	words = appendChain(words, p.Chain)
	return append(words, p.Iterations)
}

func (p QueryWork) MarshalBinary() ([]byte, error) {
	if err := p.Chain.Validate(); err != nil {
		return nil, err
	}
	return EncodeWords(p.Words()), nil
}

// SubmitWork carries one computed answer, worker->scheduler.
type SubmitWork struct {
	Answer uint32
}

func (p SubmitWork) MarshalBinary() ([]byte, error) {
	return EncodeU32(p.Answer), nil
}

// QueryResultsRequest asks for a job's results. TimeoutMS is how long the
// scheduler may let an unfinished unit sit before re-queueing it.
type QueryResultsRequest struct {
	JobID     uint32
	TimeoutMS uint32
}

func (p QueryResultsRequest) MarshalBinary() ([]byte, error) {
	return AppendU32(nil, p.JobID, p.TimeoutMS), nil
}

// QueryResult is the scheduler's answer to a results query. Items and
// Answers are paired by position and only present when Status is StatusDone.
type QueryResult struct {
	Status  Status
	Items   []uint32
	Answers []uint32
}

// MarshalBinary interleaves items and answers after the count.
func (r QueryResult) MarshalBinary() ([]byte, error) {
	if !r.Status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, uint32(r.Status))
	}
	if r.Status != StatusDone {
		return EncodeU32(uint32(r.Status)), nil
	}
	if len(r.Items) != len(r.Answers) {
		return nil, fmt.Errorf("%w: %d items, %d answers", ErrInvalidLength, len(r.Items), len(r.Answers))
	}
	words := make([]uint32, 0, 2+2*len(r.Items))
	words = append(words, uint32(r.Status), uint32(len(r.Items)))
	for i := range r.Items {
		words = append(words, r.Items[i], r.Answers[i])
	}
	return EncodeWords(words), nil
}

func appendChain(words []uint32, chain opchain.Chain) []uint32 {
	words = append(words, uint32(len(chain)))
	for _, step := range chain {
		operand := step.Operand
		if step.Op.Unary() {
			operand = 0
		}
		words = append(words, uint32(step.Op), operand)
	}
	return words
}
