package protocol

import (
	"errors"
	"testing"

	"github.com/danmuck/chainctl/internal/opchain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSubmitJobRoundTrip(t *testing.T) {
	jobs := []SubmitJob{
		BuildSubmitJob(opchain.Chain{{Op: opchain.OpAdd, Operand: 3}, {Op: opchain.OpSub, Operand: 4}, {Op: opchain.OpXor, Operand: 6}}, 1, []uint32{1, 2, 3, 4}),
		BuildSubmitJob(opchain.Chain{{Op: opchain.OpNot}}, 1, []uint32{7}),
		BuildSubmitJob(opchain.Chain{{Op: opchain.OpShl, Operand: 31}}, 3, []uint32{0, 0xffffffff}),
		BuildSubmitJob(nil, 1, nil),
	}
	for _, job := range jobs {
		b, err := job.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		got, err := DecodeSubmitJob(b)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if diff := cmp.Diff(job, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestSubmitJobWordLayout(t *testing.T) {
	job := BuildSubmitJob(opchain.Chain{{Op: opchain.OpOr, Operand: 8}, {Op: opchain.OpNot, Operand: 99}}, 1, []uint32{6, 7})
	want := []uint32{2, 4, 8, 6, 0, 1, 2, 6, 7}
	if diff := cmp.Diff(want, job.Words()); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSubmitJobCopiesItems(t *testing.T) {
	items := []uint32{1, 2}
	job := BuildSubmitJob(nil, 1, items)
	items[0] = 99
	if job.Items[0] != 1 {
		t.Fatalf("builder aliases caller items")
	}
}

func TestDecodeSubmitJobErrors(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
		want  error
	}{
		{"empty", nil, ErrTruncated},
		{"short chain", []uint32{2, 0, 1}, ErrTruncated},
		{"missing items", []uint32{0, 1, 3, 5}, ErrTruncated},
		{"trailing", []uint32{0, 1, 1, 5, 6}, ErrTrailingData},
		{"bad opcode", []uint32{1, 9, 1, 1, 0}, opchain.ErrUnknownOpcode},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSubmitJob(EncodeWords(tc.words))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := DecodeSubmitJob([]byte{0, 0, 0}); !errors.Is(err, ErrFraming) {
		t.Fatalf("expected ErrFraming, got %v", err)
	}
}

func TestQueryWorkRoundTrip(t *testing.T) {
	in := QueryWork{
		Item:       6,
		Chain:      opchain.Chain{{Op: opchain.OpOr, Operand: 8}, {Op: opchain.OpShr, Operand: 4}},
		Iterations: 1,
	}
	b, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DecodeQueryWork(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeQueryWorkMalformedChain(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
	}{
		{"declared more steps than sent", []uint32{6, 3, 4, 8, 7, 4, 1}},
		{"declared fewer steps than sent", []uint32{6, 1, 4, 8, 7, 4, 1}},
		{"missing iterations", []uint32{6, 1, 4, 8}},
		{"missing step count", []uint32{6}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeQueryWork(EncodeWords(tc.words))
			if !errors.Is(err, ErrMalformedChain) {
				t.Fatalf("expected ErrMalformedChain, got %v", err)
			}
		})
	}
}

func TestDecodeQueryResult(t *testing.T) {
	got, err := DecodeQueryResult(EncodeWords([]uint32{0, 2, 5, 50, 6, 60}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := QueryResult{Status: StatusDone, Items: []uint32{5, 6}, Answers: []uint32{50, 60}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeQueryResultNonDoneStopsAtStatus(t *testing.T) {
	for _, status := range []Status{StatusNotFound, StatusInProgress} {
		got, err := DecodeQueryResult(EncodeU32(uint32(status)))
		if err != nil {
			t.Fatalf("status %s: %v", status, err)
		}
		if got.Status != status || len(got.Items) != 0 || len(got.Answers) != 0 {
			t.Fatalf("unexpected result: %+v", got)
		}
		if _, err := DecodeQueryResult(EncodeWords([]uint32{uint32(status), 1})); !errors.Is(err, ErrTrailingData) {
			t.Fatalf("status %s: expected ErrTrailingData, got %v", status, err)
		}
	}
}

func TestDecodeQueryResultErrors(t *testing.T) {
	tests := []struct {
		name  string
		words []uint32
		want  error
	}{
		{"empty", nil, ErrTruncated},
		{"unknown status", []uint32{3}, ErrUnknownStatus},
		{"missing count", []uint32{0}, ErrTruncated},
		{"short pairs", []uint32{0, 2, 5, 50, 6}, ErrTruncated},
		{"extra pairs", []uint32{0, 1, 5, 50, 6, 60}, ErrTrailingData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeQueryResult(EncodeWords(tc.words))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQueryResultMarshalInterleaves(t *testing.T) {
	r := QueryResult{Status: StatusDone, Items: []uint32{5, 6}, Answers: []uint32{50, 60}}
	b, err := r.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	words, err := DecodeU32s(b)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if diff := cmp.Diff([]uint32{0, 2, 5, 50, 6, 60}, words); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
	r.Answers = r.Answers[:1]
	if _, err := r.MarshalBinary(); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestSmallPayloads(t *testing.T) {
	b, _ := SubmitWork{Answer: 0xdeadbeef}.MarshalBinary()
	w, err := DecodeSubmitWork(b)
	if err != nil || w.Answer != 0xdeadbeef {
		t.Fatalf("submit work: %+v %v", w, err)
	}
	b, _ = QueryResultsRequest{JobID: 7, TimeoutMS: 1500}.MarshalBinary()
	q, err := DecodeQueryResultsRequest(b)
	if err != nil || q.JobID != 7 || q.TimeoutMS != 1500 {
		t.Fatalf("query request: %+v %v", q, err)
	}
	id, err := DecodeJobID(EncodeU32(12))
	if err != nil || id != 12 {
		t.Fatalf("job id: %d %v", id, err)
	}
	if _, err := DecodeJobID(EncodeWords([]uint32{1, 2})); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}
