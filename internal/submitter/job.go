package submitter

import (
	"errors"
	"strings"

	"github.com/danmuck/chainctl/internal/grammar"
	"github.com/danmuck/chainctl/internal/protocol"
)

var (
	ErrNoItems           = errors.New("submitter: operand list expands to no items")
	ErrEmptyChain        = errors.New("submitter: op chain is empty")
	ErrInvalidIterations = errors.New("submitter: iterations must be at least 1")
)

// Request is one job as the user typed it.
type Request struct {
	Operands   string
	Chain      string
	Iterations uint32
}

// BuildJob validates req with both grammars and builds the wire payload.
// Nothing is sent; a failure here means the job never reaches the network.
func BuildJob(req Request, maxOperands int) (protocol.SubmitJob, error) {
	if req.Iterations < 1 {
		return protocol.SubmitJob{}, ErrInvalidIterations
	}
	if strings.TrimSpace(req.Chain) == "" {
		return protocol.SubmitJob{}, ErrEmptyChain
	}
	items, err := grammar.ParseOperandsLimit(req.Operands, maxOperands)
	if err != nil {
		return protocol.SubmitJob{}, err
	}
	if len(items) == 0 {
		return protocol.SubmitJob{}, ErrNoItems
	}
	chain, err := grammar.ParseOpChain(req.Chain)
	if err != nil {
		return protocol.SubmitJob{}, err
	}
	return protocol.BuildSubmitJob(chain, req.Iterations, items), nil
}
