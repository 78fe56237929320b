package protocol

import "github.com/danmuck/chainctl/internal/opchain"

// BuildSubmitJob assembles the submit-job payload. Counts are derived from
// the sequences, so they always match.
func BuildSubmitJob(chain opchain.Chain, iterations uint32, items []uint32) SubmitJob {
	return SubmitJob{
		Chain:      chain.Normalize(),
		Iterations: iterations,
		Items:      append([]uint32(nil), items...),
	}
}
