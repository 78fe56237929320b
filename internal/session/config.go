package session

import (
	"time"

	"github.com/danmuck/chainctl/internal/protocol"
)

// Config defines per-connection transport defaults.
type Config struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// Hello is written verbatim right after connecting when non-empty.
	Hello string
	// QueryResultsOp is the operation code sent for result queries.
	QueryResultsOp protocol.Operation
	Limits         protocol.Limits
}

func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		QueryResultsOp: protocol.OpQueryResults,
		Limits:         protocol.DefaultLimits(),
	}
}

// WithDefaults fills zero-valued timeouts and limits. QueryResultsOp is kept
// as given; zero is a valid operation code on the wire, so callers build from
// DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.Limits.MaxChainSteps == 0 {
		c.Limits.MaxChainSteps = def.Limits.MaxChainSteps
	}
	if c.Limits.MaxItems == 0 {
		c.Limits.MaxItems = def.Limits.MaxItems
	}
	return c
}
