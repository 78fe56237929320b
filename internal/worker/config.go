package worker

import (
	"time"

	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/session"
)

const DefaultIdleDelay = time.Second

type Config struct {
	// ID labels logs and metrics; a random UUID is used when empty.
	ID        string
	IdleDelay time.Duration
	// MaxCycles stops the loop after that many completed units; zero runs
	// until the scheduler closes.
	MaxCycles int
	// Scheduler is a static "host:port"; when empty the worker broadcasts.
	Scheduler string
	Discovery discovery.Config
	Session   session.Config
}

func DefaultConfig() Config {
	return Config{
		IdleDelay: DefaultIdleDelay,
		Discovery: discovery.DefaultConfig(),
		Session:   session.DefaultConfig(),
	}
}

// WithDefaults fills a negative idle delay and the nested defaults. A zero
// idle delay is kept.
func (c Config) WithDefaults() Config {
	if c.IdleDelay < 0 {
		c.IdleDelay = DefaultIdleDelay
	}
	c.Discovery = c.Discovery.WithDefaults()
	c.Session = c.Session.WithDefaults()
	return c
}
