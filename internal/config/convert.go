package config

import (
	"github.com/danmuck/chainctl/internal/submitter"
	"github.com/danmuck/chainctl/internal/worker"
)

func (c Config) SubmitterConfig() submitter.Config {
	return submitter.Config{
		Scheduler:   c.Scheduler,
		MaxOperands: c.MaxOperands,
		Discovery:   c.Discovery,
		Session:     c.Session,
	}
}

func (c Config) WorkerConfig() worker.Config {
	return worker.Config{
		ID:        c.Worker.ID,
		IdleDelay: c.Worker.IdleDelay,
		MaxCycles: c.Worker.MaxCycles,
		Scheduler: c.Scheduler,
		Discovery: c.Discovery,
		Session:   c.Session,
	}
}
