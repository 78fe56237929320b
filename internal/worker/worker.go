package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/observability"
	"github.com/danmuck/chainctl/internal/opchain"
	"github.com/danmuck/chainctl/internal/protocol"
	"github.com/danmuck/chainctl/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Worker struct {
	cfg    Config
	logger zerolog.Logger
}

func New(cfg Config) (*Worker, error) {
	cfg = cfg.WithDefaults()
	if strings.TrimSpace(cfg.ID) == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Scheduler != "" {
		if _, err := discovery.ParseEndpoint(cfg.Scheduler); err != nil {
			return nil, err
		}
	}
	return &Worker{
		cfg:    cfg,
		logger: log.With().Str("worker", cfg.ID).Logger(),
	}, nil
}

func (w *Worker) ID() string {
	return w.cfg.ID
}

// Run resolves the scheduler once and loops until the scheduler closes a
// work request (nil), MaxCycles is reached (nil), ctx ends (ctx.Err()), or a
// cycle fails. Socket faults are returned as *session.TransportError.
func (w *Worker) Run(ctx context.Context) error {
	defer observability.WorkerStarted()()

	ep, err := w.resolve(ctx)
	if err != nil {
		return err
	}
	w.logger.Info().Str("scheduler", ep.Address()).Msg("worker started")

	for done := 0; w.cfg.MaxCycles <= 0 || done < w.cfg.MaxCycles; done++ {
		more, err := w.cycle(ctx, ep)
		if err != nil {
			observability.RecordWorkerCycle(w.cfg.ID, observability.OutcomeError)
			w.logger.Warn().Err(err).Int("completed", done).Msg("worker stopped on error")
			return err
		}
		if !more {
			observability.RecordWorkerCycle(w.cfg.ID, observability.OutcomeClosed)
			w.logger.Info().Int("completed", done).Msg("scheduler has no more work")
			return nil
		}
		observability.RecordWorkerCycle(w.cfg.ID, observability.OutcomeSubmitted)
		if err := w.idle(ctx); err != nil {
			return err
		}
	}
	w.logger.Info().Int("completed", w.cfg.MaxCycles).Msg("cycle limit reached")
	return nil
}

func (w *Worker) resolve(ctx context.Context) (discovery.Endpoint, error) {
	if w.cfg.Scheduler != "" {
		return discovery.ParseEndpoint(w.cfg.Scheduler)
	}
	return discovery.Discover(ctx, w.cfg.Discovery)
}

// cycle handles one unit on a fresh connection. It reports false when the
// scheduler closed instead of sending work.
func (w *Worker) cycle(ctx context.Context, ep discovery.Endpoint) (bool, error) {
	conn, err := session.Dial(ctx, ep, w.cfg.Session)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	unit, err := conn.QueryWork(ctx)
	if errors.Is(err, session.ErrSchedulerClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	answer, err := w.compute(unit)
	if err != nil {
		return false, err
	}
	if err := conn.SubmitWork(ctx, answer); err != nil {
		return false, err
	}
	w.logger.Debug().
		Uint32("item", unit.Item).
		Stringer("chain", unit.Chain).
		Uint32("iterations", unit.Iterations).
		Uint32("answer", answer).
		Msg("work submitted")
	return true, nil
}

func (w *Worker) compute(unit protocol.QueryWork) (uint32, error) {
	start := time.Now()
	answer, err := opchain.Fold(unit.Item, unit.Chain, unit.Iterations)
	if err != nil {
		return 0, err
	}
	steps := uint64(len(unit.Chain)) * uint64(unit.Iterations)
	observability.RecordWorkerCompute(w.cfg.ID, steps, time.Since(start))
	return answer, nil
}

func (w *Worker) idle(ctx context.Context) error {
	if w.cfg.IdleDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(w.cfg.IdleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
