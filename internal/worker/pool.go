package worker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunPool runs n independent workers and waits for all of them. Workers do
// not share sockets or cancel each other; the first non-nil error is
// returned. A configured ID becomes a prefix with the worker index appended.
func RunPool(ctx context.Context, cfg Config, n int) error {
	if n < 1 {
		return fmt.Errorf("worker: pool size %d must be positive", n)
	}
	workers := make([]*Worker, 0, n)
	for i := range n {
		wc := cfg
		if cfg.ID != "" && n > 1 {
			wc.ID = fmt.Sprintf("%s-%d", cfg.ID, i)
		}
		w, err := New(wc)
		if err != nil {
			return err
		}
		workers = append(workers, w)
	}

	var g errgroup.Group
	for _, w := range workers {
		g.Go(func() error {
			return w.Run(ctx)
		})
	}
	return g.Wait()
}
