package submitter

import (
	"context"
	"time"

	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/grammar"
	"github.com/danmuck/chainctl/internal/protocol"
	"github.com/danmuck/chainctl/internal/session"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Scheduler is a static "host:port"; when empty the client broadcasts.
	Scheduler   string
	MaxOperands int
	Discovery   discovery.Config
	Session     session.Config
}

func DefaultConfig() Config {
	return Config{
		MaxOperands: grammar.DefaultMaxOperands,
		Discovery:   discovery.DefaultConfig(),
		Session:     session.DefaultConfig(),
	}
}

// Client runs one-shot submit, query and shutdown exchanges.
type Client struct {
	cfg      Config
	endpoint *discovery.Endpoint
}

func New(cfg Config) (*Client, error) {
	cfg.Discovery = cfg.Discovery.WithDefaults()
	cfg.Session = cfg.Session.WithDefaults()
	c := &Client{cfg: cfg}
	if cfg.Scheduler != "" {
		ep, err := discovery.ParseEndpoint(cfg.Scheduler)
		if err != nil {
			return nil, err
		}
		c.endpoint = &ep
	}
	return c, nil
}

// Submit validates req before any network I/O and returns the job id.
func (c *Client) Submit(ctx context.Context, req Request) (uint32, error) {
	job, err := BuildJob(req, c.cfg.MaxOperands)
	if err != nil {
		return 0, err
	}
	conn, err := c.dial(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	id, err := conn.SubmitJob(ctx, job)
	if err != nil {
		return 0, err
	}
	log.Info().
		Uint32("job_id", id).
		Int("items", len(job.Items)).
		Stringer("chain", job.Chain).
		Uint32("iterations", job.Iterations).
		Msg("job submitted")
	return id, nil
}

// Query fetches a job's results. timeout tells the scheduler how long an
// unfinished unit may sit before it is handed out again.
func (c *Client) Query(ctx context.Context, jobID uint32, timeout time.Duration) (protocol.QueryResult, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return protocol.QueryResult{}, err
	}
	defer conn.Close()
	return conn.QueryResults(ctx, jobID, timeout)
}

func (c *Client) Shutdown(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Str("scheduler", conn.Endpoint().Address()).Msg("shutdown sent")
	return nil
}

func (c *Client) dial(ctx context.Context) (*session.Conn, error) {
	if c.endpoint == nil {
		ep, err := discovery.Discover(ctx, c.cfg.Discovery)
		if err != nil {
			return nil, err
		}
		c.endpoint = &ep
	}
	return session.Dial(ctx, *c.endpoint, c.cfg.Session)
}
