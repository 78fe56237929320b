package session

import (
	"context"
	"encoding"
	"errors"
	"io"
	"math"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/opchain"
	"github.com/danmuck/chainctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Conn is one scheduler connection. It is not safe for concurrent use; each
// actor owns its own Conn.
type Conn struct {
	cfg      Config
	endpoint discovery.Endpoint
	conn     net.Conn

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to ep and writes the configured hello, if any.
func Dial(ctx context.Context, ep discovery.Endpoint, cfg Config) (*Conn, error) {
	cfg = cfg.WithDefaults()
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	raw, err := dialer.DialContext(ctx, "tcp", ep.Address())
	if err != nil {
		return nil, transportError("dial", err)
	}
	c := &Conn{cfg: cfg, endpoint: ep, conn: raw}
	if cfg.Hello != "" {
		err := c.write(ctx, "hello", func(w io.Writer) error {
			_, err := io.WriteString(w, cfg.Hello)
			return err
		})
		if err != nil {
			_ = raw.Close()
			return nil, err
		}
	}
	log.Debug().Str("scheduler", ep.Address()).Msg("session connected")
	return c, nil
}

func (c *Conn) Endpoint() discovery.Endpoint {
	return c.endpoint
}

// SubmitJob sends a job and returns the scheduler-assigned job id.
func (c *Conn) SubmitJob(ctx context.Context, job protocol.SubmitJob) (uint32, error) {
	if err := c.send(ctx, protocol.OpSubmitJob, job); err != nil {
		return 0, err
	}
	var id uint32
	err := c.read(ctx, "read job id", func(r io.Reader) error {
		var err error
		id, err = protocol.ReadJobID(r)
		return err
	})
	return id, err
}

// QueryWork asks for one work unit. A clean close before any payload byte
// returns ErrSchedulerClosed.
func (c *Conn) QueryWork(ctx context.Context) (protocol.QueryWork, error) {
	if err := c.send(ctx, protocol.OpQueryWork, nil); err != nil {
		return protocol.QueryWork{}, err
	}
	var unit protocol.QueryWork
	err := c.read(ctx, "read work", func(r io.Reader) error {
		var err error
		unit, err = protocol.ReadQueryWork(r, c.cfg.Limits)
		return err
	})
	if errors.Is(err, io.EOF) {
		return protocol.QueryWork{}, ErrSchedulerClosed
	}
	return unit, err
}

func (c *Conn) SubmitWork(ctx context.Context, answer uint32) error {
	return c.send(ctx, protocol.OpSubmitWork, protocol.SubmitWork{Answer: answer})
}

// QueryResults asks for a job's results. timeout is forwarded to the
// scheduler in milliseconds, saturating at the u32 maximum.
func (c *Conn) QueryResults(ctx context.Context, jobID uint32, timeout time.Duration) (protocol.QueryResult, error) {
	req := protocol.QueryResultsRequest{JobID: jobID, TimeoutMS: millis(timeout)}
	if err := c.send(ctx, c.cfg.QueryResultsOp, req); err != nil {
		return protocol.QueryResult{}, err
	}
	var res protocol.QueryResult
	err := c.read(ctx, "read results", func(r io.Reader) error {
		var err error
		res, err = protocol.ReadQueryResult(r, c.cfg.Limits)
		return err
	})
	return res, err
}

// Shutdown sends the header-only shutdown message.
func (c *Conn) Shutdown(ctx context.Context) error {
	return c.send(ctx, protocol.OpShutdown, nil)
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) send(ctx context.Context, op protocol.Operation, payload encoding.BinaryMarshaler) error {
	return c.write(ctx, "write "+op.String(), func(w io.Writer) error {
		return protocol.WriteMessage(w, op, payload)
	})
}

func (c *Conn) write(ctx context.Context, op string, fn func(io.Writer) error) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout)); err != nil {
		return transportError(op, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetWriteDeadline(time.Now())
	})
	err := fn(c.conn)
	stop()
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case isProtocolError(err):
		return err
	default:
		return transportError(op, err)
	}
}

func (c *Conn) read(ctx context.Context, op string, fn func(io.Reader) error) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
		return transportError(op, err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	err := fn(c.conn)
	stop()
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, io.EOF), isProtocolError(err):
		return err
	default:
		return transportError(op, err)
	}
}

var protocolErrors = []error{
	protocol.ErrFraming,
	protocol.ErrTruncated,
	protocol.ErrTrailingData,
	protocol.ErrMalformedChain,
	protocol.ErrUnsupportedVersion,
	protocol.ErrUnknownOperation,
	protocol.ErrUnknownStatus,
	protocol.ErrPayloadTooLarge,
	protocol.ErrInvalidLength,
	opchain.ErrUnknownOpcode,
}

func isProtocolError(err error) bool {
	for _, target := range protocolErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func millis(d time.Duration) uint32 {
	ms := d.Milliseconds()
	switch {
	case ms <= 0:
		return 0
	case ms > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(ms)
	}
}
