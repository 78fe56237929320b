// Package fakesched is an in-process scheduler emulator for tests. It speaks
// the scheduler side of the wire protocol over real localhost sockets.
package fakesched

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Scheduler queues work units, records answers and submitted jobs, and
// serves canned query results.
type Scheduler struct {
	ln        net.Listener
	helloLen  int
	resultsOp protocol.Operation

	mu       sync.Mutex
	queue    []protocol.QueryWork
	answers  []uint32
	jobs     []protocol.SubmitJob
	results  map[uint32]protocol.QueryResult
	queries  []protocol.QueryResultsRequest
	shutdown bool

	wg sync.WaitGroup
}

type Option func(*Scheduler)

// WithHello makes the emulator consume an n-byte hello after each accept.
func WithHello(n int) Option {
	return func(s *Scheduler) { s.helloLen = n }
}

// WithResultsOp overrides the operation code served as a results query.
func WithResultsOp(op protocol.Operation) Option {
	return func(s *Scheduler) { s.resultsOp = op }
}

// Start listens on an ephemeral localhost port. It is closed on test cleanup.
func Start(t *testing.T, opts ...Option) *Scheduler {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("fakesched listen: %v", err)
	}
	s := &Scheduler{
		ln:        ln,
		resultsOp: protocol.OpQueryResults,
		results:   make(map[uint32]protocol.QueryResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.acceptLoop()
	t.Cleanup(s.Close)
	return s
}

func (s *Scheduler) Endpoint() discovery.Endpoint {
	addr := s.ln.Addr().(*net.TCPAddr)
	return discovery.Endpoint{Host: addr.IP.String(), Port: uint16(addr.Port)}
}

// Close stops accepting and waits for every connection handler to finish.
func (s *Scheduler) Close() {
	_ = s.ln.Close()
	s.wg.Wait()
}

func (s *Scheduler) Enqueue(units ...protocol.QueryWork) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, units...)
}

func (s *Scheduler) SetResult(jobID uint32, r protocol.QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[jobID] = r
}

func (s *Scheduler) Answers() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.answers...)
}

func (s *Scheduler) Jobs() []protocol.SubmitJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.SubmitJob(nil), s.jobs...)
}

func (s *Scheduler) Queries() []protocol.QueryResultsRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]protocol.QueryResultsRequest(nil), s.queries...)
}

func (s *Scheduler) ShutdownRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

func (s *Scheduler) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conn.Close()
			if err := s.serve(conn); err != nil {
				log.Debug().Err(err).Msg("fakesched connection ended")
			}
		}()
	}
}

func (s *Scheduler) serve(conn net.Conn) error {
	if s.helloLen > 0 {
		hello := make([]byte, s.helloLen)
		if _, err := io.ReadFull(conn, hello); err != nil {
			return err
		}
	}
	limits := protocol.DefaultLimits()
	for {
		h, err := protocol.ReadHeader(conn, s.resultsOp)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch h.Operation {
		case protocol.OpSubmitJob:
			job, err := protocol.ReadSubmitJob(conn, limits)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.jobs = append(s.jobs, job)
			id := uint32(len(s.jobs) - 1)
			s.mu.Unlock()
			if _, err := conn.Write(protocol.EncodeU32(id)); err != nil {
				return err
			}
		case protocol.OpQueryWork:
			unit, ok := s.dequeue()
			if !ok {
				// zero-length read on the worker side
				return nil
			}
			b, err := unit.MarshalBinary()
			if err != nil {
				return err
			}
			if _, err := conn.Write(b); err != nil {
				return err
			}
		case protocol.OpSubmitWork:
			work, err := protocol.ReadSubmitWork(conn)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.answers = append(s.answers, work.Answer)
			s.mu.Unlock()
		case protocol.OpShutdown:
			s.mu.Lock()
			s.shutdown = true
			s.mu.Unlock()
			return nil
		case s.resultsOp:
			req, err := protocol.ReadQueryResultsRequest(conn)
			if err != nil {
				return err
			}
			s.mu.Lock()
			s.queries = append(s.queries, req)
			r, ok := s.results[req.JobID]
			s.mu.Unlock()
			if !ok {
				r = protocol.QueryResult{Status: protocol.StatusNotFound}
			}
			b, err := r.MarshalBinary()
			if err != nil {
				return err
			}
			if _, err := conn.Write(b); err != nil {
				return err
			}
		default:
			return errors.New("fakesched: unexpected operation " + h.Operation.String())
		}
	}
}

func (s *Scheduler) dequeue() (protocol.QueryWork, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return protocol.QueryWork{}, false
	}
	unit := s.queue[0]
	s.queue = s.queue[1:]
	return unit, true
}

// StartResponder answers discovery datagrams on an ephemeral localhost UDP
// port with the given TCP port, and returns the address to broadcast to.
func StartResponder(t *testing.T, port uint16) string {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("fakesched responder listen: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 1024)
		reply := binary.BigEndian.AppendUint16(nil, port)
		for {
			_, addr, err := pc.ReadFrom(buf)
			if err != nil {
				return
			}
			_, _ = pc.WriteTo(reply, addr)
		}
	}()
	t.Cleanup(func() {
		_ = pc.Close()
		<-done
	})
	return pc.LocalAddr().String()
}
