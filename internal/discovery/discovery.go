// Package discovery finds the scheduler with a single UDP broadcast.
//
// The caller sends one empty datagram to the broadcast address; the scheduler
// answers with its working TCP port as two big-endian bytes. The replier's IP
// and that port form the Endpoint threaded through the rest of the program.
package discovery

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/ipv4"
)

const (
	DefaultBroadcastAddr = "127.255.255.255:31337"
	DefaultTimeout       = 5 * time.Second

	replyLen  = 2
	maxBuffer = 1024
)

var (
	ErrDiscoveryTimeout = errors.New("discovery: no reply from scheduler")
	ErrInvalidReply     = errors.New("discovery: invalid reply")
	ErrInvalidEndpoint  = errors.New("discovery: invalid endpoint")
)

// Config controls one discovery round.
type Config struct {
	BroadcastAddr string
	Timeout       time.Duration
	// TTL for the outgoing datagram; zero keeps the system default.
	TTL int
}

func DefaultConfig() Config {
	return Config{
		BroadcastAddr: DefaultBroadcastAddr,
		Timeout:       DefaultTimeout,
	}
}

func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.BroadcastAddr) == "" {
		c.BroadcastAddr = DefaultBroadcastAddr
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Endpoint is the scheduler's working address.
type Endpoint struct {
	Host string
	Port uint16
}

func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

func (e Endpoint) String() string {
	return e.Address()
}

// ParseEndpoint parses a static "host:port" scheduler address.
func ParseEndpoint(addr string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return Endpoint{}, fmt.Errorf("%w: port %q", ErrInvalidEndpoint, portStr)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return Endpoint{Host: host, Port: uint16(port)}, nil
}

// Discover broadcasts once and waits for the scheduler's port reply. There is
// no retry: a send failure or timeout is returned to the caller.
func Discover(ctx context.Context, cfg Config) (Endpoint, error) {
	cfg = cfg.WithDefaults()

	raddr, err := net.ResolveUDPAddr("udp4", cfg.BroadcastAddr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("discovery: resolve %q: %w", cfg.BroadcastAddr, err)
	}

	lc := net.ListenConfig{Control: controlBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return Endpoint{}, fmt.Errorf("discovery: listen: %w", err)
	}
	defer pc.Close()

	if cfg.TTL > 0 {
		if err := ipv4.NewPacketConn(pc).SetTTL(cfg.TTL); err != nil {
			return Endpoint{}, fmt.Errorf("discovery: set ttl: %w", err)
		}
	}

	deadline := time.Now().Add(cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := pc.SetDeadline(deadline); err != nil {
		return Endpoint{}, fmt.Errorf("discovery: set deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = pc.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := pc.WriteTo([]byte{}, raddr); err != nil {
		return Endpoint{}, fmt.Errorf("discovery: send to %s: %w", raddr, err)
	}
	log.Debug().Str("broadcast", raddr.String()).Msg("discovery request sent")

	buf := make([]byte, maxBuffer)
	n, sender, err := pc.ReadFrom(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Endpoint{}, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Endpoint{}, fmt.Errorf("%w after %s", ErrDiscoveryTimeout, cfg.Timeout)
		}
		return Endpoint{}, fmt.Errorf("discovery: receive: %w", err)
	}
	return parseReply(buf[:n], sender)
}

func parseReply(b []byte, sender net.Addr) (Endpoint, error) {
	if len(b) != replyLen {
		return Endpoint{}, fmt.Errorf("%w: %d bytes", ErrInvalidReply, len(b))
	}
	port := binary.BigEndian.Uint16(b)
	if port == 0 {
		return Endpoint{}, fmt.Errorf("%w: port 0", ErrInvalidReply)
	}
	udp, ok := sender.(*net.UDPAddr)
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: sender %v", ErrInvalidReply, sender)
	}
	ep := Endpoint{Host: udp.IP.String(), Port: port}
	log.Debug().Str("scheduler", ep.Address()).Msg("scheduler discovered")
	return ep, nil
}
