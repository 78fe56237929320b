package discovery_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/testutil/fakesched"
	"github.com/danmuck/chainctl/internal/testutil/testlog"
)

func TestDiscoverReturnsReplierAndPort(t *testing.T) {
	testlog.Start(t)
	addr := fakesched.StartResponder(t, 4337)

	ep, err := discovery.Discover(context.Background(), discovery.Config{
		BroadcastAddr: addr,
		Timeout:       2 * time.Second,
	})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := discovery.Endpoint{Host: "127.0.0.1", Port: 4337}
	if ep != want {
		t.Fatalf("got=%+v want=%+v", ep, want)
	}
}

func TestDiscoverTimeout(t *testing.T) {
	testlog.Start(t)
	silent, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer silent.Close()

	_, err = discovery.Discover(context.Background(), discovery.Config{
		BroadcastAddr: silent.LocalAddr().String(),
		Timeout:       100 * time.Millisecond,
	})
	if !errors.Is(err, discovery.ErrDiscoveryTimeout) {
		t.Fatalf("expected ErrDiscoveryTimeout, got %v", err)
	}
}

func TestDiscoverHonorsContext(t *testing.T) {
	testlog.Start(t)
	silent, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer silent.Close()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	_, err = discovery.Discover(ctx, discovery.Config{
		BroadcastAddr: silent.LocalAddr().String(),
		Timeout:       5 * time.Second,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDiscoverInvalidReply(t *testing.T) {
	testlog.Start(t)
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()
	go func() {
		buf := make([]byte, 64)
		_, from, err := pc.ReadFrom(buf)
		if err != nil {
			return
		}
		_, _ = pc.WriteTo([]byte{0x10, 0xe1, 0x00}, from)
	}()

	_, err = discovery.Discover(context.Background(), discovery.Config{
		BroadcastAddr: pc.LocalAddr().String(),
		Timeout:       2 * time.Second,
	})
	if !errors.Is(err, discovery.ErrInvalidReply) {
		t.Fatalf("expected ErrInvalidReply, got %v", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in      string
		want    discovery.Endpoint
		wantErr bool
	}{
		{in: "10.0.0.5:4337", want: discovery.Endpoint{Host: "10.0.0.5", Port: 4337}},
		{in: " :4337 ", want: discovery.Endpoint{Host: "127.0.0.1", Port: 4337}},
		{in: "[::1]:80", want: discovery.Endpoint{Host: "::1", Port: 80}},
		{in: "host", wantErr: true},
		{in: "host:0", wantErr: true},
		{in: "host:70000", wantErr: true},
	}
	for _, tc := range tests {
		got, err := discovery.ParseEndpoint(tc.in)
		if tc.wantErr {
			if !errors.Is(err, discovery.ErrInvalidEndpoint) {
				t.Fatalf("ParseEndpoint(%q): expected ErrInvalidEndpoint, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseEndpoint(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseEndpoint(%q) = %+v want %+v", tc.in, got, tc.want)
		}
	}
}

func TestEndpointAddress(t *testing.T) {
	ep := discovery.Endpoint{Host: "::1", Port: 4337}
	if got := ep.Address(); got != "[::1]:4337" {
		t.Fatalf("unexpected address: %q", got)
	}
}
