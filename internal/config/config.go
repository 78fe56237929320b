package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/chainctl/internal/discovery"
	"github.com/danmuck/chainctl/internal/grammar"
	"github.com/danmuck/chainctl/internal/protocol"
	"github.com/danmuck/chainctl/internal/session"
	"github.com/danmuck/chainctl/internal/worker"
)

// Config is the resolved settings shared by submitctl and workerctl.
type Config struct {
	Scheduler   string
	MaxOperands int
	Discovery   discovery.Config
	Session     session.Config
	Worker      WorkerConfig
}

type WorkerConfig struct {
	ID          string
	Count       int
	IdleDelay   time.Duration
	MaxCycles   int
	MetricsAddr string
}

func Default() Config {
	return Config{
		MaxOperands: grammar.DefaultMaxOperands,
		Discovery:   discovery.DefaultConfig(),
		Session:     session.DefaultConfig(),
		Worker: WorkerConfig{
			Count:     1,
			IdleDelay: worker.DefaultIdleDelay,
		},
	}
}

type fileConfig struct {
	Scheduler   string           `toml:"scheduler"`
	MaxOperands int              `toml:"max_operands"`
	Discovery   discoverySection `toml:"discovery"`
	Session     sessionSection   `toml:"session"`
	Worker      workerSection    `toml:"worker"`
}

type discoverySection struct {
	BroadcastAddr string `toml:"broadcast_addr"`
	Timeout       string `toml:"timeout"`
	TTL           int    `toml:"ttl"`
}

type sessionSection struct {
	ConnectTimeout string `toml:"connect_timeout"`
	ReadTimeout    string `toml:"read_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
	Hello          string `toml:"hello"`
	QueryResultsOp uint32 `toml:"query_results_op"`
	MaxChainSteps  uint32 `toml:"max_chain_steps"`
	MaxItems       uint32 `toml:"max_items"`
}

type workerSection struct {
	ID          string `toml:"id"`
	Count       int    `toml:"count"`
	IdleDelay   string `toml:"idle_delay"`
	MaxCycles   int    `toml:"max_cycles"`
	MetricsAddr string `toml:"metrics_addr"`
}

// Load overlays the keys present in the TOML file at path onto Default.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("scheduler") {
		cfg.Scheduler = strings.TrimSpace(raw.Scheduler)
	}
	if meta.IsDefined("max_operands") {
		cfg.MaxOperands = raw.MaxOperands
	}

	if meta.IsDefined("discovery", "broadcast_addr") {
		cfg.Discovery.BroadcastAddr = strings.TrimSpace(raw.Discovery.BroadcastAddr)
	}
	if meta.IsDefined("discovery", "timeout") {
		if cfg.Discovery.Timeout, err = parseDuration("discovery.timeout", raw.Discovery.Timeout); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("discovery", "ttl") {
		cfg.Discovery.TTL = raw.Discovery.TTL
	}

	if meta.IsDefined("session", "connect_timeout") {
		if cfg.Session.ConnectTimeout, err = parseDuration("session.connect_timeout", raw.Session.ConnectTimeout); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("session", "read_timeout") {
		if cfg.Session.ReadTimeout, err = parseDuration("session.read_timeout", raw.Session.ReadTimeout); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("session", "write_timeout") {
		if cfg.Session.WriteTimeout, err = parseDuration("session.write_timeout", raw.Session.WriteTimeout); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("session", "hello") {
		cfg.Session.Hello = raw.Session.Hello
	}
	if meta.IsDefined("session", "query_results_op") {
		cfg.Session.QueryResultsOp = protocol.Operation(raw.Session.QueryResultsOp)
	}
	if meta.IsDefined("session", "max_chain_steps") {
		cfg.Session.Limits.MaxChainSteps = raw.Session.MaxChainSteps
	}
	if meta.IsDefined("session", "max_items") {
		cfg.Session.Limits.MaxItems = raw.Session.MaxItems
	}

	if meta.IsDefined("worker", "id") {
		cfg.Worker.ID = strings.TrimSpace(raw.Worker.ID)
	}
	if meta.IsDefined("worker", "count") {
		cfg.Worker.Count = raw.Worker.Count
	}
	if meta.IsDefined("worker", "idle_delay") {
		if cfg.Worker.IdleDelay, err = parseDuration("worker.idle_delay", raw.Worker.IdleDelay); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("worker", "max_cycles") {
		cfg.Worker.MaxCycles = raw.Worker.MaxCycles
	}
	if meta.IsDefined("worker", "metrics_addr") {
		cfg.Worker.MetricsAddr = strings.TrimSpace(raw.Worker.MetricsAddr)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Scheduler != "" {
		if _, err := discovery.ParseEndpoint(c.Scheduler); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
	}
	if c.Worker.Count < 1 {
		return fmt.Errorf("worker.count must be positive, got %d", c.Worker.Count)
	}
	if c.Worker.IdleDelay < 0 {
		return fmt.Errorf("worker.idle_delay must not be negative")
	}
	if c.Worker.MaxCycles < 0 {
		return fmt.Errorf("worker.max_cycles must not be negative")
	}
	return nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
