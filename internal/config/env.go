package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvScheduler     = "CHAINCTL_SCHEDULER"
	EnvBroadcastAddr = "CHAINCTL_BROADCAST_ADDR"
	EnvWorkerID      = "CHAINCTL_WORKER_ID"
	EnvWorkers       = "CHAINCTL_WORKERS"
)

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from CHAINCTL_* variables.
func ApplyEnv(cfg *Config) error {
	if v, ok := lookup(EnvScheduler); ok {
		cfg.Scheduler = v
	}
	if v, ok := lookup(EnvBroadcastAddr); ok {
		cfg.Discovery.BroadcastAddr = v
	}
	if v, ok := lookup(EnvWorkerID); ok {
		cfg.Worker.ID = v
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Worker.Count = n
	}
	return cfg.Validate()
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
