package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultAttemptTimeout = 6 * time.Second
	defaultSimulatedDelay = 0 * time.Second
)

type Config struct {
	ServiceName string `koanf:"service_name" mapstructure:"service_name"`

	// AttemptTimeout is the watchdog deadline applied to every attempt. It is
	// a single shared constant; there is no per-call override.
	AttemptTimeout time.Duration `koanf:"attempt_timeout" mapstructure:"attempt_timeout"`

	// SimulatedDelay pads the remote step before it runs, for exercising the
	// loading state in development builds. Zero in production.
	SimulatedDelay time.Duration `koanf:"simulated_delay" mapstructure:"simulated_delay"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "resource",
		AttemptTimeout: defaultAttemptTimeout,
		SimulatedDelay: defaultSimulatedDelay,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("core: attempt_timeout must be positive")
	}
	if c.SimulatedDelay < 0 {
		return fmt.Errorf("core: simulated_delay cannot be negative")
	}
	return nil
}
