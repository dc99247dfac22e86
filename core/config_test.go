package core

import (
	"context"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	cfg.ServiceName = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected service_name error")
	}

	cfg = DefaultConfig()
	cfg.AttemptTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected attempt_timeout error")
	}

	cfg = DefaultConfig()
	cfg.SimulatedDelay = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected simulated_delay error")
	}
}

func TestResolveConfig_RuntimeOverridesLoaded(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: map[string]any{
		"service_name":    "auth-resource",
		"attempt_timeout": "10s",
	}})

	resolved, err := ResolveConfig(context.Background(), provider, GoOptionsResolver{}, Config{
		AttemptTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if resolved.ServiceName != "auth-resource" {
		t.Fatalf("expected loaded service name, got %q", resolved.ServiceName)
	}
	if resolved.AttemptTimeout != 3*time.Second {
		t.Fatalf("runtime override must win, got %s", resolved.AttemptTimeout)
	}
	if resolved.SimulatedDelay != DefaultConfig().SimulatedDelay {
		t.Fatalf("defaults must fill unset fields, got %s", resolved.SimulatedDelay)
	}
}

func TestResolveConfig_DefaultsWhenNothingProvided(t *testing.T) {
	resolved, err := ResolveConfig(context.Background(), nil, nil, Config{})
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if resolved.AttemptTimeout != defaultAttemptTimeout {
		t.Fatalf("expected default attempt timeout, got %s", resolved.AttemptTimeout)
	}
}
