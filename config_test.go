package main

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"port", func(c *Config) { c.port = 0 }, "invalid port"},
		{"tls", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-key"},
		{"width", func(c *Config) { c.width = 0 }, "invalid width"},
		{"height", func(c *Config) { c.height = 1 }, "invalid height"},
		{"pool", func(c *Config) { c.categoryPool = 1 }, "category pool"},
		{"concurrency", func(c *Config) { c.concurrentFetch = -1 }, "--concurrent-fetch"},
		{"timeout", func(c *Config) { c.fetchTimeout = 0 }, "--fetch-timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.modify(cfg)

			err := cfg.validate()
			switch {
			case tt.want == "" && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.want != "" && (err == nil || !strings.Contains(err.Error(), tt.want)):
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if cfg.width != 6 || cfg.height != 6 || cfg.categoryPool != 80 {
		t.Fatalf("unexpected board defaults: %dx%d from %d", cfg.width, cfg.height, cfg.categoryPool)
	}
	if cfg.port != 8080 || cfg.fetchTimeout != 10*time.Second || cfg.concurrentFetch != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TRIVIABOX_WIDTH", "4")
	t.Setenv("TRIVIABOX_CONCURRENT_FETCH", "3")
	t.Setenv("TRIVIABOX_PORT", "9090")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if cfg.width != 4 || cfg.concurrentFetch != 3 || cfg.port != 9090 {
		t.Fatalf("environment not applied: width=%d concurrent=%d port=%d", cfg.width, cfg.concurrentFetch, cfg.port)
	}

	if err := cmd.ParseFlags([]string{"--width", "3"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.width != 3 {
		t.Fatalf("flag should win over environment, got width=%d", cfg.width)
	}
}

func TestScheme(t *testing.T) {
	cfg := newTestConfig()
	if cfg.scheme() != "http" {
		t.Fatalf("expected http, got %s", cfg.scheme())
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if cfg.scheme() != "https" {
		t.Fatalf("expected https, got %s", cfg.scheme())
	}
}
