package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scorepeon/ladder/internal/domain/rating"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("store = %q", cfg.Store)
	}
	if cfg.DefaultMu != rating.DefaultMu || cfg.DefaultSigma != rating.DefaultSigma {
		t.Errorf("rating defaults not applied: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LADDER_ADDR", ":7070")
	t.Setenv("LADDER_STORE", StoreSQLite)
	t.Setenv("LADDER_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("LADDER_DEFAULT_MU", "30")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.Store != StoreSQLite || cfg.SQLitePath != "/tmp/test.db" {
		t.Errorf("store config not applied: %+v", cfg)
	}
	if cfg.DefaultMu != 30 {
		t.Errorf("default mu = %v", cfg.DefaultMu)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	content := "addr: \":6060\"\nmax_leaderboard_limit: 25\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("LADDER_CONFIG", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":6060" || cfg.MaxLeaderboardLimit != 25 {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("LADDER_CONFIG", path)
	t.Setenv("LADDER_ADDR", ":5050")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":5050" {
		t.Errorf("env should win over file, got %q", cfg.Addr)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown store":  {"LADDER_STORE": "postgres"},
		"empty addr":     {"LADDER_ADDR": ""},
		"bad limit":      {"LADDER_MAX_LEADERBOARD_LIMIT": "0"},
		"bad rating":     {"LADDER_DEFAULT_SIGMA": "-1"},
		"empty db path":  {"LADDER_STORE": StoreSQLite, "LADDER_SQLITE_PATH": ""},
		"missing config": {"LADDER_CONFIG": "/does/not/exist.yaml"},
	}
	for name, envs := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range envs {
				t.Setenv(k, v)
			}
			_, err := Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidConfig) && !errors.Is(err, ErrLoadConfig) {
				t.Errorf("error should be a config kind, got %v", err)
			}
		})
	}
}
