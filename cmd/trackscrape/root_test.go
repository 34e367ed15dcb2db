package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/trackscrape/internal/config"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "trackscrape" {
			t.Errorf("expected use 'trackscrape', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{name: "verbose", shorthand: "v", defValue: "false"},
			{name: "log-json", defValue: "false"},
			{name: "config", shorthand: "c", defValue: ""},
			{name: "timeout", shorthand: "t", defValue: config.DefaultTimeout.String()},
			{name: "concurrency", shorthand: "n", defValue: "4"},
			{name: "base-url", defValue: config.DefaultBaseURL},
			{name: "proxy", defValue: ""},
			{name: "data-dir", defValue: ""},
		}
		for _, tt := range tests {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		got := make([]string, 0)
		for _, sub := range cmd.Commands() {
			got = append(got, sub.Name())
		}
		// cobra sorts commands by name
		want := []string{"history", "init", "serve", "track", "version"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
		}
	})
}

// parseConfig parses args on the track command and builds its config.
func parseConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	root := NewRootCmd()
	cmd, rest, err := root.Find(append([]string{"track"}, args...))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := cmd.ParseFlags(rest); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return buildConfig(cmd)
}

// TestBuildConfig tests the defaults < file < flags precedence.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "trackscrape.yaml")
	content := `site:
  baseURL: "https://file.example"
  cookie: "CAUTH=secret"
fetch:
  timeout: 5s
  concurrency: 8
selectors:
  title: "h1.track-title"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseConfig(t, "-c", configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BaseURL != "https://file.example" {
			t.Errorf("expected file base URL, got %q", cfg.BaseURL)
		}
		if cfg.Timeout != 5*time.Second || cfg.Concurrency != 8 {
			t.Errorf("expected file fetch settings, got %s/%d", cfg.Timeout, cfg.Concurrency)
		}
		if cfg.Cookie != "CAUTH=secret" {
			t.Errorf("expected file cookie, got %q", cfg.Cookie)
		}
		if cfg.Selectors.Title != "h1.track-title" {
			t.Errorf("expected title override, got %q", cfg.Selectors.Title)
		}
		if cfg.Selectors.Duration != config.DefaultDurationSelector {
			t.Errorf("expected default duration selector, got %q", cfg.Selectors.Duration)
		}
	})

	t.Run("flags override file", func(t *testing.T) {
		t.Parallel()

		dataDir := t.TempDir()
		cfg, err := parseConfig(t, "-c", configPath,
			"-t", "2s", "-n", "3", "--base-url", "http://flag.example",
			"--proxy", "127.0.0.1:1080", "--data-dir", dataDir, "-v")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Timeout != 2*time.Second || cfg.Concurrency != 3 {
			t.Errorf("expected flag fetch settings, got %s/%d", cfg.Timeout, cfg.Concurrency)
		}
		if cfg.BaseURL != "http://flag.example" {
			t.Errorf("expected flag base URL, got %q", cfg.BaseURL)
		}
		if cfg.ProxyAddress != "127.0.0.1:1080" {
			t.Errorf("expected proxy, got %q", cfg.ProxyAddress)
		}
		if cfg.DBDir != dataDir {
			t.Errorf("expected data dir %q, got %q", dataDir, cfg.DBDir)
		}
		if !cfg.Verbose {
			t.Error("expected verbose")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		_, err := parseConfig(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}
