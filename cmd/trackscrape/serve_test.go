package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nao1215/trackscrape/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	addr := cmd.Flags().Lookup("addr")
	if addr == nil {
		t.Fatal("expected addr flag")
	}
	if addr.DefValue != config.DefaultListenAddr {
		t.Errorf("expected default %q, got %q", config.DefaultListenAddr, addr.DefValue)
	}

	history := cmd.Flags().Lookup("history")
	if history == nil {
		t.Fatal("expected history flag")
	}
	if history.DefValue != "false" {
		t.Errorf("expected history off by default, got %q", history.DefValue)
	}

	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("expected error for positional arguments")
	}
}

// TestServeCmd tests the serve command lifecycle.
func TestServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, "serve", "--base-url", "ftp://catalog.example")
		if !errors.Is(err, config.ErrInvalidBaseURL) {
			t.Errorf("expected ErrInvalidBaseURL, got %v", err)
		}
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		var out bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--data-dir", t.TempDir(), "--history"})
		cmd.SetOut(&out)
		cmd.SetErr(io.Discard)

		if err := cmd.ExecuteContext(ctx); err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
		if !strings.Contains(out.String(), "Serving track lookups on 127.0.0.1:0") {
			t.Errorf("expected listen address in output, got %q", out.String())
		}
	})
}
