package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/database"
	"github.com/nao1215/trackscrape/internal/pipeline"
	"github.com/nao1215/trackscrape/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve track lookups over HTTP",
		Long: `Serve starts the HTTP API.

Endpoints:
  GET /api/track?search_query=<text>   look up a track (200, 400, 404 or 500)
  GET /health                          liveness probe

Examples:
  # Listen on the default address (:5000)
  trackscrape serve

  # Listen on localhost only and record lookups in history
  trackscrape serve --addr 127.0.0.1:8080 --history`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultListenAddr,
		"Address to listen on")
	cmd.Flags().Bool("history", false,
		"Store successful lookups in the history database")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.ListenAddr, err = cmd.Flags().GetString("addr"); err != nil {
		return err
	}
	if cfg.SaveToDB, err = cmd.Flags().GetBool("history"); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// The server logs every request, so it defaults to Info.
	logger := setupLogger(cmd, cfg.Verbose, slog.LevelInfo)
	slog.SetDefault(logger)

	var opts []pipeline.ServiceOption
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("recording lookups", "path", db.Path())
		opts = append(opts, pipeline.WithRecorder(db))
	}

	svc, err := newService(cfg, logger, opts...)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(svc,
		server.WithAddr(cfg.ListenAddr),
		server.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving track lookups on %s (press Ctrl+C to stop)\n", srv.Addr())
	return srv.Run(ctx)
}
