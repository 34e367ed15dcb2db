package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/database"
	"github.com/nao1215/trackscrape/internal/model"
	"github.com/nao1215/trackscrape/internal/pipeline"
	"github.com/nao1215/trackscrape/internal/report"
)

// NewTrackCmd creates the track command.
func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <query>...",
		Short: "Look up specialization tracks and print their contents",
		Long: `Track searches the course catalog for each query, opens the best match and
extracts its title, description, skills and courses. Every course page is
fetched to collect the course's own skills.

Fields the page does not provide are reported as warnings; the rest of the
track is still printed.

Examples:
  # Look up one track
  trackscrape track "machine learning"

  # Look up several tracks, two at a time
  trackscrape track --batch 2 "data science" "cloud computing" "python"

  # Output JSON report
  trackscrape track --json "machine learning"

  # Output exactly what the API returns
  trackscrape track --json --track-only "machine learning"

  # Write a Markdown report to a file
  trackscrape track --markdown -o reports/ml.md "machine learning"`,
		Args: cobra.ArbitraryArgs,
		RunE: runTrackCmd,
	}

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent lookups")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().Bool("track-only", false,
		"With --json, output only the track record")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not store results in the history database")

	return cmd
}

// runTrackCmd executes the track command.
func runTrackCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildTrackConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.ValidateTrack(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd, cfg.Verbose, slog.LevelWarn)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trackOnly, err := cmd.Flags().GetBool("track-only")
	if err != nil {
		return err
	}

	return runTrack(ctx, cmd.OutOrStdout(), cfg, trackOnly, logger)
}

// buildTrackConfig adds the track flags to the shared configuration.
func buildTrackConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	cfg.Queries = args
	return cfg, nil
}

// runTrack performs the lookups and writes the report.
// It returns an error when any lookup failed, after the report is written.
func runTrack(ctx context.Context, stdout io.Writer, cfg *config.Config, trackOnly bool, logger *slog.Logger) error {
	logger.Info("starting lookups",
		"queries", cfg.Queries,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var opts []pipeline.ServiceOption
	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
		opts = append(opts, pipeline.WithRecorder(db))
	}

	svc, err := newService(cfg, logger, opts...)
	if err != nil {
		return err
	}

	var reports []*model.TrackReport
	if len(cfg.Queries) == 1 {
		r, _ := svc.Lookup(ctx, cfg.Queries[0]) //nolint:errcheck // the report carries the error
		reports = []*model.TrackReport{r}
	} else {
		bp := pipeline.NewBatchProcessor(svc.Lookup,
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		reports, err = bp.ProcessBatch(ctx, cfg.Queries)
		if err != nil {
			return err
		}
	}

	if err := outputReports(stdout, cfg, trackOnly, reports); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	failed := 0
	for _, r := range reports {
		if r == nil || r.Failed() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return nil
	case len(reports) == 1:
		return reports[0].Error
	default:
		return fmt.Errorf("%d of %d lookups failed", failed, len(reports))
	}
}

// outputReports writes the reports in the requested format.
func outputReports(stdout io.Writer, cfg *config.Config, trackOnly bool, reports []*model.TrackReport) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport && trackOnly:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithTrackOnly())
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	var err error
	if len(reports) == 1 {
		_, err = w.Write(reports[0])
	} else {
		_, err = w.WriteBatch(reports)
	}
	return err
}
