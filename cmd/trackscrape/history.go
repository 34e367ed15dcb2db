package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/trackscrape/internal/database"
	"github.com/nao1215/trackscrape/internal/model"
	"github.com/nao1215/trackscrape/internal/report"
)

// defaultHistoryLimit is the number of entries listed without --limit.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command shows lookups stored by the track and serve commands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "Show stored lookups",
		Long: `History lists lookups stored in the history database.

Without a query, the most recent lookups of every query are listed. With a
query, only that query's lookups are listed. Use --id to print one stored
report in full, or --latest to print the newest report of a query.

Examples:
  # List recent lookups
  trackscrape history

  # List lookups of one query
  trackscrape history "machine learning"

  # Print a stored report
  trackscrape history --id 3

  # Print the newest report of a query
  trackscrape history --latest "machine learning"

  # List every query in the database
  trackscrape history --list-queries`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-queries", "L", false,
		"List all stored queries")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the stored report with this ID")
	cmd.Flags().Bool("latest", false,
		"Print the newest stored report of the query")
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of entries to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// historyOptions are the parsed history flags.
type historyOptions struct {
	query       string
	listQueries bool
	id          int64
	latest      bool
	limit       int
	json        bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	var opts historyOptions
	var err error

	if opts.listQueries, err = cmd.Flags().GetBool("list-queries"); err != nil {
		return err
	}
	if opts.id, err = cmd.Flags().GetInt64("id"); err != nil {
		return err
	}
	if opts.latest, err = cmd.Flags().GetBool("latest"); err != nil {
		return err
	}
	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if len(args) == 1 {
		opts.query = args[0]
	}
	if opts.latest && opts.query == "" {
		return errLatestNeedsQuery
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// History is read-only; a missing database means nothing was stored yet.
	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runHistory(cmd.Context(), cmd.OutOrStdout(), db, opts)
}

// runHistory dispatches on the history options.
func runHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, opts historyOptions) error {
	switch {
	case opts.listQueries:
		return listQueries(ctx, out, db, opts.json)
	case opts.id > 0:
		return showReport(ctx, out, db, opts.id, opts.json)
	case opts.latest:
		return showLatest(ctx, out, db, opts.query, opts.json)
	default:
		return listHistory(ctx, out, db, opts)
	}
}

// listQueries prints every stored query.
func listQueries(ctx context.Context, out io.Writer, db *database.HistoryDB, asJSON bool) error {
	queries, err := db.ListQueries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queries: %w", err)
	}

	if asJSON {
		return writeJSON(out, queries)
	}

	if len(queries) == 0 {
		fmt.Fprintln(out, "No lookups found in the database.")
		fmt.Fprintln(out, "\nUse 'trackscrape track <query>' to look up a track.")
		return nil
	}

	fmt.Fprintf(out, "Stored queries (%d):\n\n", len(queries))
	for _, q := range queries {
		fmt.Fprintf(out, "  • %s\n", q)
	}
	fmt.Fprintln(out, "\nUse 'trackscrape history <query>' to see the lookups of a query.")

	return nil
}

// listHistory prints lookup metadata, newest first.
func listHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, opts historyOptions) error {
	entries, err := db.GetHistory(ctx, opts.query, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if opts.json {
		return writeJSON(out, entries)
	}

	if len(entries) == 0 {
		if opts.query != "" {
			fmt.Fprintf(out, "No lookups found for %q\n", opts.query)
		} else {
			fmt.Fprintln(out, "No lookups found in the database.")
		}
		fmt.Fprintln(out, "\nUse 'trackscrape track <query>' to look up a track.")
		return nil
	}

	fmt.Fprintf(out, "Lookup history (%d entries):\n\n", len(entries))
	fmt.Fprintf(out, "  %-6s  %-20s  %-24s  %-30s  %7s  %8s\n", "ID", "Date", "Query", "Track", "Courses", "Warnings")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 104))

	for _, e := range entries {
		fmt.Fprintf(out, "  %-6d  %-20s  %-24s  %-30s  %7d  %8d\n",
			e.ID,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			clip(e.Query, 24),
			clip(e.TrackName, 30),
			e.CourseCount,
			e.WarningCount,
		)
	}

	fmt.Fprintln(out, "\nUse 'trackscrape history --id <id>' to print a stored report.")

	return nil
}

var (
	// errReportNotFound is returned when --id names no stored report.
	errReportNotFound = errors.New("no stored report with this ID")

	// errNoLookups is returned when --latest finds nothing for the query.
	errNoLookups = errors.New("no stored lookups for this query")

	// errLatestNeedsQuery is returned when --latest is given without a query.
	errLatestNeedsQuery = errors.New("--latest requires a query")
)

// showReport prints one stored report in full.
func showReport(ctx context.Context, out io.Writer, db *database.HistoryDB, id int64, asJSON bool) error {
	r, err := db.GetReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}
	if r == nil {
		return fmt.Errorf("%w: %d", errReportNotFound, id)
	}

	return writeStoredReport(out, r, asJSON)
}

// showLatest prints the newest stored report of query.
func showLatest(ctx context.Context, out io.Writer, db *database.HistoryDB, query string, asJSON bool) error {
	r, err := db.GetLatestReport(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}
	if r == nil {
		return fmt.Errorf("%w: %q", errNoLookups, query)
	}

	return writeStoredReport(out, r, asJSON)
}

// writeStoredReport prints a stored report as JSON, or as verbose text
// that lists empty sections too.
func writeStoredReport(out io.Writer, r *model.TrackReport, asJSON bool) error {
	var w report.Writer = report.NewSimpleWriter(out, report.WithVerbose(true), report.WithShowEmpty(true))
	if asJSON {
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	}
	_, err := w.Write(r)
	return err
}

// writeJSON writes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// clip shortens s to at most n runes for table output.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
