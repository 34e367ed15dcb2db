// Package main provides the entry point for the trackscrape CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/trackscrape/internal/config"
)

// NewRootCmd creates the root command for trackscrape.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trackscrape",
		Short: "Extract specialization tracks from the course catalog",
		Long: `trackscrape finds a specialization track on the course catalog from a
free-text query and extracts its title, description, skills and course list,
including the duration and skills of every course.

Results can be printed from the command line (track), served over HTTP
(serve), and compared with earlier lookups (history).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .trackscrape in current or home directory)")
	flags.DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	flags.IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of course pages fetched in parallel")
	flags.String("base-url", config.DefaultBaseURL,
		"Origin of the course catalog site")
	flags.String("proxy", "",
		"SOCKS5 proxy address ([user:pass@]host:port)")
	flags.String("data-dir", "",
		"Directory of the history database (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewTrackCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
