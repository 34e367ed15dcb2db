package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/trackscrape/internal/config"
)

//go:embed templates/trackscrape.yaml
var configTemplate embed.FS

// errConflictingInitTargets is returned when both --output and --xdg are given.
var errConflictingInitTargets = errors.New("conflicting targets: --output and --xdg cannot be used together")

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new trackscrape configuration file",
		Long: `Initialize creates a new .trackscrape configuration file in the current directory.

The generated file includes:
- The site origin, user agent, cookie and extra headers
- Fetch timeout, concurrency, body size limit and proxy
- Commented page selectors that can be overridden when the site changes

Examples:
  # Create .trackscrape in current directory
  trackscrape init

  # Create config file at a specific path
  trackscrape init -o myconfig.yaml

  # Create the per-user config file in the XDG config directory
  trackscrape init --xdg

  # Force overwrite existing file
  trackscrape init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().Bool("xdg", false,
		"Write the configuration to the XDG config directory (mutually exclusive with --output)")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	useXDG, err := cmd.Flags().GetBool("xdg")
	if err != nil {
		return err
	}
	if useXDG {
		if cmd.Flags().Changed("output") {
			return errConflictingInitTargets
		}
		outputPath = config.XDGConfigFile()
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/trackscrape.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// The file may hold session cookies.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - A session cookie and extra request headers")
	fmt.Fprintln(out, "  - Fetch timeout and course page concurrency")
	fmt.Fprintln(out, "  - Page selectors when the site markup changes")

	return nil
}
