package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/fetcher"
	applog "github.com/nao1215/trackscrape/internal/log"
	"github.com/nao1215/trackscrape/internal/pipeline"
	"github.com/nao1215/trackscrape/internal/search"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file and
// the global flags, in that order. Only flags the user set override the file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	flags := cmd.Flags()

	if flags.Changed("config") {
		path, err := flags.GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.ConfigFilePath = path
	}

	// If the user named a config file, it must exist.
	// Otherwise a missing file just means defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case explicitConfigPath:
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	var err error
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("data-dir") {
		if cfg.DBDir, err = flags.GetString("data-dir"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// setupLogger creates the secure logger used by every command.
// fallback is the level used when --verbose is not set.
func setupLogger(cmd *cobra.Command, verbose bool, fallback slog.Level) *slog.Logger {
	asJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		asJSON = false
	}
	return applog.NewSecureLoggerWithLevel(cmd.ErrOrStderr(), applog.LevelFor(verbose, fallback), asJSON)
}

// newService wires the fetcher, resolver and pipeline for cfg.
func newService(cfg *config.Config, logger *slog.Logger, opts ...pipeline.ServiceOption) (*pipeline.Service, error) {
	f, err := fetcher.New(
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithCookie(cfg.Cookie),
		fetcher.WithHeaders(cfg.Headers),
		fetcher.WithProxy(cfg.ProxyAddress),
		fetcher.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	origin := cfg.Origin()
	resolver := search.NewResolver(f, origin, search.WithLogger(logger))

	factory := func() *pipeline.Pipeline {
		return pipeline.DefaultPipeline(f,
			[]pipeline.Option{pipeline.WithLogger(logger)},
			pipeline.WithPipelineOrigin(origin),
			pipeline.WithPipelineSelectors(cfg.Selectors),
			pipeline.WithPipelineConcurrency(cfg.Concurrency),
			pipeline.WithPipelineStepLogger(logger),
		)
	}

	return pipeline.NewService(resolver, factory,
		append([]pipeline.ServiceOption{pipeline.WithServiceLogger(logger)}, opts...)...,
	), nil
}
