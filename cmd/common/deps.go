// Package common wires the shared dependencies of the CLI commands.
package common

import (
	"fmt"

	"github.com/jonesrussell/goclone/internal/archive"
	"github.com/jonesrussell/goclone/internal/clone"
	"github.com/jonesrussell/goclone/internal/config"
	"github.com/jonesrussell/goclone/internal/fetcher"
	"github.com/jonesrussell/goclone/internal/logger"
	"github.com/jonesrussell/goclone/internal/renderer"
)

// Options are the global CLI flags relevant to dependency construction.
type Options struct {
	ConfigFile string
	Debug      bool
}

// Deps holds the constructed application dependencies. Everything is built
// here once and injected; no package keeps implicit global state.
type Deps struct {
	Config  *config.Config
	Logger  logger.Interface
	Service *clone.Service
}

// BuildDeps loads configuration and constructs the clone service with its
// collaborators.
func BuildDeps(opts Options) (*Deps, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Debug {
		cfg.App.Debug = true
		cfg.Logger.Level = logger.DebugLevel
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	capturer := renderer.NewBrowserCapturer(
		cfg.Clone.RenderTimeout,
		cfg.Clone.UserAgent,
		log.WithComponent("browser"),
	)
	selector := renderer.NewSelector(
		cfg.Clone.StaticTimeout,
		cfg.Clone.UserAgent,
		renderer.SizeMarkerPolicy{MinBytes: cfg.Clone.MinStaticBytes},
		capturer,
		log.WithComponent("renderer"),
	)

	assets := fetcher.NewClient(cfg.Clone.AssetTimeout, cfg.Clone.UserAgent)
	builder := archive.NewBuilder(cfg.Clone.WorkDir, cfg.Clone.PublicDir, log.WithComponent("archive"))

	service := clone.NewService(
		cfg.Clone,
		selector,
		assets,
		fetcher.Save,
		builder,
		log.WithComponent("clone"),
	)

	return &Deps{
		Config:  cfg,
		Logger:  log,
		Service: service,
	}, nil
}
