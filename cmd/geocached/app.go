// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/wneessen/geocached/internal/cache"
	"github.com/wneessen/geocached/internal/config"
	"github.com/wneessen/geocached/internal/i18n"
	"github.com/wneessen/geocached/internal/logger"
	"github.com/wneessen/geocached/internal/observability"
	"github.com/wneessen/geocached/internal/presenter"
	"github.com/wneessen/geocached/internal/service"
	"github.com/wneessen/geocached/internal/store/memory"
	"github.com/wneessen/geocached/internal/store/sqlite"
)

// processMetrics registers the collectors once per process.
var processMetrics = sync.OnceValue(observability.NewMetrics)

// app holds everything a command needs. It is filled by setup before a command runs.
type app struct {
	output     io.Writer
	configPath string
	verbose    bool
	jsonOutput bool

	config    *config.Store
	logger    *logger.Logger
	metrics   *observability.Metrics
	store     cache.Store
	spatial   *cache.Spatial
	service   *service.Service
	presenter *presenter.Presenter
}

func newRootCommand(output io.Writer) *cobra.Command {
	a := &app{output: output}
	root := &cobra.Command{
		Use:           "geocached",
		Short:         "Cached reverse and forward geocoding",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newServeCommand(a),
		newReverseCommand(a),
		newSearchCommand(a),
		newCacheCommand(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	path := a.configPath
	if path == "" {
		path = findConfigFile()
	}
	store, err := config.NewStore(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.config = store
	conf := store.Current()

	level := conf.LogLevel
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = logger.New(level)
	a.metrics = processMetrics()

	if a.store, err = openStore(ctx, conf); err != nil {
		return err
	}
	a.spatial = cache.New(a.store, store, clockwork.NewRealClock(), a.logger, a.metrics)
	if a.service, err = service.New(store, a.spatial, a.logger, a.metrics); err != nil {
		return fmt.Errorf("failed to initialize geocached service: %w", err)
	}

	catalog, err := i18n.New(conf.Locale)
	if err != nil {
		return fmt.Errorf("failed to initialize localizer: %w", err)
	}
	a.presenter = presenter.New(catalog, a.output)
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	// A lookup may have started a sweep that still needs the store.
	if a.spatial != nil {
		a.spatial.WaitSweep()
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close cache store: %w", err)
	}
	return nil
}

// locale returns the explicitly requested locale or the configured one.
func (a *app) locale(requested string) string {
	if requested != "" {
		return requested
	}
	return a.config.Current().Locale
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func openStore(ctx context.Context, conf *config.Config) (cache.Store, error) {
	if conf.Cache.Path == "" {
		return memory.New(), nil
	}
	store, err := sqlite.New(ctx, conf.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return store, nil
}

func findConfigFile() string {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "geocached", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
