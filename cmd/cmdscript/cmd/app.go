package cmd

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/interpreter"
	"github.com/msto63/cmdscript/foundation/cmdlang/presenter"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	"github.com/msto63/cmdscript/foundation/core/config"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
	"github.com/msto63/cmdscript/internal/history"
)

// configDefaults are used for keys missing from file and environment
var configDefaults = map[string]interface{}{
	"log": map[string]interface{}{
		"level":  "info",
		"format": "text",
	},
	"engine": map[string]interface{}{
		"max_loop_iterations": interpreter.DefaultMaxLoopIterations,
		"execution_timeout":   "0s",
	},
	"history": map[string]interface{}{
		"max_result_length": history.DefaultConfig().MaxResultLength,
		"retention":         "0s",
	},
	"server": map[string]interface{}{
		"addr": "127.0.0.1:8765",
	},
	"shell": map[string]interface{}{
		"prompt": "cmd> ",
	},
}

// app holds everything the subcommands share
type app struct {
	cfg     *config.Config
	logger  *mdwlog.Logger
	catalog *registry.Catalog
	history history.Store
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	mdwlog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	a.catalog = registry.NewCatalog(registry.Options{Logger: logger})
	path := catalogPath
	if path == "" {
		path = cfg.GetString("catalog.path")
	}
	if path != "" {
		if err := a.catalog.Load(path); err != nil {
			return nil, err
		}
	}

	if dbPath := cfg.GetString("history.path"); dbPath != "" {
		store, err := history.NewSQLiteStore(history.Config{
			Path:            dbPath,
			MaxResultLength: cfg.GetInt("history.max_result_length"),
		})
		if err != nil {
			return nil, err
		}
		a.history = store

		if retention := cfg.GetDuration("history.retention"); retention > 0 {
			n, err := store.Prune(context.Background(), retention)
			if err != nil {
				logger.WarnWithErr("History pruning failed", err)
			} else if n > 0 {
				logger.Info("Pruned history", mdwlog.Fields{"deleted": n, "retention": retention.String()})
			}
		}
	}
	return a, nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadWithOptions(cfgFile, config.LoadOptions{
			EnvPrefix: "CMDSCRIPT",
			Defaults:  configDefaults,
		})
	}
	options := config.DefaultDiscoveryOptions()
	options.Defaults = configDefaults
	return config.Discover(options)
}

func newLogger(cfg *config.Config) (*mdwlog.Logger, error) {
	levelName := logLevel
	if levelName == "" {
		levelName = cfg.GetString("log.level")
	}
	level, err := mdwlog.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	format, err := mdwlog.ParseFormat(cfg.GetString("log.format"))
	if err != nil {
		return nil, err
	}
	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: os.Stderr,
		Name:   "cmdscript",
	}), nil
}

// watchConfig applies log level changes while a long running command is
// active. Without a config file there is nothing to watch.
func (a *app) watchConfig() {
	if a.cfg.FilePath() == "" {
		return
	}
	a.cfg.OnChange(func(previous, current *config.Config) {
		if logLevel != "" {
			return
		}
		level, err := mdwlog.ParseLevel(current.GetString("log.level"))
		if err != nil {
			a.logger.WarnWithErr("Ignoring invalid log level", err)
			return
		}
		if level != a.logger.GetLevel() {
			a.logger.SetLevel(level)
			a.logger.Info("Log level changed", mdwlog.Fields{"level": level.String()})
		}
	})
	if err := a.cfg.Watch(func(err error) {
		a.logger.WarnWithErr("Config reload failed", err)
	}); err != nil {
		a.logger.WarnWithErr("Config watch disabled", err)
	}
}

// newSession creates a session writing to out
func (a *app) newSession(out presenter.Presenter) (*cmdlang.Session, error) {
	opts := cmdlang.Options{
		Logger:            a.logger,
		Registry:          a.catalog,
		Presenter:         out,
		MaxLoopIterations: a.cfg.GetInt("engine.max_loop_iterations"),
		ExecutionTimeout:  a.cfg.GetDuration("engine.execution_timeout"),
	}
	if a.history != nil {
		opts.Recorder = a.history
		opts.Builtins = append(opts.Builtins, history.Namespace(a.history))
	}
	return cmdlang.NewSession(opts)
}

// console returns a presenter for stdout, styled on terminals
func console() presenter.Presenter {
	styled := isatty.IsTerminal(os.Stdout.Fd())
	return presenter.NewConsole(os.Stdout, styled)
}

func (a *app) Close() {
	a.cfg.StopWatching()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.WarnWithErr("Failed to close history", err)
		}
	}
}
