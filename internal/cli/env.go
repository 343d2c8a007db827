package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/config"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/adapters/file"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/adapters/redis"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keymap"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/persistence/middleware"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	Store      string

	// Interactive hosts stay silent unless a log level is asked for,
	// so log lines do not tear through the calculator panel.
	Interactive bool
	// Metrics registers Prometheus collectors and feeds them from the engine hooks.
	Metrics bool
	// Calculator options applied after the configured ones.
	Calculator []abacus.Option
}

// Env is everything a command needs, built once from config and flags.
type Env struct {
	Config     config.Config
	Logger     *slog.Logger
	Calculator *abacus.Calculator
	Sessions   *session.Manager
	Metrics    *observability.Metrics

	closers []func() error
}

// Setup loads the configuration, then builds the logger, the calculator and the session store.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Store != "" {
		cfg.Store.Backend = opts.Store
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := createLogger(cfg.Log.Level, opts)
	if err != nil {
		return nil, err
	}

	env := &Env{Config: cfg, Logger: logger}

	hooks := observability.LogHooks(logger)
	if opts.Metrics {
		env.Metrics = observability.NewMetrics()
		hooks = observability.Chain(env.Metrics.Hooks(), hooks)
	}

	calcOpts, err := calculatorOptions(cfg)
	if err != nil {
		return nil, err
	}
	calcOpts = append(calcOpts, opts.Calculator...)
	calcOpts = append(calcOpts,
		abacus.WithLogger(logger),
		abacus.WithLifecycleHooks(hooks),
	)
	env.Calculator = abacus.New(calcOpts...)

	store, locker, closer, err := createStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		env.closers = append(env.closers, closer)
	}

	store = middleware.Chain(
		middleware.NewLoggingMiddleware(logger),
		middleware.NewIntegrityMiddleware(),
	)(store)

	managerOpts := []session.Option{
		session.WithLogger(logger),
		session.WithStarter(env.Calculator.StartSession),
	}
	if locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(locker))
	}
	env.Sessions = session.NewManager(store, managerOpts...)

	logger.Debug("Environment ready", "store", cfg.Store.Backend, "keymap", cfg.Keymap, "angle_mode", cfg.AngleMode)
	return env, nil
}

// Close releases store connections.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// createLogger picks the level from the flag, then the config file.
func createLogger(configured string, opts Options) (*slog.Logger, error) {
	if opts.Interactive && opts.LogLevel == "" {
		return logging.NewNop(), nil
	}
	name := configured
	if opts.LogLevel != "" {
		name = opts.LogLevel
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

func calculatorOptions(cfg config.Config) ([]abacus.Option, error) {
	mode, err := domain.ParseAngleMode(cfg.AngleMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.AngleMode)
	}
	profile, err := keymap.ParseProfile(cfg.Keymap)
	if err != nil {
		return nil, err
	}
	return []abacus.Option{
		abacus.WithAngleMode(mode),
		abacus.WithKeymap(profile),
	}, nil
}

// createStore builds the configured backend. Only Redis needs a cross-process
// locker; the session manager already serializes callers inside one process.
func createStore(ctx context.Context, cfg config.StoreConfig) (ports.StateStore, ports.DistributedLocker, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return memory.NewStore(), nil, nil, nil
	case config.BackendFile:
		return file.New(filepath.Clean(cfg.Dir)), nil, nil, nil
	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		locker := redis.NewLocker(store.Client(), cfg.Redis.Prefix+"lock:")
		return store, locker, store.Close, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
