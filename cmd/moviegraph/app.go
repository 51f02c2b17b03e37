package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rlch/moviegraph"
	"github.com/rlch/moviegraph/executors/instrumented"
	"github.com/rlch/moviegraph/logging"
	"github.com/rlch/moviegraph/movies"
	"github.com/rlch/moviegraph/render"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var (
	ErrUsage           = errors.New("wrong number of arguments")
	ErrNoConnectionURI = errors.New("no connection URI specified (use --uri or .moviegraph.yaml)")
)

// app holds everything one command invocation needs.
type app struct {
	cfg      *moviegraph.Config
	logger   *zap.Logger
	svc      *movies.Service
	out      *render.Renderer
	registry *prometheus.Registry
	metrics  bool
}

// loadConfig reads --config or the nearest config file, falling back to
// defaults, then applies flag overrides.
func loadConfig(cmd *cli.Command) (*moviegraph.Config, error) {
	var (
		cfg *moviegraph.Config
		err error
	)

	if path := cmd.String("config"); path != "" {
		cfg, err = moviegraph.LoadConfigFile(path)
	} else {
		cfg, err = moviegraph.LoadConfig(".")
		if errors.Is(err, moviegraph.ErrConfigNotFound) {
			cfg, err = moviegraph.DefaultConfig(), nil
		}
	}

	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"strategy":  &cfg.Strategy,
		"uri":       &cfg.Connection.URI,
		"username":  &cfg.Connection.Username,
		"password":  &cfg.Connection.Password,
		"database":  &cfg.Connection.Database,
		"format":    &cfg.Output.Format,
		"log-level": &cfg.Log.Level,
	}
	for name, field := range overrides {
		if cmd.IsSet(name) {
			*field = cmd.String(name)
		}
	}

	if cfg.Connection.URI == "" {
		return nil, ErrNoConnectionURI
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newApp(ctx context.Context, cmd *cli.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	strategy, err := movies.LookupStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	exec, err := moviegraph.NewExecutor(ctx, strategy.Executor, cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := instrumented.NewMetrics("moviegraph", registry)

	logger = logger.With(zap.String("strategy", strategy.Name), zap.String("executor", exec.Name()))
	logger.Debug("connected", zap.String("uri", cfg.Connection.URI))

	svc := movies.New(instrumented.Wrap(exec, metrics),
		movies.WithStatements(strategy.Statements),
		movies.WithLogger(logger),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		svc:      svc,
		out:      render.New(os.Stdout, format),
		registry: registry,
		metrics:  cmd.Bool("metrics"),
	}, nil
}

func (a *app) close(ctx context.Context) {
	if a.metrics {
		a.logMetrics()
	}

	if err := a.svc.Close(ctx); err != nil {
		a.logger.Warn("close executor", zap.Error(err))
	}

	_ = a.logger.Sync()
}

func (a *app) logMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("gather metrics", zap.Error(err))

		return
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("metric", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}

			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()),
				)
			}

			a.logger.Info("metric", fields...)
		}
	}
}

// withApp wraps an action so it runs with a connected app that is closed
// afterwards.
func withApp(action func(ctx context.Context, cmd *cli.Command, a *app) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}

		defer a.close(ctx)

		return action(ctx, cmd, a)
	}
}

func requireArgs(cmd *cli.Command, minArgs, maxArgs int) error {
	if n := cmd.Args().Len(); n < minArgs || n > maxArgs {
		return fmt.Errorf("%w: %s expects %s", ErrUsage, cmd.Name, cmd.ArgsUsage)
	}

	return nil
}
