// Package server wires the auth service together: account store, password
// hasher, token codec, metrics, the public gRPC endpoint and the ops HTTP
// endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/quotevote/authkeeper/internal/logging"
	"github.com/quotevote/authkeeper/internal/server/auth"
	"github.com/quotevote/authkeeper/internal/server/config"
	"github.com/quotevote/authkeeper/internal/server/metrics"
	"github.com/quotevote/authkeeper/internal/server/ops"
	"github.com/quotevote/authkeeper/internal/server/password"
	"github.com/quotevote/authkeeper/internal/server/repositories/repomanager"
	"github.com/quotevote/authkeeper/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/quotevote/authkeeper/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	store    repomanager.RepositoryManager
	registry *prometheus.Registry
	grpc     *gs.GRPCServer
}

// Option customizes NewApp.
type Option func(*App)

// WithLogger replaces the default JSON stdout logger.
func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.logger = l }
}

// NewApp builds every component from c. The store is opened (and migrated)
// here, so a bad DSN or secret fails before anything listens.
func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	app := &App{
		config:   c,
		logger:   logging.NewJSON(os.Stdout, slog.LevelInfo),
		registry: prometheus.NewRegistry(),
	}
	for _, o := range opts {
		o(app)
	}

	secret := []byte(c.SecretKey)
	codec, err := auth.NewCodec(secret)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewVerifier(secret)
	if err != nil {
		return nil, err
	}
	hasher, err := password.NewBcrypt(c.BcryptCost)
	if err != nil {
		return nil, err
	}

	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(app.registry)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	store, err := repomanager.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	app.store = store

	svc := services.NewAuthService(store.Users(), hasher, codec, verifier, c,
		services.WithLogger(app.logger),
		services.WithObserver(m),
	)
	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, app.logger, svc)

	if c.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, accounts are kept in memory")
	}
	return app, nil
}

// Run serves until ctx is canceled or SIGINT/SIGTERM/SIGQUIT arrives. The
// first server to fail stops the others. The store is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer func() {
		if err := app.store.Close(); err != nil {
			app.logger.Error(ctx, "closing store", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.grpc.Run(gctx)
	})
	if app.config.MetricsAddr != "" {
		srv := ops.NewServer(app.config.MetricsAddr, ops.NewRouter(app.registry, app.store.Ping), app.logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "app stopped")
	return err
}
