// Package server wires configuration, storage, services and transports
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/logging"
	"github.com/dmitrijs2005/handlekeeper/internal/server/auth"
	"github.com/dmitrijs2005/handlekeeper/internal/server/config"
	"github.com/dmitrijs2005/handlekeeper/internal/server/httpserver"
	"github.com/dmitrijs2005/handlekeeper/internal/server/linking"
	"github.com/dmitrijs2005/handlekeeper/internal/server/metrics"
	"github.com/dmitrijs2005/handlekeeper/internal/server/poller"
	"github.com/dmitrijs2005/handlekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/handlekeeper/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	http      *httpserver.HTTPServer
	scheduler *poller.Scheduler
	closers   []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app := &App{config: c, logger: logger, db: db, closers: []func() error{db.Close}}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, err
	}

	m := metrics.New(nil)
	tokens := auth.NewTokenManager([]byte(c.TokenSecret), c.TokenTTL)
	profiles := services.NewProfileCache(c.ProfileCacheSize, c.ProfileCacheTTL)

	deps := httpserver.Deps{
		Accounts: services.NewAccountService(db, rm, tokens, auth.NewHasher(auth.BcryptCost), profiles, logger),
		Projects: services.NewProjectService(db, rm, logger),
		Tokens:   tokens,
		DB:       db,
		Metrics:  m,
		Logger:   logger,
	}
	if c.Link.Enabled() {
		deps.Linker = linking.NewProvider(c.Link, &http.Client{Timeout: 10 * time.Second})
		deps.RedirectHosts = c.Link.RedirectHosts
		logger.Info(ctx, "Account linking enabled", "auth_url", c.Link.AuthURL)
	}
	app.http = httpserver.NewHTTPServer(c.HTTPAddr, c.ShutdownTimeout, deps)

	if c.PollerEnabled() {
		if err := app.initPoller(ctx, m); err != nil {
			app.close()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) initPoller(ctx context.Context, m *metrics.Metrics) error {
	var store poller.SnapshotStore = poller.NewMemoryStore()
	if app.config.RedisURL != "" {
		rs, err := poller.NewRedisStore(ctx, app.config.RedisURL, "")
		if err != nil {
			return err
		}
		app.closers = append(app.closers, rs.Close)
		store = rs
	}

	fetcher := poller.NewHTTPFetcher(app.config.CommentFeedURL, &http.Client{Timeout: 30 * time.Second})
	p := poller.New(fetcher, store, poller.NewLogNotifier(app.logger), m, app.logger)

	s, err := poller.NewScheduler(app.config.PollSchedule, p, app.logger)
	if err != nil {
		return err
	}
	app.scheduler = s
	return nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i]()
	}
}

// Run blocks until SIGINT/SIGTERM or until the HTTP server fails. A
// failure of one component stops the others.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.http.Run(gctx)
	})

	if app.scheduler != nil {
		g.Go(func() error {
			app.scheduler.Run(gctx)
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		app.logger.Error(context.WithoutCancel(ctx), "app stopped with error", "error", err.Error())
	} else {
		app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	}
	return err
}
