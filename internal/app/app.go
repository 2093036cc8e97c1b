package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/keepnotes/internal/auth"
	"github.com/heartmarshall/keepnotes/internal/config"
	authsvc "github.com/heartmarshall/keepnotes/internal/service/auth"
	"github.com/heartmarshall/keepnotes/internal/service/note"
	"github.com/heartmarshall/keepnotes/internal/service/tag"
	"github.com/heartmarshall/keepnotes/internal/transport/middleware"
	"github.com/heartmarshall/keepnotes/internal/transport/rest"
)

// App is the assembled HTTP server with its stores.
type App struct {
	cfg     config.Config
	log     *slog.Logger
	notes   *note.Store
	tags    *tag.Registry
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New wires stores, services, handlers and middleware from cfg.
func New(cfg config.Config, logger *slog.Logger) *App {
	registry := newRegistry()
	observer := newCommandMetrics(registry)

	notes := note.NewStore(logger, note.WithObserver(observer))
	tags := tag.NewRegistry(logger, cfg.Tags.Defaults, observer)
	registerStoreGauges(registry, notes, tags)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	}

	var (
		authMW  middleware.Middleware
		authSvc *authsvc.Service
	)
	if cfg.Auth.Enabled {
		jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
		authSvc = authsvc.NewService(logger, jwt, cfg.Auth)
		authMW = middleware.Auth(authSvc, true)
	}

	maxBytes := cfg.Server.MaxBodyBytes
	handler := newRouter(routerDeps{
		cfg:      cfg,
		log:      logger,
		notes:    rest.NewNotesHandler(notes, logger, maxBytes),
		tags:     rest.NewTagsHandler(tags, logger, maxBytes),
		login:    rest.NewAuthHandler(authSvc, logger),
		health:   rest.NewHealthHandler(notes, tags, BuildVersion()),
		auth:     authMW,
		limiter:  limiter,
		registry: registry,
	})

	return &App{
		cfg:     cfg,
		log:     logger,
		notes:   notes,
		tags:    tags,
		limiter: limiter,
		handler: handler,
	}
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Serve listens on the configured address until ctx is cancelled, then
// drains in-flight requests within the shutdown timeout and closes the
// stores.
func (a *App) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	defer a.Close()

	srv := &http.Server{
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.log.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("http server listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close stops background work and closes both stores. Safe to call twice.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	a.notes.Close()
	a.tags.Close()
}

// Run is the server entry point. It loads configuration, initializes the
// logger and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting keepnotes",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("auth", cfg.Auth.Enabled),
	)

	return New(*cfg, logger).Serve(ctx)
}
