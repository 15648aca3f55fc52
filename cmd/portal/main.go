package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/caportal/portal/internal/api"
	"github.com/caportal/portal/internal/api/handler"
	"github.com/caportal/portal/internal/api/metrics"
	"github.com/caportal/portal/internal/api/middleware"
	"github.com/caportal/portal/internal/core/ports"
	"github.com/caportal/portal/internal/core/state"
	"github.com/caportal/portal/internal/infrastructure/apiclient"
	"github.com/caportal/portal/internal/infrastructure/config"
	mongostore "github.com/caportal/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/caportal/portal/internal/infrastructure/db/redis"
	sqlitestore "github.com/caportal/portal/internal/infrastructure/db/sqlite"
	"github.com/caportal/portal/internal/infrastructure/sessionstore"
	"github.com/caportal/portal/pkg/logger"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

// @title        CA Portal
// @version      1.0
// @description  Client-services portal: admin and client screens rendered as JSON view models.
// @BasePath     /

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "portal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})

	sessions, checks, closeStorage, err := openSessionStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	checks["backend"] = backendCheck(cfg.API.BaseURL, transport)
	factory := apiclient.Containers(
		apiclient.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout},
		transport,
		sessions,
		logger.Component("store"),
		metrics.StoreRecorder{},
	)
	registry := state.NewRegistry(factory, cfg.Session.IdleTTL, metrics.ActiveSessions, logger.Component("registry"))
	go registry.Run(ctx, sweepInterval)

	e := api.NewRouter(api.Deps{
		Registry: registry,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.Cookie,
			Secure: !cfg.IsDevelopment(),
			MaxAge: cfg.Session.IdleTTL,
		},
		Checks: checks,
		Log:    logger.Component("http"),
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: e}
	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", cfg.API.BaseURL).
			Str("session_store", cfg.Session.Store).
			Msg("portal listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("listen: %w", err)
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	transport.CloseIdleConnections()
	log.Info().Msg("portal stopped")
	return nil
}

// openSessionStorage connects the configured session backend and returns it
// with its readiness checks and a func releasing it.
func openSessionStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.SessionStorage, map[string]handler.Pinger, func(), error) {
	checks := map[string]handler.Pinger{}
	noop := func() {}

	switch cfg.Session.Store {
	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		store := redisstore.NewSessionStore(client, cfg.Session.IdleTTL)
		checks["redis"] = store
		return store, checks, func() { _ = client.Close() }, nil

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		repo := mongostore.NewSessionRepository(db, cfg.Session.IdleTTL)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure session indexes")
		}
		checks["mongodb"] = repo
		return repo, checks, func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(ctx)
		}, nil

	case config.StoreSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		store := sqlitestore.NewSessionStore(db, cfg.Session.IdleTTL)
		go store.Run(ctx, sweepInterval)
		checks["sqlite"] = store
		return store, checks, func() { _ = db.Close() }, nil

	case config.StoreFile:
		path := cfg.Session.File
		if path == "" {
			p, err := sessionstore.DefaultPath()
			if err != nil {
				return nil, nil, nil, err
			}
			path = p
		}
		return sessionstore.NewFile(path, cfg.Session.Secret), checks, noop, nil

	default:
		log.Warn().Msg("sessions are kept in memory and are lost on restart")
		return sessionstore.NewMemory(), checks, noop, nil
	}
}

// backendCheck is up when the backend answers at all; any status will do.
func backendCheck(baseURL string, rt http.RoundTripper) handler.Pinger {
	client := &http.Client{Transport: rt}
	return handler.PingFunc(func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		return resp.Body.Close()
	})
}
