package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	credithandler "credito/internal/credit/handler"
	creditmetrics "credito/internal/credit/metrics"
	creditservice "credito/internal/credit/service"
	"credito/internal/platform/config"
	"credito/internal/platform/httpserver"
	"credito/internal/platform/logger"
	"credito/internal/platform/metrics"
	"credito/internal/platform/middleware"
	"credito/pkg/platform/httputil"
	"credito/pkg/platform/middleware/metadata"
	"credito/pkg/platform/middleware/requesttime"
)

// main wires the dependencies, serves HTTP and runs the event consumers
// until SIGINT or SIGTERM.
func main() {
	if err := run(); err != nil {
		slog.Error("credito stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	platformMetrics := metrics.New()

	app, err := wire(ctx, cfg, log, platformMetrics)
	if err != nil {
		return err
	}
	defer app.close(log)

	svc := creditservice.New(app.store, app.tx, app.publisher,
		creditservice.WithLogger(log),
		creditservice.WithMetrics(creditmetrics.New()),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS)
	r.Use(middleware.LatencyMiddleware(platformMetrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
	})
	r.Get("/ready", app.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	credithandler.New(svc, log).Register(r)

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting credito",
			"addr", cfg.Addr,
			"store", cfg.StoreBackend,
			"events", cfg.Events.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	if cfg.Consumer.Enabled {
		for _, c := range app.consumers {
			g.Go(func() error {
				return c.Run(gctx)
			})
		}
	}

	return g.Wait()
}

// readyTimeout bounds each dependency probe behind /ready.
const readyTimeout = 2 * time.Second

func (a *application) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := map[string]string{}
	ready := true
	for name, check := range a.checks {
		if err := check(ctx); err != nil {
			status[name] = err.Error()
			ready = false
			continue
		}
		status[name] = "UP"
	}
	if !ready {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}
