package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/automata"
	httpadapter "github.com/aretw0/automata/pkg/adapters/http"
	"github.com/aretw0/automata/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr     string
	Engine   *automata.Engine
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// NewServeHandler wires the HTTP adapter with metrics.
func NewServeHandler(opts ServeOptions) http.Handler {
	handlerOpts := []httpadapter.Option{httpadapter.WithLogger(opts.Logger)}
	if opts.Registry != nil {
		handlerOpts = append(handlerOpts, httpadapter.WithMetricsHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}
	if opts.Metrics != nil {
		handlerOpts = append(handlerOpts, httpadapter.WithParseErrorHook(opts.Metrics.ObserveParseError))
	}
	return httpadapter.NewHandler(opts.Engine, handlerOpts...)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, opts ServeOptions) error {
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           NewServeHandler(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		opts.Logger.Info("Starting automata server", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		opts.Logger.Info("Shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		opts.Logger.Info("Server stopped gracefully")
		return nil
	}
}
