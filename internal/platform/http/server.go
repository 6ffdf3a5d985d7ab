// Package http builds the tuned *http.Server the API listens on.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// NewServer wraps h in an http.Server with explicit timeouts.
//
//   - ReadHeaderTimeout: bounds slow-header clients
//   - ReadTimeout/WriteTimeout: bound a whole request and response
//   - IdleTimeout: how long keep-alive connections are kept
//
// http.Server has no timeouts by default, so always build it here.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

// Run serves until ctx is cancelled and then shuts down gracefully within grace.
func Run(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
