package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// serve blocks until stop fires or the listener fails. A listener failure is
// returned; a stop drains connections for at most grace.
func serve(server *http.Server, stop <-chan os.Signal, grace time.Duration) error {

	serverErr := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("listening on %s: %w", server.Addr, err)
	case <-stop:
	}

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
		return nil
	}

	slog.Info("✅ Server shut down gracefully. All connections closed.")

	return nil
}
