// Command plantctl is the admin command line for the plant storefront.
package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("plantctl failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
