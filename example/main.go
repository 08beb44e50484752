package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/assetboard"
	"github.com/jpalmerr/assetboard/asset"
)

func main() {
	// start mock server (see mock_server.go)
	go StartMockAssetServer(":9999")
	time.Sleep(100 * time.Millisecond)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ab, err := assetboard.New(
		assetboard.WithTitle("AssetBoard Demo"),
		assetboard.WithPort(8080),
		assetboard.WithBaseURL("http://localhost:9999/"),
		assetboard.WithAssetURL("asset?id=demo"),
		assetboard.WithInitialField1("demo"),
		assetboard.WithRefreshInterval(15*time.Second),
		assetboard.WithLogger(logger),
		assetboard.WithFetchCallback(func(r asset.FetchResult) {
			logger.Info("fetch completed",
				"seq", r.Seq,
				"outcome", r.Outcome(),
				"latency", r.Latency.String(),
			)
		}),
	)
	if err != nil {
		slog.Error("failed to create assetboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  AssetBoard Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  Asset resource: http://localhost:9999/asset?id=demo")
	fmt.Println("  Change field1 quickly to see overlapping fetches")
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ab.Start(ctx); err != nil {
		slog.Error("assetboard error", "error", err)
		os.Exit(1)
	}
}
