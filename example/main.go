package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/craftboard"
	"github.com/jpalmerr/craftboard/internal/mockapi"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// local stand-in for api.mcsrvstat.us with players coming and going
	go func() {
		if err := http.ListenAndServe(":9999", mockapi.New(mockapi.WithLogger(logger))); err != nil {
			logger.Error("mock api error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	cb, err := craftboard.New("play.example.net",
		craftboard.WithTitle("Blockville"),
		craftboard.WithTagline("Join the adventure today!"),
		craftboard.WithAPIBaseURL("http://localhost:9999/2/"),
		craftboard.WithPollingInterval(5*time.Second),
		craftboard.WithPort(8080),
		craftboard.WithLogger(logger),
		craftboard.WithPollCallback(func(r craftboard.PollResult) {
			if r.Err == nil && !r.Snapshot.Online {
				logger.Warn("server is offline", "address", r.Address)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create craftboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   craftboard Demo                                     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Simulated server polled every 5s                    ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cb.Start(ctx); err != nil {
		slog.Error("craftboard error", "error", err)
		os.Exit(1)
	}
}
