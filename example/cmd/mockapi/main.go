// Standalone mock status API for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockapi
//
// Then in another terminal:
//
//	go run ./cmd/craftboard serve -c example/config.yaml
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/craftboard/internal/mockapi"
)

func main() {
	fmt.Println("Mock status API starting on :9999")
	fmt.Println("Players join and leave every 10-30 seconds")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := http.ListenAndServe(":9999", mockapi.New(mockapi.WithLogger(logger))); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
