// Package craftboard provides an embeddable live status page for a single
// Minecraft server.
//
// craftboard polls a public server status API (mcsrvstat.us by default) on a
// fixed interval, normalizes each response into a display-ready [Snapshot],
// and serves a single web page that shows whether the server is online, who
// is playing, its version and message of the day, and a list of marketed
// features. Connected browsers receive updates as they happen.
//
// # Quick Start
//
//	cb, _ := craftboard.New("play.example.net",
//	    craftboard.WithTitle("Blockville"),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	cb.Start(ctx) // blocks until context is cancelled
//
// # Polling
//
// The first poll runs as soon as [Craftboard.Start] is called, then one poll
// runs every 60 seconds (see [WithPollingInterval]). A poll that fails for any
// reason (network error, HTTP error status, malformed body) is logged and
// leaves the previous snapshot in place; the page keeps showing the last good
// data. [Craftboard.Refresh] runs an extra poll without moving the schedule.
//
// # Architecture
//
// craftboard consists of several internal packages (under internal/):
//
//   - internal/mcsrvstat: Status API client and response normalization
//   - internal/poller: The fixed-interval polling cycle
//   - internal/store: Observable state with pub/sub
//   - internal/server: Status page, REST API, Server-Sent Events and WebSocket
//   - dashboard: Embedded page template
//
// The internal packages are not part of the public API and may change
// without notice.
package craftboard
