// Package server provides the HTTP server for the craftboard status page.
//
// This package is internal to craftboard and handles all HTTP concerns:
//
//   - Status page: server-rendered HTML at "/" with the current state inlined
//   - REST API: JSON state at "/api/status" and manual refresh at "/api/refresh"
//   - Live updates: Server-Sent Events at "/api/sse" and WebSocket at "/api/ws"
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the craftboard library should not need to interact with this
// package directly. The server is started by [craftboard.Craftboard.Start].
package server
