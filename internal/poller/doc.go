// Package poller implements the status polling cycle for craftboard.
//
// This package is internal to craftboard. A [Poller] fetches the status of one
// server immediately on start and then on a fixed interval, normalizes it via
// a [Fetcher], and publishes loading/refreshing transitions and snapshots to a
// store. Failed polls are logged and reported through the result hook; they
// never replace the last good snapshot.
//
// Users of the craftboard library should not need to interact with this
// package directly. Configuration is done through the main craftboard package.
package poller
