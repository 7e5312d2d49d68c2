// Package store holds the observable dashboard state and fans it out to
// subscribers.
//
// This package is internal to craftboard. It keeps exactly one [State]: the
// latest server snapshot plus the loading and refreshing flags. The poller is
// its only writer; the HTTP server and SDK callers read copies.
//
// The main components are:
//
//   - [Store]: Interface defining state access and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [State]: The published value, including the [Phase] of the snapshot
//
// Subscribers receive updates via channels with non-blocking sends (slow
// subscribers will miss intermediate states rather than block the poller).
package store
