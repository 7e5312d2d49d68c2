// Package mcsrvstat talks to the mcsrvstat.us server status API and turns its
// responses into display-ready snapshots.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper that fetches one status document per call
//   - [Response]: the upstream JSON schema (all fields optional)
//   - [Normalize]: applies the defaulting rules that produce a [Snapshot]
//   - [PollError]: the single failure kind a fetch can produce
//
// Users of the craftboard library should not need to interact with this
// package directly. Polling is configured through the main craftboard package.
package mcsrvstat
