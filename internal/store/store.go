package store

import (
	"time"

	"github.com/jpalmerr/craftboard/internal/mcsrvstat"
)

// Phase tells whether a snapshot has ever been loaded.
type Phase string

const (
	// PhaseUnloaded means no poll has succeeded yet.
	PhaseUnloaded Phase = "unloaded"

	// PhaseLoaded means Snapshot holds the latest successful poll.
	PhaseLoaded Phase = "loaded"
)

// State is the observable dashboard state, optimized for JSON serialization
// (used by the REST API, SSE and WebSocket streams).
//
// Snapshot is non-nil if and only if Phase is [PhaseLoaded].
type State struct {
	// Address is the server address being polled, shown verbatim to users.
	Address string `json:"address"`

	// Phase is unloaded until the first successful poll.
	Phase Phase `json:"phase"`

	// Snapshot is the latest successfully normalized status.
	Snapshot *mcsrvstat.Snapshot `json:"snapshot"`

	// Loading is true until the first poll completes, successful or not.
	Loading bool `json:"is_loading"`

	// Refreshing is true while a poll is in flight.
	Refreshing bool `json:"is_refreshing"`

	// PolledAt is when the last poll completed. Zero before the first poll.
	PolledAt time.Time `json:"polled_at"`

	// UpdatedAt is when Snapshot was last replaced. Zero while unloaded.
	UpdatedAt time.Time `json:"updated_at"`

	// LastError is the failure of the most recent poll, nil if it succeeded.
	LastError *string `json:"last_error"`
}

// Initial returns the state before any poll has started.
func Initial(address string) State {
	return State{
		Address: address,
		Phase:   PhaseUnloaded,
		Loading: true,
	}
}

// Loaded returns the snapshot and true when the state holds one.
func (s State) Loaded() (mcsrvstat.Snapshot, bool) {
	if s.Phase != PhaseLoaded || s.Snapshot == nil {
		return mcsrvstat.Snapshot{}, false
	}
	return s.Snapshot.Clone(), true
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	cp := s
	if s.Snapshot != nil {
		snap := s.Snapshot.Clone()
		cp.Snapshot = &snap
	}
	if s.LastError != nil {
		msg := *s.LastError
		cp.LastError = &msg
	}
	return cp
}

// Store defines the interface for holding and subscribing to the state.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Set replaces the whole state and notifies all subscribers.
	Set(state State)

	// Get returns a copy of the current state.
	Get() State

	// Subscribe returns a channel that receives every new state.
	// The returned channel has a buffer; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan State

	// Unsubscribe removes a subscription and closes the channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan State)
}
