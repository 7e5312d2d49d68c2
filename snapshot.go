package craftboard

import "time"

// Snapshot is the normalized status of the server from one successful poll.
//
// Players.Online and Players.Max default to 0, Players.List to an empty slice,
// Version to "Unknown" and Description to a fixed greeting when the status API
// omits them.
type Snapshot struct {
	// Online is true if the status API reports the server reachable.
	Online bool

	// Players summarizes who is connected.
	Players Players

	// Version is the server's reported version string.
	Version string

	// Description is the first line of the server's message of the day.
	Description string
}

// Players is the player block of a [Snapshot].
type Players struct {
	Online int
	Max    int

	// List holds player names in the order the status API returned them.
	List []string
}

// Phase tells whether a [Snapshot] has been loaded yet.
type Phase string

const (
	// PhaseUnloaded means no poll has succeeded yet.
	PhaseUnloaded Phase = "unloaded"

	// PhaseLoaded means a snapshot is available.
	PhaseLoaded Phase = "loaded"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// State is the observable dashboard state: the latest snapshot plus the
// loading and refreshing flags.
type State struct {
	// Address is the polled server address.
	Address string

	// Phase is [PhaseUnloaded] until the first successful poll.
	Phase Phase

	// Loading is true until the first poll completes, successful or not.
	Loading bool

	// Refreshing is true while a poll is in flight.
	Refreshing bool

	// PolledAt is when the last poll completed.
	PolledAt time.Time

	// UpdatedAt is when the snapshot was last replaced.
	UpdatedAt time.Time

	// LastError describes why the most recent poll failed. Empty after a
	// successful poll.
	LastError string

	snapshot *Snapshot
}

// Snapshot returns the latest snapshot and true, or false while unloaded.
func (s State) Snapshot() (Snapshot, bool) {
	if s.snapshot == nil {
		return Snapshot{}, false
	}
	return copySnapshot(*s.snapshot), true
}

// Trigger records why a poll ran.
type Trigger string

const (
	TriggerInitial   Trigger = "initial"
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// PollResult holds the outcome of a single poll, successful or not.
//
// PollResult is passed to callbacks registered with [WithPollCallback]. It
// carries the failure reason, which the status page itself never shows.
type PollResult struct {
	// ID correlates this poll with its log lines.
	ID string

	// Address is the server address that was polled.
	Address string

	// Trigger is what started the poll.
	Trigger Trigger

	// Snapshot is the normalized status. Zero value when Err is set.
	Snapshot Snapshot

	// Err is nil on success.
	Err error

	// Latency is the time spent fetching.
	Latency time.Duration

	// CheckedAt is when the poll completed.
	CheckedAt time.Time
}

func copySnapshot(s Snapshot) Snapshot {
	s.Players.List = append(make([]string, 0, len(s.Players.List)), s.Players.List...)
	return s
}
