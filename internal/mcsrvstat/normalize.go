package mcsrvstat

const (
	// UnknownVersion is shown when the API does not report a version.
	UnknownVersion = "Unknown"

	// DefaultDescription is shown when the API reports no MOTD.
	DefaultDescription = "Welcome to our Minecraft server!"
)

// Snapshot is the normalized, display-ready result of one successful poll.
//
// Players.Online and Players.Max are always set and Players.List is never nil,
// so the presentation layer never has to apply defaults of its own.
type Snapshot struct {
	Online      bool          `json:"online"`
	Players     PlayerSummary `json:"players"`
	Version     string        `json:"version"`
	Description string        `json:"description"`
}

// PlayerSummary is the normalized player block of a [Snapshot].
type PlayerSummary struct {
	Online int      `json:"online"`
	Max    int      `json:"max"`
	List   []string `json:"list"`
}

// Normalize converts an upstream [Response] into a [Snapshot].
//
// Missing or non-positive counts become 0, a missing list becomes empty, an
// empty version becomes [UnknownVersion] and a missing or empty first MOTD line
// becomes [DefaultDescription]. The player list is copied.
func Normalize(r Response) Snapshot {
	snap := Snapshot{
		Online:      r.Online,
		Players:     PlayerSummary{List: []string{}},
		Version:     UnknownVersion,
		Description: DefaultDescription,
	}

	if r.Players != nil {
		snap.Players.Online = nonNegative(r.Players.Online)
		snap.Players.Max = nonNegative(r.Players.Max)
		if len(r.Players.List) > 0 {
			snap.Players.List = append([]string(nil), r.Players.List...)
		}
	}

	if r.Version != "" {
		snap.Version = r.Version
	}

	if r.MOTD != nil && len(r.MOTD.Clean) > 0 && r.MOTD.Clean[0] != "" {
		snap.Description = r.MOTD.Clean[0]
	}

	return snap
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cp := s
	cp.Players.List = append(make([]string, 0, len(s.Players.List)), s.Players.List...)
	return cp
}

func nonNegative(n *int) int {
	if n == nil || *n < 0 {
		return 0
	}
	return *n
}
