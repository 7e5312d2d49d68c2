package mcsrvstat

// Response is the subset of the mcsrvstat.us v2 status document that the
// dashboard consumes. Every field is optional upstream; pointers and nil
// slices distinguish "absent" from zero values so [Normalize] can default them.
type Response struct {
	Online   bool     `json:"online"`
	Hostname string   `json:"hostname,omitempty"`
	IP       string   `json:"ip,omitempty"`
	Port     int      `json:"port,omitempty"`
	Version  string   `json:"version,omitempty"`
	Players  *Players `json:"players,omitempty"`
	MOTD     *MOTD    `json:"motd,omitempty"`
}

// Players is the upstream player block.
type Players struct {
	Online *int     `json:"online,omitempty"`
	Max    *int     `json:"max,omitempty"`
	List   []string `json:"list,omitempty"`
}

// MOTD holds the message of the day in the renderings the API provides.
// Only Clean is used; each element is one line with formatting codes removed.
type MOTD struct {
	Raw   []string `json:"raw,omitempty"`
	Clean []string `json:"clean,omitempty"`
	HTML  []string `json:"html,omitempty"`
}
