package craftboard

// Feature is one entry in the page's "Server Features" card.
type Feature struct {
	Title       string
	Description string
	Icon        string
}

// Page holds the presentation-only settings of the status page.
type Page struct {
	// Title is the display name shown as the page heading.
	Title string

	// Tagline is shown under the title.
	Tagline string

	// Background is an image URL used as the page background.
	Background string

	// Features is the static list of marketed features.
	Features []Feature
}

const (
	defaultTitle   = "Minecraft Server"
	defaultTagline = "Join the adventure today!"
)

// DefaultFeatures returns the feature list shown when none is configured.
func DefaultFeatures() []Feature {
	return []Feature{
		{
			Title:       "Survival Experience",
			Description: "Pure vanilla survival gameplay with essential commands",
			Icon:        "⚔️",
		},
		{
			Title:       "Active Community",
			Description: "Friendly players and regular community events",
			Icon:        "🏰",
		},
		{
			Title:       "Anti-Grief Protection",
			Description: "Advanced protection systems to keep your builds safe",
			Icon:        "🛡️",
		},
	}
}
