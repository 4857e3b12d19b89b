package models

import "time"

// Preferences stores per-user UI customization applied by the client.
type Preferences struct {
	Theme       string    `json:"theme"`                 // named theme, e.g. "dark", "midnight"
	AccentColor string    `json:"accentColor,omitempty"` // hex color override
	Autoplay    bool      `json:"autoplay"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultPreferences returns the preferences applied before a user saves any.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "dark", Autoplay: true}
}
