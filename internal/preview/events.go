package preview

import "time"

const (
	// EventStyle replaces (or, with empty CSS, removes) the style
	// element with the given deterministic id.
	EventStyle = "preview.style"
	// EventStylesheet appends a stylesheet link for a newly selected
	// font variant.
	EventStylesheet = "preview.stylesheet"
	// EventReload asks the preview to do a full reload; sent for slots
	// whose transport is not live.
	EventReload = "preview.reload"
)

type Event struct {
	Type    string    `json:"type"`
	SlotID  string    `json:"slot_id,omitempty"`
	StyleID string    `json:"style_id,omitempty"`
	CSS     string    `json:"css,omitempty"`
	URL     string    `json:"url,omitempty"`
	At      time.Time `json:"at"`
}
