package models

import "time"

// FontControl is a user-created named group of CSS selectors sharing one
// set of typography settings. ControlID is assigned at creation and
// immutable;
// RecordID is the storage layer's identity for the backing record.
type FontControl struct {
	RecordID    int64     `json:"record_id"`
	ControlID   string    `json:"control_id"`
	Name        string    `json:"name"`
	Selectors   []string  `json:"selectors"`
	Description string    `json:"description"`
	ForceStyles bool      `json:"force_styles"`
	CreatedAt   time.Time `json:"created_at"`
}
