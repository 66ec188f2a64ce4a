package models

// SlotKind selects the validation and rendering strategy for a slot.
type SlotKind string

const (
	SlotFont      SlotKind = "font"       // full typography control
	SlotFontBasic SlotKind = "font_basic" // lightweight control, no dimensions
	SlotCustom    SlotKind = "custom"     // opaque, passed through untouched
)

// Transport determines how a slot's changes reach an open preview:
// a live DOM patch over the preview channel, or a full reload.
type Transport string

const (
	TransportLive   Transport = "live"
	TransportReload Transport = "reload"
)

// RangeConstraints are the numeric bounds offered by the UI for one
// dimension. They constrain input only; stored values are strings.
type RangeConstraints struct {
	Min  string `json:"min"`
	Max  string `json:"max"`
	Step string `json:"step"`
}

// FontOption is one configurable typography slot, either builtin
// (body, headings) or synthesized from a user-created FontControl.
type FontOption struct {
	Name        string    `json:"name"` // slot id, unique across builtin + custom
	Title       string    `json:"title"`
	Kind        SlotKind  `json:"type"`
	Description string    `json:"description"`
	Tab         string    `json:"tab"`
	Section     string    `json:"section"`
	Transport   Transport `json:"transport"`

	Selector    string `json:"selector"` // comma-joined CSS selectors
	ForceStyles bool   `json:"force_styles"`

	FontSizeRange      RangeConstraints `json:"font_size_range"`
	LineHeightRange    RangeConstraints `json:"line_height_range"`
	LetterSpacingRange RangeConstraints `json:"letter_spacing_range"`

	Default FontValue `json:"default"`
}
