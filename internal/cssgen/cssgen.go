// Package cssgen turns a resolved FontValue into stylesheet text: either
// one aggregated declaration block for front-end rendering, or one
// isolated <style> element per property for live-preview editing, where
// each element carries a deterministic id the preview bridge can target.
package cssgen

import (
	"fmt"
	"strings"

	"fonthub/pkg/models"
)

// property pairs a CSS property name with an emitted value. Empty values
// mean "inherit from theme" and emit nothing.
type property struct {
	name  string
	value string
}

// properties lists a value's emittable declarations in fixed order.
func properties(v models.FontValue) []property {
	props := []property{
		{"font-family", v.FontName},
		{"color", v.FontColor},
		{"font-weight", v.FontWeight},
		{"font-style", v.FontStyle},
		{"text-decoration", v.TextDecoration},
		{"line-height", v.LineHeight},
		{"font-size", dimension(v.FontSize)},
		{"letter-spacing", dimension(v.LetterSpacing)},
		{"margin-top", dimension(v.MarginTop)},
		{"margin-bottom", dimension(v.MarginBottom)},
		{"margin-left", dimension(v.MarginLeft)},
		{"margin-right", dimension(v.MarginRight)},
		{"padding-top", dimension(v.PaddingTop)},
		{"padding-bottom", dimension(v.PaddingBottom)},
		{"padding-left", dimension(v.PaddingLeft)},
		{"padding-right", dimension(v.PaddingRight)},
	}
	return props
}

func dimension(d models.Dimension) string {
	if d.Amount == "" {
		return ""
	}
	return d.Amount + d.Unit
}

func importance(force bool) string {
	if force {
		return "!important"
	}
	return ""
}

// Declarations renders the aggregated block body (no selector wrapper).
// Each emitted declaration is "prop: value[!important]; " with a trailing
// space, so blocks concatenate cleanly inside a selector wrapper.
func Declarations(v models.FontValue, force bool) string {
	var b strings.Builder
	imp := importance(force)
	for _, p := range properties(v) {
		if p.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s%s; ", p.name, p.value, imp)
	}
	return b.String()
}

// StyleBlockID is the deterministic element id for one slot property's
// preview block.
func StyleBlockID(slotID, prop string) string {
	return slotID + "-" + prop
}

// PreviewBlock renders the single-property form for one property, or the
// empty string when the value is empty (callers remove the node instead).
func PreviewBlock(slotID, prop, value, selector string, force bool) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("<style id=%q type=\"text/css\">%s { %s: %s%s; }</style>",
		StyleBlockID(slotID, prop), selector, prop, value, importance(force))
}

// PreviewBlocks renders one isolated style element per non-empty
// property, in the same fixed order as Declarations.
func PreviewBlocks(v models.FontValue, selector, slotID string, force bool) string {
	var b strings.Builder
	for _, p := range properties(v) {
		b.WriteString(PreviewBlock(slotID, p.name, p.value, selector, force))
	}
	return b.String()
}

// PropertyValue extracts one named property's emitted value from v, using
// the same names the preview blocks carry. Unknown names return "".
func PropertyValue(v models.FontValue, prop string) string {
	for _, p := range properties(v) {
		if p.name == prop {
			return p.value
		}
	}
	return ""
}

// PropertyNames lists every property the engine can emit, in order.
func PropertyNames() []string {
	props := properties(models.FontValue{})
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.name
	}
	return names
}
