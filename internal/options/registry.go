// Package options declares the typography option slots (builtin plus one
// per user-created font control), resolves effective values by merging
// stored settings over defaults, and sanitizes submitted settings.
package options

import (
	"context"
	"strings"

	"fonthub/pkg/models"
)

// Section groups slots inside a settings tab.
type Section struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Tab is one settings page tab. The submit/reset form fields the
// validation pipeline looks for are named after tabs.
type Tab struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

const (
	TabTypography      = "typography"
	TabThemeTypography = "theme-typography"
)

// Tabs lists the settings page tabs in display order.
func Tabs() []Tab {
	return []Tab{
		{
			Name:  TabTypography,
			Title: "Typography",
			Sections: []Section{
				{Name: "default", Title: "Default Theme Fonts", Description: "Default theme font options"},
			},
		},
		{
			Name:  TabThemeTypography,
			Title: "Theme Typography",
			Sections: []Section{
				{Name: "custom", Title: "Custom Theme Fonts", Description: "Custom theme font options"},
			},
		},
	}
}

// ControlLister supplies the user-created controls a registry appends as
// dynamic slots. Implemented by the controls repo.
type ControlLister interface {
	List(ctx context.Context, orderBy, order string) ([]models.FontControl, error)
}

type Registry struct {
	Controls ControlLister
}

func NewRegistry(controls ControlLister) *Registry {
	return &Registry{Controls: controls}
}

func standardRanges(o *models.FontOption) {
	o.FontSizeRange = models.RangeConstraints{Min: "10", Max: "100", Step: "1"}
	o.LineHeightRange = models.RangeConstraints{Min: "0.8", Max: "4", Step: "0.1"}
	o.LetterSpacingRange = models.RangeConstraints{Min: "-5", Max: "20", Step: "1"}
}

func builtinSlot(name, title, description, selector string) models.FontOption {
	o := models.FontOption{
		Name:        name,
		Title:       title,
		Kind:        models.SlotFont,
		Description: description,
		Tab:         TabTypography,
		Section:     "default",
		Transport:   models.TransportLive,
		Selector:    selector,
		Default:     models.EmptyFontValue(),
	}
	standardRanges(&o)
	return o
}

// BuiltinSlots returns the fixed seven typography slots.
func (g *Registry) BuiltinSlots() []models.FontOption {
	return []models.FontOption{
		builtinSlot("body", "Paragraphs", "Please select a font for the theme's body and paragraph text", "p"),
		builtinSlot("heading_1", "Heading 1", "Please select a font for the theme's heading 1 styles", "h1"),
		builtinSlot("heading_2", "Heading 2", "Please select a font for the theme's heading 2 styles", "h2"),
		builtinSlot("heading_3", "Heading 3", "Please select a font for the theme's heading 3 styles", "h3"),
		builtinSlot("heading_4", "Heading 4", "Please select a font for the theme's heading 4 styles", "h4"),
		builtinSlot("heading_5", "Heading 5", "Please select a font for the theme's heading 5 styles", "h5"),
		builtinSlot("heading_6", "Heading 6", "Please select a font for the theme's heading 6 styles", "h6"),
	}
}

// AllSlots returns the builtin slots followed by one synthesized slot per
// existing font control. This append point is how user-created controls
// become option slots without further registration.
func (g *Registry) AllSlots(ctx context.Context) ([]models.FontOption, error) {
	slots := g.BuiltinSlots()

	if g.Controls == nil {
		return slots, nil
	}
	controls, err := g.Controls.List(ctx, "name", "asc")
	if err != nil {
		return nil, err
	}

	for _, c := range controls {
		selector := strings.TrimRight(strings.Join(c.Selectors, ","), ",")
		o := models.FontOption{
			Name:        c.ControlID,
			Title:       c.Name,
			Kind:        models.SlotFont,
			Description: c.Description,
			Tab:         TabTypography,
			Section:     "default",
			Transport:   models.TransportLive,
			Selector:    selector,
			ForceStyles: c.ForceStyles,
			Default:     models.EmptyFontValue(),
		}
		standardRanges(&o)
		slots = append(slots, o)
	}
	return slots, nil
}

// Slot returns the named slot, nil when absent.
func (g *Registry) Slot(ctx context.Context, name string) (*models.FontOption, error) {
	slots, err := g.AllSlots(ctx)
	if err != nil {
		return nil, err
	}
	for i := range slots {
		if slots[i].Name == name {
			return &slots[i], nil
		}
	}
	return nil, nil
}

// Defaults maps every slot id to its default value.
func (g *Registry) Defaults(ctx context.Context) (map[string]models.FontValue, error) {
	slots, err := g.AllSlots(ctx)
	if err != nil {
		return nil, err
	}
	defaults := make(map[string]models.FontValue, len(slots))
	for _, s := range slots {
		defaults[s.Name] = s.Default
	}
	return defaults, nil
}

// SettingsByTab groups slot ids by tab, plus an "all" entry spanning
// every tab.
func (g *Registry) SettingsByTab(ctx context.Context) (map[string][]string, error) {
	slots, err := g.AllSlots(ctx)
	if err != nil {
		return nil, err
	}
	byTab := make(map[string][]string)
	for _, s := range slots {
		byTab[s.Tab] = append(byTab[s.Tab], s.Name)
		byTab["all"] = append(byTab["all"], s.Name)
	}
	return byTab, nil
}
