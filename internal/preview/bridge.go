package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fonthub/internal/cssgen"
	"fonthub/internal/options"
	"fonthub/pkg/models"
)

// Bridge holds the live-editing working copy of every slot's value. Each
// single-property change is applied under one lock, rendered through the
// per-property style form and broadcast, so the most recent change to a
// given (slot, property) pair always wins.
type Bridge struct {
	Hub      *Hub
	Registry *options.Registry
	Resolver *options.Resolver

	mu     sync.Mutex
	values map[string]models.FontValue
}

func NewBridge(hub *Hub, registry *options.Registry, resolver *options.Resolver) *Bridge {
	return &Bridge{Hub: hub, Registry: registry, Resolver: resolver}
}

// session returns the working copy, seeding it from the resolver with the
// cache bypassed: a live-editing session always starts from fresh state.
func (b *Bridge) session(ctx context.Context) (map[string]models.FontValue, error) {
	if b.values != nil {
		return b.values, nil
	}
	effective, err := b.Resolver.Effective(ctx, false)
	if err != nil {
		return nil, err
	}
	b.values = effective
	return b.values, nil
}

// Reset discards the session working copy; the next change re-seeds.
func (b *Bridge) Reset() {
	b.mu.Lock()
	b.values = nil
	b.mu.Unlock()
}

// fieldProp maps a submitted value field to the CSS property whose
// preview block it drives. stylesheet_url is absent: it patches a link
// element, not a style block.
var fieldProp = map[string]string{
	"font_name":             "font-family",
	"font_color":            "color",
	"font_weight":           "font-weight",
	"font_style":            "font-style",
	"text_decoration":       "text-decoration",
	"line_height":           "line-height",
	"font_size_amount":      "font-size",
	"letter_spacing_amount": "letter-spacing",
	"margin_top_amount":     "margin-top",
	"margin_bottom_amount":  "margin-bottom",
	"margin_left_amount":    "margin-left",
	"margin_right_amount":   "margin-right",
	"padding_top_amount":    "padding-top",
	"padding_bottom_amount": "padding-bottom",
	"padding_left_amount":   "padding-left",
	"padding_right_amount":  "padding-right",
}

func applyField(v *models.FontValue, field, value string) error {
	switch field {
	case "font_id":
		v.FontID = value
	case "font_name":
		v.FontName = value
	case "font_color":
		v.FontColor = value
	case "font_weight":
		v.FontWeight = value
	case "font_style":
		v.FontStyle = value
	case "font_weight_style":
		v.FontWeightStyle = value
	case "stylesheet_url":
		v.StylesheetURL = value
	case "text_decoration":
		v.TextDecoration = value
	case "text_transform":
		v.TextTransform = value
	case "line_height":
		v.LineHeight = value
	case "font_size_amount":
		v.FontSize.Amount = value
	case "letter_spacing_amount":
		v.LetterSpacing.Amount = value
	case "margin_top_amount":
		v.MarginTop.Amount = value
	case "margin_bottom_amount":
		v.MarginBottom.Amount = value
	case "margin_left_amount":
		v.MarginLeft.Amount = value
	case "margin_right_amount":
		v.MarginRight.Amount = value
	case "padding_top_amount":
		v.PaddingTop.Amount = value
	case "padding_bottom_amount":
		v.PaddingBottom.Amount = value
	case "padding_left_amount":
		v.PaddingLeft.Amount = value
	case "padding_right_amount":
		v.PaddingRight.Amount = value
	default:
		return fmt.Errorf("preview: unknown field %q", field)
	}
	return nil
}

// Change applies one field change to a slot's working value and pushes
// the resulting patch to every connected preview. Unknown slots return
// an error the handler maps to not-found.
func (b *Bridge) Change(ctx context.Context, slotID, field, value string) error {
	slot, err := b.Registry.Slot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return fmt.Errorf("preview: unknown slot %q", slotID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	values, err := b.session(ctx)
	if err != nil {
		return err
	}

	v := values[slotID]
	if err := applyField(&v, field, value); err != nil {
		return err
	}
	values[slotID] = v

	if slot.Transport != models.TransportLive {
		b.Hub.BroadcastJSON(Event{Type: EventReload, SlotID: slotID, At: time.Now()})
		return nil
	}

	if field == "stylesheet_url" {
		if value != "" {
			b.Hub.BroadcastJSON(Event{Type: EventStylesheet, SlotID: slotID, URL: value, At: time.Now()})
		}
		return nil
	}

	prop, ok := fieldProp[field]
	if !ok {
		// Stored-only fields (font_id, weight/style descriptor,
		// text_transform) have no style block of their own.
		return nil
	}

	css := cssgen.PreviewBlock(slotID, prop, cssgen.PropertyValue(v, prop), slot.Selector, slot.ForceStyles)
	b.Hub.BroadcastJSON(Event{
		Type:    EventStyle,
		SlotID:  slotID,
		StyleID: cssgen.StyleBlockID(slotID, prop),
		CSS:     css,
		At:      time.Now(),
	})
	return nil
}
