package options

import (
	"context"
	"encoding/json"
	"html"
	"net/url"
	"regexp"

	"fonthub/pkg/models"
)

// SubmitType is the intent of one settings submission.
type SubmitType string

const (
	SubmitSave  SubmitType = "submit"
	SubmitReset SubmitType = "reset"
)

// Request carries one settings submission through the pipeline. The host
// surface may apply the same request several times (once per dependent
// setting registration); the validated guard makes the core logic run
// exactly once and later calls return the first result unchanged. The
// guard lives on the request, never on the process.
type Request struct {
	Payload    map[string]json.RawMessage
	Customizer bool

	validated bool
	result    map[string]models.FontValue
}

// Pipeline sanitizes submitted settings against the registry's slots.
type Pipeline struct {
	Registry *Registry
	Resolver *Resolver
}

func NewPipeline(registry *Registry, resolver *Resolver) *Pipeline {
	return &Pipeline{Registry: registry, Resolver: resolver}
}

// Apply validates req and returns the full settings map to store.
// Slots outside the submitted tab keep their current values.
func (p *Pipeline) Apply(ctx context.Context, req *Request) (map[string]models.FontValue, error) {
	if req.validated {
		return req.result, nil
	}

	// Baseline is the current effective state, cache bypassed: the
	// submission must merge onto what is stored right now.
	valid, err := p.Resolver.Effective(ctx, false)
	if err != nil {
		return nil, err
	}
	defaults, err := p.Registry.Defaults(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := p.Registry.AllSlots(ctx)
	if err != nil {
		return nil, err
	}
	slotByName := make(map[string]models.FontOption, len(slots))
	for _, s := range slots {
		slotByName[s.Name] = s
	}
	byTab, err := p.Registry.SettingsByTab(ctx)
	if err != nil {
		return nil, err
	}

	submitType := submitTypeOf(req.Payload)
	activeTab := activeTabOf(req.Payload)

	// The Customizer operates over the full cross-tab slot set.
	inScope := byTab[activeTab]
	if req.Customizer {
		inScope = byTab["all"]
	}

	for _, name := range inScope {
		def := defaults[name]
		slot := slotByName[name]

		if submitType == SubmitReset {
			valid[name] = def
			continue
		}

		raw, ok := req.Payload[name]
		if !ok {
			// Absent from the payload entirely: default, not unset.
			valid[name] = def
			continue
		}

		var submitted models.FontValue
		if err := json.Unmarshal(raw, &submitted); err != nil {
			// Malformed shape is treated as absent, never as a
			// rejection of the whole submission.
			valid[name] = def
			continue
		}

		switch slot.Kind {
		case models.SlotFont:
			valid[name] = sanitizeFontValue(submitted, def, true)
		case models.SlotFontBasic:
			valid[name] = sanitizeFontValue(submitted, def, false)
		default:
			// Opaque custom slots pass through untouched.
			valid[name] = submitted
		}
	}

	req.validated = true
	req.result = valid
	return valid, nil
}

// sanitizeFontValue cleans every sub-field independently. Units are never
// taken from input; the slot default's units always win. withDimensions
// is false for the lightweight basic variant, which carries no size or
// spacing fields.
func sanitizeFontValue(in, def models.FontValue, withDimensions bool) models.FontValue {
	out := models.FontValue{
		FontID:          escAttr(in.FontID),
		FontName:        escAttr(in.FontName),
		FontColor:       sanitizeHexColor(in.FontColor),
		FontWeight:      escAttr(in.FontWeight),
		FontStyle:       escAttr(in.FontStyle),
		FontWeightStyle: escAttr(in.FontWeightStyle),
		StylesheetURL:   sanitizeURL(in.StylesheetURL),
		TextDecoration:  escAttr(in.TextDecoration),
		TextTransform:   escAttr(in.TextTransform),
	}
	if !withDimensions {
		out.LineHeight = def.LineHeight
		out.FontSize = def.FontSize
		out.LetterSpacing = def.LetterSpacing
		return out
	}

	out.LineHeight = escAttr(in.LineHeight)
	out.FontSize = models.Dimension{Amount: escAttr(in.FontSize.Amount), Unit: def.FontSize.Unit}
	out.LetterSpacing = models.Dimension{Amount: escAttr(in.LetterSpacing.Amount), Unit: def.LetterSpacing.Unit}

	out.MarginTop = sanitizeDimension(in.MarginTop, def.MarginTop)
	out.MarginBottom = sanitizeDimension(in.MarginBottom, def.MarginBottom)
	out.MarginLeft = sanitizeDimension(in.MarginLeft, def.MarginLeft)
	out.MarginRight = sanitizeDimension(in.MarginRight, def.MarginRight)
	out.PaddingTop = sanitizeDimension(in.PaddingTop, def.PaddingTop)
	out.PaddingBottom = sanitizeDimension(in.PaddingBottom, def.PaddingBottom)
	out.PaddingLeft = sanitizeDimension(in.PaddingLeft, def.PaddingLeft)
	out.PaddingRight = sanitizeDimension(in.PaddingRight, def.PaddingRight)
	return out
}

func sanitizeDimension(in, def models.Dimension) models.Dimension {
	unit := def.Unit
	if unit == "" {
		unit = "px"
	}
	return models.Dimension{Amount: escAttr(in.Amount), Unit: unit}
}

func submitTypeOf(payload map[string]json.RawMessage) SubmitType {
	for _, tab := range Tabs() {
		if flagSet(payload["reset-"+tab.Name]) {
			return SubmitReset
		}
	}
	return SubmitSave
}

func activeTabOf(payload map[string]json.RawMessage) string {
	active := TabTypography
	for _, tab := range Tabs() {
		if flagSet(payload["submit-"+tab.Name]) || flagSet(payload["reset-"+tab.Name]) {
			active = tab.Name
		}
	}
	return active
}

// flagSet mirrors loose truthiness for form flags: absent, null, false,
// zero and the empty string are unset.
func flagSet(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", "0", `""`, `"0"`:
		return false
	}
	return true
}

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func escAttr(s string) string {
	return html.EscapeString(s)
}

func sanitizeHexColor(s string) string {
	if hexColorRe.MatchString(s) {
		return s
	}
	return ""
}

func sanitizeURL(s string) string {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
