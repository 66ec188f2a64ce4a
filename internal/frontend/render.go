// Package frontend renders the document-head output for a themed page:
// stylesheet links for every selected font variant plus one inline style
// block per typography slot.
package frontend

import (
	"context"
	"fmt"
	"html"
	"strings"

	"fonthub/internal/cssgen"
	"fonthub/internal/options"
)

type Renderer struct {
	Registry *options.Registry
	Resolver *options.Resolver
}

func NewRenderer(registry *options.Registry, resolver *options.Resolver) *Renderer {
	return &Renderer{Registry: registry, Resolver: resolver}
}

// Stylesheet is one external font stylesheet dependency.
type Stylesheet struct {
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

// Stylesheets lists the distinct stylesheet URLs the resolved options
// need, handle = "{font_id}-{font_weight_style}".
func (r *Renderer) Stylesheets(ctx context.Context, customizer bool) ([]Stylesheet, error) {
	effective, err := r.Resolver.Effective(ctx, !customizer)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []Stylesheet
	for _, v := range effective {
		if v.StylesheetURL == "" {
			continue
		}
		handle := fmt.Sprintf("%s-%s", v.FontID, v.FontWeightStyle)
		if seen[handle] {
			continue
		}
		seen[handle] = true
		out = append(out, Stylesheet{Handle: handle, URL: v.StylesheetURL})
	}
	return out, nil
}

// HeadHTML renders the full head fragment. In customizer mode every slot
// emits the per-property preview blocks so the live previewer can swap
// single properties; otherwise each slot emits one aggregated block.
func (r *Renderer) HeadHTML(ctx context.Context, customizer bool) (string, error) {
	slots, err := r.Registry.AllSlots(ctx)
	if err != nil {
		return "", err
	}
	effective, err := r.Resolver.Effective(ctx, !customizer)
	if err != nil {
		return "", err
	}
	sheets, err := r.Stylesheets(ctx, customizer)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, s := range sheets {
		fmt.Fprintf(&b, "<link rel=\"stylesheet\" id=\"%s-css\" href=%q type=\"text/css\" media=\"all\">\n",
			html.EscapeString(s.Handle), s.URL)
	}

	for _, slot := range slots {
		v := effective[slot.Name]
		if customizer {
			b.WriteString(cssgen.PreviewBlocks(v, slot.Selector, slot.Name, slot.ForceStyles))
			b.WriteString("\n")
			continue
		}
		decls := cssgen.Declarations(v, slot.ForceStyles)
		fmt.Fprintf(&b, "<style id=\"%s-font-styles\" type=\"text/css\">%s { %s}</style>\n",
			slot.Name, slot.Selector, decls)
	}
	return b.String(), nil
}
