package models

// FontSource tells where a catalog entry came from.
type FontSource string

const (
	FontSourceBuiltin FontSource = "builtin"
	FontSourceRemote  FontSource = "remote"
)

// CatalogFont is one selectable font with its weight/style variants.
// VariantURLs maps a variant descriptor ("400", "700italic") to the
// stylesheet URL that loads it; builtin web-safe fonts carry empty URLs.
type CatalogFont struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Source      FontSource        `json:"font_type"`
	Variants    []string          `json:"font_weights"`
	Files       map[string]string `json:"files,omitempty"`
	VariantURLs map[string]string `json:"urls"`
	Subsets     []string          `json:"subsets,omitempty"`
}
