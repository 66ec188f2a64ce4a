package catalog

import (
	"strings"

	"fonthub/pkg/models"
)

// Web-safe families available without loading any stylesheet.
var websafeFamilies = []string{
	"Arial",
	"Century Gothic",
	"Courier New",
	"Georgia",
	"Helvetica",
	"Impact",
	"Lucida Console",
	"Lucida Sans Unicode",
	"Palatino Linotype",
	"sans-serif",
	"serif",
	"Tahoma",
	"Trebuchet MS",
	"Verdana",
}

// FontID derives the catalog id from a family name: lowercased, spaces
// replaced with underscores.
func FontID(family string) string {
	return strings.ToLower(strings.ReplaceAll(family, " ", "_"))
}

func builtinFonts() map[string]models.CatalogFont {
	fonts := make(map[string]models.CatalogFont, len(websafeFamilies))
	for _, family := range websafeFamilies {
		variants := []string{"400", "400italic"}
		urls := make(map[string]string, len(variants))
		for _, v := range variants {
			urls[v] = ""
		}
		fonts[FontID(family)] = models.CatalogFont{
			ID:          FontID(family),
			Name:        family,
			Source:      models.FontSourceBuiltin,
			Variants:    variants,
			Files:       map[string]string{},
			VariantURLs: urls,
		}
	}
	return fonts
}
