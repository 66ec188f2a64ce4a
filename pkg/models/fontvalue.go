package models

// Dimension is a numeric amount that always travels with its CSS unit.
// An empty Amount means "inherit from theme", not zero.
type Dimension struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// FontValue is the structured value attached to a typography slot.
//
// Every field defaults to the empty string, which means the theme's own
// styling is left alone. FontID refers into the catalog; FontWeightStyle
// is the combined descriptor ("700italic") used to pick a catalog variant.
type FontValue struct {
	FontID          string    `json:"font_id"`
	FontName        string    `json:"font_name"`
	FontColor       string    `json:"font_color"`
	FontWeight      string    `json:"font_weight"`
	FontStyle       string    `json:"font_style"`
	FontWeightStyle string    `json:"font_weight_style"`
	StylesheetURL   string    `json:"stylesheet_url"`
	TextDecoration  string    `json:"text_decoration"`
	TextTransform   string    `json:"text_transform"`
	LineHeight      string    `json:"line_height"`
	FontSize        Dimension `json:"font_size"`
	LetterSpacing   Dimension `json:"letter_spacing"`

	MarginTop     Dimension `json:"margin_top"`
	MarginBottom  Dimension `json:"margin_bottom"`
	MarginLeft    Dimension `json:"margin_left"`
	MarginRight   Dimension `json:"margin_right"`
	PaddingTop    Dimension `json:"padding_top"`
	PaddingBottom Dimension `json:"padding_bottom"`
	PaddingLeft   Dimension `json:"padding_left"`
	PaddingRight  Dimension `json:"padding_right"`
}

// EmptyFontValue returns the all-inherit value with px units.
func EmptyFontValue() FontValue {
	return FontValue{
		FontSize:      Dimension{Unit: "px"},
		LetterSpacing: Dimension{Unit: "px"},
	}
}
