package frontend

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"fonthub/internal/options"
	"fonthub/pkg/cache"
	"fonthub/pkg/database"
	"fonthub/pkg/models"
	"fonthub/pkg/records"
)

func testRenderer(t *testing.T) (*Renderer, *options.Resolver, *options.Pipeline) {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	store := records.NewStore(db)
	c := cache.New(db, clockwork.NewFakeClock())
	registry := options.NewRegistry(nil)
	resolver := options.NewResolver(registry, store, c)
	pipeline := options.NewPipeline(registry, resolver)
	return NewRenderer(registry, resolver), resolver, pipeline
}

func TestHeadHTMLDefaultsAreEmptyBlocks(t *testing.T) {
	ctx := context.Background()
	r, _, _ := testRenderer(t)

	out, err := r.HeadHTML(ctx, false)
	require.NoError(t, err)
	require.NotContains(t, out, "<link")
	require.Contains(t, out, `<style id="body-font-styles" type="text/css">p { }</style>`)
	require.Contains(t, out, `<style id="heading_1-font-styles" type="text/css">h1 { }</style>`)
}

func TestHeadHTMLRendersDeclarations(t *testing.T) {
	ctx := context.Background()
	r, resolver, _ := testRenderer(t)

	v := models.EmptyFontValue()
	v.FontName = "Georgia"
	v.FontColor = "#112233"
	require.NoError(t, resolver.SaveStored(ctx, map[string]models.FontValue{"body": v}))

	out, err := r.HeadHTML(ctx, false)
	require.NoError(t, err)
	require.Contains(t, out,
		`<style id="body-font-styles" type="text/css">p { font-family: Georgia; color: #112233; }</style>`)
}

func TestHeadHTMLLinksSelectedStylesheets(t *testing.T) {
	ctx := context.Background()
	r, resolver, _ := testRenderer(t)

	v := models.EmptyFontValue()
	v.FontID = "lato"
	v.FontName = "Lato"
	v.FontWeightStyle = "700"
	v.StylesheetURL = "https://fonts.googleapis.com/css?family=Lato:700"
	require.NoError(t, resolver.SaveStored(ctx, map[string]models.FontValue{"body": v}))

	out, err := r.HeadHTML(ctx, false)
	require.NoError(t, err)
	require.Contains(t, out, `<link rel="stylesheet" id="lato-700-css" href="https://fonts.googleapis.com/css?family=Lato:700" type="text/css" media="all">`)
}

func TestStylesheetsDeduped(t *testing.T) {
	ctx := context.Background()
	r, resolver, _ := testRenderer(t)

	v := models.EmptyFontValue()
	v.FontID = "lato"
	v.FontWeightStyle = "400"
	v.StylesheetURL = "https://fonts.googleapis.com/css?family=Lato:400"
	// Two slots selecting the same variant produce one link.
	require.NoError(t, resolver.SaveStored(ctx, map[string]models.FontValue{
		"body":      v,
		"heading_1": v,
	}))

	sheets, err := r.Stylesheets(ctx, false)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Equal(t, "lato-400", sheets[0].Handle)
}

func TestHeadHTMLCustomizerEmitsPerPropertyBlocks(t *testing.T) {
	ctx := context.Background()
	r, resolver, _ := testRenderer(t)

	v := models.EmptyFontValue()
	v.FontColor = "#112233"
	require.NoError(t, resolver.SaveStored(ctx, map[string]models.FontValue{"body": v}))

	out, err := r.HeadHTML(ctx, true)
	require.NoError(t, err)
	require.Contains(t, out, `<style id="body-color" type="text/css">p { color: #112233; }</style>`)
	require.NotContains(t, out, "body-font-styles")
}

func TestSubmitFlowsThroughToHead(t *testing.T) {
	ctx := context.Background()
	r, resolver, pipeline := testRenderer(t)

	req := &options.Request{Payload: map[string]json.RawMessage{
		"body": json.RawMessage(`{"font_size":{"amount":"18","unit":"em"}}`),
	}}
	valid, err := pipeline.Apply(ctx, req)
	require.NoError(t, err)
	require.NoError(t, resolver.SaveStored(ctx, valid))

	effective, err := resolver.Effective(ctx, true)
	require.NoError(t, err)
	require.Equal(t, "18", effective["body"].FontSize.Amount)
	require.Equal(t, "px", effective["body"].FontSize.Unit)

	out, err := r.HeadHTML(ctx, false)
	require.NoError(t, err)
	require.Contains(t, out, "font-size: 18px; ")
}
