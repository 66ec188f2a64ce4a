// Package catalog resolves the list of fonts available for selection:
// builtin web-safe families plus the remote directory, fetched from a
// Google-webfonts-shaped API with a bundled snapshot as offline fallback.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fonthub/pkg/cache"
	"fonthub/pkg/models"
	"fonthub/pkg/records"
)

const (
	cacheBuiltinFonts = "builtin_fonts"
	cacheRemoteFonts  = "remote_fonts"
	fontCacheTTL      = 14 * 24 * time.Hour

	optionAPIKey = "google_api_key"
)

//go:embed webfonts.json
var fallbackJSON []byte

// apiResponse is the remote directory's wire shape. A present "error"
// member means the request was rejected even if transport succeeded.
type apiResponse struct {
	Items []struct {
		Family   string            `json:"family"`
		Variants []string          `json:"variants"`
		Files    map[string]string `json:"files"`
		Subsets  []string          `json:"subsets"`
	} `json:"items"`
	Error json.RawMessage `json:"error"`
}

type Provider struct {
	Store  *records.Store
	Cache  *cache.Cache
	Client *http.Client

	APIURL string // directory endpoint
	CSSURL string // per-variant stylesheet base
}

func NewProvider(store *records.Store, c *cache.Cache, apiURL, cssURL string) *Provider {
	return &Provider{
		Store:  store,
		Cache:  c,
		Client: &http.Client{Timeout: 12 * time.Second},
		APIURL: apiURL,
		CSSURL: cssURL,
	}
}

// BuiltinFonts returns the web-safe families keyed by font id.
func (p *Provider) BuiltinFonts(ctx context.Context) (map[string]models.CatalogFont, error) {
	var fonts map[string]models.CatalogFont
	hit, err := p.Cache.Get(ctx, cacheBuiltinFonts, &fonts)
	if err != nil {
		return nil, err
	}
	if hit {
		return fonts, nil
	}

	fonts = builtinFonts()
	if err := p.Cache.Set(ctx, cacheBuiltinFonts, fonts, fontCacheTTL); err != nil {
		return nil, err
	}
	return fonts, nil
}

// RemoteFonts returns the remote directory keyed by font id. A failed or
// rejected fetch silently falls back to the bundled snapshot; only the
// explicit key validation path reports fetch failures to a caller.
func (p *Provider) RemoteFonts(ctx context.Context) (map[string]models.CatalogFont, error) {
	var fonts map[string]models.CatalogFont
	hit, err := p.Cache.Get(ctx, cacheRemoteFonts, &fonts)
	if err != nil {
		return nil, err
	}
	if hit {
		return fonts, nil
	}

	key, err := p.APIKey(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := p.fetchDirectory(ctx, key)
	if err != nil {
		log.Printf("[catalog] remote fetch failed, using bundled snapshot: %v", err)
		resp = new(apiResponse)
		if err := json.Unmarshal(fallbackJSON, resp); err != nil {
			return nil, fmt.Errorf("parse bundled webfonts: %w", err)
		}
	}

	fonts = make(map[string]models.CatalogFont, len(resp.Items))
	for _, item := range resp.Items {
		urls := make(map[string]string, len(item.Variants))
		for _, variant := range item.Variants {
			name := strings.ReplaceAll(item.Family, " ", "+")
			urls[variant] = fmt.Sprintf("%s?family=%s:%s", p.CSSURL, name, variant)
		}
		fonts[FontID(item.Family)] = models.CatalogFont{
			ID:          FontID(item.Family),
			Name:        item.Family,
			Source:      models.FontSourceRemote,
			Variants:    item.Variants,
			Files:       item.Files,
			VariantURLs: urls,
			Subsets:     item.Subsets,
		}
	}

	if err := p.Cache.Set(ctx, cacheRemoteFonts, fonts, fontCacheTTL); err != nil {
		return nil, err
	}
	return fonts, nil
}

// Font looks an id up in the builtin map first, then the remote map, so a
// local family shadows a remote one sharing its id. Nil when absent.
func (p *Provider) Font(ctx context.Context, id string) (*models.CatalogFont, error) {
	builtin, err := p.BuiltinFonts(ctx)
	if err != nil {
		return nil, err
	}
	if f, ok := builtin[id]; ok {
		return &f, nil
	}

	remote, err := p.RemoteFonts(ctx)
	if err != nil {
		return nil, err
	}
	if f, ok := remote[id]; ok {
		return &f, nil
	}
	return nil, nil
}

// InvalidateFontCaches drops both catalog cache entries so the next read
// refetches.
func (p *Provider) InvalidateFontCaches(ctx context.Context) error {
	if err := p.Cache.Delete(ctx, cacheBuiltinFonts); err != nil {
		return err
	}
	return p.Cache.Delete(ctx, cacheRemoteFonts)
}

func (p *Provider) APIKey(ctx context.Context) (string, error) {
	key, _, err := p.Store.GetOption(ctx, optionAPIKey)
	return key, err
}

func (p *Provider) SetAPIKey(ctx context.Context, key string) error {
	return p.Store.SetOption(ctx, optionAPIKey, key)
}

// ValidateAPIKey performs the directory fetch with the candidate key and
// reports whether the directory accepted it.
func (p *Provider) ValidateAPIKey(ctx context.Context, key string) bool {
	_, err := p.fetchDirectory(ctx, key)
	return err == nil
}

func (p *Provider) fetchDirectory(ctx context.Context, key string) (*apiResponse, error) {
	u := p.APIURL + "?sort=alpha"
	if key != "" {
		u += "&key=" + url.QueryEscape(key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read directory response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("directory status %d", resp.StatusCode)
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	if len(out.Error) > 0 {
		return nil, fmt.Errorf("directory error payload: %s", out.Error)
	}
	return &out, nil
}
