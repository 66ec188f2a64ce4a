package options

import (
	"context"
	"encoding/json"
	"fmt"

	"fonthub/pkg/cache"
	"fonthub/pkg/models"
	"fonthub/pkg/records"
)

const (
	// Singleton option holding the stored settings blob.
	storedOptionsKey = "theme_font_options"

	// Cache entry holding the resolved snapshot. No TTL; dropped
	// explicitly on every mutation.
	cacheEffectiveOptions = "effective_options"
)

// Resolver computes the effective value of every slot: stored overrides
// merged onto registry defaults, with stale stored keys dropped.
type Resolver struct {
	Registry *Registry
	Store    *records.Store
	Cache    *cache.Cache
}

func NewResolver(registry *Registry, store *records.Store, c *cache.Cache) *Resolver {
	return &Resolver{Registry: registry, Store: store, Cache: c}
}

// Stored returns the raw stored overrides, without defaults applied.
func (r *Resolver) Stored(ctx context.Context) (map[string]models.FontValue, error) {
	raw, ok, err := r.Store.GetOption(ctx, storedOptionsKey)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]models.FontValue)
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return nil, fmt.Errorf("unmarshal stored options: %w", err)
		}
	}
	return stored, nil
}

// SaveStored overwrites the stored settings blob and drops the snapshot.
func (r *Resolver) SaveStored(ctx context.Context, values map[string]models.FontValue) error {
	b, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal stored options: %w", err)
	}
	if err := r.Store.SetOption(ctx, storedOptionsKey, string(b)); err != nil {
		return err
	}
	return r.Invalidate(ctx)
}

// Effective resolves the current value of every slot. With useCache the
// cached snapshot is returned when present; live-editing callers pass
// false so a Customizer session always observes fresh state, and the
// recomputed snapshot replaces whatever was cached.
func (r *Resolver) Effective(ctx context.Context, useCache bool) (map[string]models.FontValue, error) {
	if useCache {
		var cached map[string]models.FontValue
		hit, err := r.Cache.Get(ctx, cacheEffectiveOptions, &cached)
		if err != nil {
			return nil, err
		}
		if hit {
			return cached, nil
		}
	}

	defaults, err := r.Registry.Defaults(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := r.Stored(ctx)
	if err != nil {
		return nil, err
	}

	// Stored keys without a live slot belong to deleted controls and
	// are dropped here rather than persisted forever.
	effective := make(map[string]models.FontValue, len(defaults))
	for name, def := range defaults {
		if v, ok := stored[name]; ok {
			effective[name] = v
		} else {
			effective[name] = def
		}
	}

	if err := r.Cache.Set(ctx, cacheEffectiveOptions, effective, 0); err != nil {
		return nil, err
	}
	return effective, nil
}

// Invalidate drops the resolved snapshot. Called on control create,
// update, delete and settings save.
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.Cache.Delete(ctx, cacheEffectiveOptions)
}
