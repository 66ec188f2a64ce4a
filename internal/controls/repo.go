// Package controls manages user-created font controls: named groups of
// CSS selectors that share one set of typography settings. Each control
// is persisted as one record of kind "font_control" with its properties
// in record metadata.
package controls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"fonthub/pkg/models"
	"fonthub/pkg/records"
)

const (
	recordKind = "font_control"

	metaControlID   = "control_id"
	metaSelectors   = "control_selectors"
	metaDescription = "control_description"
	metaForceStyles = "force_styles"

	// Fallback title when sanitization leaves nothing behind.
	defaultControlName = "Font Control"
)

// ErrIDSpaceExhausted is returned when the bounded uniqueness loops give
// up. With ids drawn from an unbounded integer sequence this cannot
// happen in practice; the bound exists so adversarial inputs cannot spin
// the loop forever.
var ErrIDSpaceExhausted = errors.New("controls: could not find a free identifier")

// Invalidator drops the effective-options snapshot so the next resolve
// reflects a control mutation. Wired to the options resolver.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Repo struct {
	Store   *records.Store
	Options Invalidator
}

func NewRepo(store *records.Store) *Repo {
	return &Repo{Store: store}
}

func (r *Repo) invalidate(ctx context.Context) error {
	if r.Options == nil {
		return nil
	}
	return r.Options.Invalidate(ctx)
}

// sanitizeName strips characters that would break later templating.
var nameSanitizer = strings.NewReplacer("#", "", "'", "", `"`, "", "&", "", "{", "", "}", "")

func sanitizeName(name string) string {
	name = nameSanitizer.Replace(name)
	if name == "" {
		name = defaultControlName
	}
	return name
}

// sanitizeSelectors strips all trailing commas from each entry.
func sanitizeSelectors(selectors []string) []string {
	out := make([]string, len(selectors))
	for i, sel := range selectors {
		out[i] = strings.TrimRight(sel, ",")
	}
	return out
}

// Create persists a new font control and returns it. The control id is
// generated from a random small-integer suffix, incremented past any
// collision; the display name is de-duplicated with a numeric suffix.
func (r *Repo) Create(ctx context.Context, name string, selectors []string, description string, forceStyles bool) (*models.FontControl, error) {
	existing, err := r.List(ctx, "name", "asc")
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(existing))
	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		ids[c.ControlID] = true
		names[c.Name] = true
	}

	controlID, err := freeControlID(ids)
	if err != nil {
		return nil, err
	}

	name, err = dedupeName(sanitizeName(name), names)
	if err != nil {
		return nil, err
	}

	selectors = sanitizeSelectors(selectors)

	// Raw write: the hooked path would re-enter any registered save
	// observers while the control is half-written.
	recordID, err := r.Store.CreateRaw(ctx, recordKind, name)
	if err != nil {
		return nil, err
	}
	if err := r.writeMeta(ctx, recordID, controlID, selectors, description, forceStyles); err != nil {
		return nil, err
	}

	if err := r.invalidate(ctx); err != nil {
		return nil, err
	}

	return &models.FontControl{
		RecordID:    recordID,
		ControlID:   controlID,
		Name:        name,
		Selectors:   selectors,
		Description: description,
		ForceStyles: forceStyles,
	}, nil
}

// Update overwrites an existing control's name, selectors, description
// and force flag. A missing control id falls through to Create.
func (r *Repo) Update(ctx context.Context, controlID, name string, selectors []string, description string, forceStyles bool) (*models.FontControl, error) {
	matches, err := r.Store.QueryByMeta(ctx, recordKind, metaControlID, controlID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return r.Create(ctx, name, selectors, description, forceStyles)
	}

	recordID := matches[0].ID
	name = sanitizeName(name)

	taken, err := r.Exists(ctx, name, controlID)
	if err != nil {
		return nil, err
	}
	if taken {
		existing, err := r.List(ctx, "name", "asc")
		if err != nil {
			return nil, err
		}
		names := make(map[string]bool, len(existing))
		for _, c := range existing {
			if c.ControlID != controlID {
				names[c.Name] = true
			}
		}
		name, err = dedupeName(name, names)
		if err != nil {
			return nil, err
		}
	}

	selectors = sanitizeSelectors(selectors)

	if err := r.Store.UpdateTitleRaw(ctx, recordID, name); err != nil {
		return nil, err
	}
	if err := r.writeMeta(ctx, recordID, controlID, selectors, description, forceStyles); err != nil {
		return nil, err
	}

	if err := r.invalidate(ctx); err != nil {
		return nil, err
	}

	return &models.FontControl{
		RecordID:    recordID,
		ControlID:   controlID,
		Name:        name,
		Selectors:   selectors,
		Description: description,
		ForceStyles: forceStyles,
	}, nil
}

// Delete removes the control with the given id. Deleting an id that does
// not exist reports true as well: the desired end state holds either way.
func (r *Repo) Delete(ctx context.Context, controlID string) (bool, error) {
	matches, err := r.Store.QueryByMeta(ctx, recordKind, metaControlID, controlID)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if err := r.Store.Delete(ctx, m.ID); err != nil {
			return false, err
		}
	}
	if err := r.invalidate(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAll removes every user-created control.
func (r *Repo) DeleteAll(ctx context.Context) error {
	if err := r.Store.DeleteAllOfKind(ctx, recordKind); err != nil {
		return err
	}
	return r.invalidate(ctx)
}

// Get returns the control with the given id, nil when absent.
func (r *Repo) Get(ctx context.Context, controlID string) (*models.FontControl, error) {
	matches, err := r.Store.QueryByMeta(ctx, recordKind, metaControlID, controlID)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return r.load(ctx, matches[0])
}

// List returns all controls, by default ordered by name ascending.
// Records missing a control id are skipped.
func (r *Repo) List(ctx context.Context, orderBy, order string) ([]models.FontControl, error) {
	col := "title"
	if orderBy == "created_at" {
		col = "created_at"
	}
	recs, err := r.Store.List(ctx, recordKind, col, order)
	if err != nil {
		return nil, err
	}

	out := make([]models.FontControl, 0, len(recs))
	for _, rec := range recs {
		c, err := r.load(ctx, rec)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

// Exists reports whether any control other than excludingControlID
// already uses name (case-sensitive exact match).
func (r *Repo) Exists(ctx context.Context, name, excludingControlID string) (bool, error) {
	all, err := r.List(ctx, "name", "asc")
	if err != nil {
		return false, err
	}
	for _, c := range all {
		if c.ControlID != excludingControlID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repo) writeMeta(ctx context.Context, recordID int64, controlID string, selectors []string, description string, forceStyles bool) error {
	sel, err := json.Marshal(selectors)
	if err != nil {
		return fmt.Errorf("marshal selectors: %w", err)
	}
	if err := r.Store.SetMeta(ctx, recordID, metaControlID, controlID); err != nil {
		return err
	}
	if err := r.Store.SetMeta(ctx, recordID, metaSelectors, string(sel)); err != nil {
		return err
	}
	if err := r.Store.SetMeta(ctx, recordID, metaDescription, description); err != nil {
		return err
	}
	return r.Store.SetMeta(ctx, recordID, metaForceStyles, strconv.FormatBool(forceStyles))
}

func (r *Repo) load(ctx context.Context, rec records.Record) (*models.FontControl, error) {
	controlID, err := r.Store.GetMeta(ctx, rec.ID, metaControlID)
	if err != nil {
		return nil, err
	}
	if controlID == "" {
		return nil, nil
	}

	rawSelectors, err := r.Store.GetMeta(ctx, rec.ID, metaSelectors)
	if err != nil {
		return nil, err
	}
	var selectors []string
	if rawSelectors != "" {
		if err := json.Unmarshal([]byte(rawSelectors), &selectors); err != nil {
			return nil, fmt.Errorf("unmarshal selectors for %s: %w", controlID, err)
		}
	}

	description, err := r.Store.GetMeta(ctx, rec.ID, metaDescription)
	if err != nil {
		return nil, err
	}
	force, err := r.Store.GetMeta(ctx, rec.ID, metaForceStyles)
	if err != nil {
		return nil, err
	}

	return &models.FontControl{
		RecordID:    rec.ID,
		ControlID:   controlID,
		Name:        rec.Title,
		Selectors:   selectors,
		Description: description,
		ForceStyles: force == "true",
	}, nil
}

// freeControlID picks "font-control-<n>" with n seeded randomly in
// 1..100 and incremented past collisions. Attempts are bounded by the
// size of the existing set plus one.
func freeControlID(existing map[string]bool) (string, error) {
	n := rand.Intn(100) + 1
	for attempts := 0; attempts <= len(existing)+1; attempts++ {
		id := fmt.Sprintf("font-control-%d", n)
		if !existing[id] {
			return id, nil
		}
		n++
	}
	return "", ErrIDSpaceExhausted
}

// dedupeName appends an incrementing numeric suffix, starting at 2,
// until the name is unused. Bounded like freeControlID.
func dedupeName(name string, existing map[string]bool) (string, error) {
	if !existing[name] {
		return name, nil
	}
	for count := 2; count <= len(existing)+2; count++ {
		candidate := fmt.Sprintf("%s %d", name, count)
		if !existing[candidate] {
			return candidate, nil
		}
	}
	return "", ErrIDSpaceExhausted
}
