package controls

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"fonthub/pkg/database"
	"fonthub/pkg/records"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewRepo(records.NewStore(db))
}

var controlIDRe = regexp.MustCompile(`^font-control-\d+$`)

func TestCreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		c, err := r.Create(ctx, "Control", []string{"p"}, "", false)
		require.NoError(t, err)
		require.Regexp(t, controlIDRe, c.ControlID)
		require.False(t, seen[c.ControlID], "duplicate control id %s", c.ControlID)
		seen[c.ControlID] = true
	}
}

func TestCreateDedupesNames(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	a, err := r.Create(ctx, "Test", []string{"p"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Test", a.Name)

	b, err := r.Create(ctx, "Test", []string{"p"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Test 2", b.Name)

	c, err := r.Create(ctx, "Test", []string{"p"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Test 3", c.Name)
}

func TestCreateSanitizesName(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	c, err := r.Create(ctx, `#Heading'`, []string{"h1"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Heading", c.Name)

	// A name that sanitizes to nothing falls back to the default.
	c, err = r.Create(ctx, `#"{}"&`, []string{"h2"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Font Control", c.Name)
}

func TestCreateStripsTrailingCommas(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	c, err := r.Create(ctx, "Selectors", []string{"a,", ".b,,", "h1"}, "", false)
	require.NoError(t, err)
	require.Equal(t, []string{"a", ".b", "h1"}, c.Selectors)

	got, err := r.Get(ctx, c.ControlID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []string{"a", ".b", "h1"}, got.Selectors)
}

func TestGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	c, err := r.Create(ctx, "Links", []string{"a", ".nav a"}, "All link text", true)
	require.NoError(t, err)

	got, err := r.Get(ctx, c.ControlID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, c.ControlID, got.ControlID)
	require.Equal(t, "Links", got.Name)
	require.Equal(t, []string{"a", ".nav a"}, got.Selectors)
	require.Equal(t, "All link text", got.Description)
	require.True(t, got.ForceStyles)
}

func TestGetMissingIsNil(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	got, err := r.Get(ctx, "font-control-9999")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	c, err := r.Create(ctx, "Before", []string{"p"}, "", false)
	require.NoError(t, err)

	updated, err := r.Update(ctx, c.ControlID, "After", []string{"h1,"}, "changed", true)
	require.NoError(t, err)
	require.Equal(t, c.ControlID, updated.ControlID)
	require.Equal(t, "After", updated.Name)
	require.Equal(t, []string{"h1"}, updated.Selectors)
	require.True(t, updated.ForceStyles)

	all, err := r.List(ctx, "name", "asc")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestUpdateDedupesAgainstOthers(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	_, err := r.Create(ctx, "Taken", []string{"p"}, "", false)
	require.NoError(t, err)
	c, err := r.Create(ctx, "Mine", []string{"h1"}, "", false)
	require.NoError(t, err)

	// Renaming onto another control's name picks up a suffix.
	updated, err := r.Update(ctx, c.ControlID, "Taken", []string{"h1"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Taken 2", updated.Name)

	// Keeping your own name is not a collision.
	updated, err = r.Update(ctx, c.ControlID, "Taken 2", []string{"h1"}, "", false)
	require.NoError(t, err)
	require.Equal(t, "Taken 2", updated.Name)
}

func TestUpdateMissingCreates(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	c, err := r.Update(ctx, "font-control-404", "Fresh", []string{"p"}, "", false)
	require.NoError(t, err)
	require.NotEmpty(t, c.ControlID)
	require.Equal(t, "Fresh", c.Name)

	all, err := r.List(ctx, "name", "asc")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	c, err := r.Create(ctx, "Doomed", []string{"p"}, "", false)
	require.NoError(t, err)

	ok, err := r.Delete(ctx, c.ControlID)
	require.NoError(t, err)
	require.True(t, ok)

	// Second delete of the same id still reports success.
	ok, err = r.Delete(ctx, c.ControlID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := r.Get(ctx, c.ControlID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)

	for i := 0; i < 3; i++ {
		_, err := r.Create(ctx, "Control", []string{"p"}, "", false)
		require.NoError(t, err)
	}
	require.NoError(t, r.DeleteAll(ctx))

	all, err := r.List(ctx, "name", "asc")
	require.NoError(t, err)
	require.Empty(t, all)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

func TestMutationsInvalidate(t *testing.T) {
	ctx := context.Background()
	r := testRepo(t)
	inv := &countingInvalidator{}
	r.Options = inv

	c, err := r.Create(ctx, "Control", []string{"p"}, "", false)
	require.NoError(t, err)
	require.Equal(t, 1, inv.calls)

	_, err = r.Update(ctx, c.ControlID, "Control", []string{"h1"}, "", false)
	require.NoError(t, err)
	require.Equal(t, 2, inv.calls)

	_, err = r.Delete(ctx, c.ControlID)
	require.NoError(t, err)
	require.Equal(t, 3, inv.calls)
}
