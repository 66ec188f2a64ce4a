package records

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fonthub/pkg/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	id, err := s.Create(ctx, "font_control", "Heading")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "font_control", rec.Kind)
	require.Equal(t, "Heading", rec.Title)

	require.NoError(t, s.Delete(ctx, id))

	rec, err = s.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestGetMissingIsNil(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	rec, err := s.Get(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestMetaUpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	id, err := s.Create(ctx, "font_control", "One")
	require.NoError(t, err)

	require.NoError(t, s.SetMeta(ctx, id, "control_id", "font-control-7"))
	require.NoError(t, s.SetMeta(ctx, id, "control_id", "font-control-8"))

	v, err := s.GetMeta(ctx, id, "control_id")
	require.NoError(t, err)
	require.Equal(t, "font-control-8", v)

	v, err = s.GetMeta(ctx, id, "missing")
	require.NoError(t, err)
	require.Equal(t, "", v)

	recs, err := s.QueryByMeta(ctx, "font_control", "control_id", "font-control-8")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, id, recs[0].ID)

	recs, err = s.QueryByMeta(ctx, "font_control", "control_id", "font-control-7")
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestMetaGoneWithRecord(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	id, err := s.Create(ctx, "font_control", "One")
	require.NoError(t, err)
	require.NoError(t, s.SetMeta(ctx, id, "control_id", "font-control-1"))
	require.NoError(t, s.Delete(ctx, id))

	recs, err := s.QueryByMeta(ctx, "font_control", "control_id", "font-control-1")
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	for _, title := range []string{"Bravo", "Alpha", "Charlie"} {
		_, err := s.Create(ctx, "font_control", title)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, "other", "Zulu")
	require.NoError(t, err)

	recs, err := s.List(ctx, "font_control", "title", "asc")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "Alpha", recs[0].Title)
	require.Equal(t, "Charlie", recs[2].Title)

	recs, err = s.List(ctx, "font_control", "title", "desc")
	require.NoError(t, err)
	require.Equal(t, "Charlie", recs[0].Title)
}

func TestSaveHooksSkippedByRawWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	var fired []int64
	s.OnSave(func(_ context.Context, id int64) { fired = append(fired, id) })

	id, err := s.Create(ctx, "font_control", "Hooked")
	require.NoError(t, err)
	require.Equal(t, []int64{id}, fired)

	rawID, err := s.CreateRaw(ctx, "font_control", "Quiet")
	require.NoError(t, err)
	require.Equal(t, []int64{id}, fired)

	require.NoError(t, s.UpdateTitle(ctx, id, "Hooked Again"))
	require.Equal(t, []int64{id, id}, fired)

	require.NoError(t, s.UpdateTitleRaw(ctx, rawID, "Still Quiet"))
	require.Equal(t, []int64{id, id}, fired)
}

func TestOptionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(testDB(t))

	_, found, err := s.GetOption(ctx, "google_api_key")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.SetOption(ctx, "google_api_key", "abc"))
	require.NoError(t, s.SetOption(ctx, "google_api_key", "def"))

	v, found, err := s.GetOption(ctx, "google_api_key")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "def", v)

	require.NoError(t, s.DeleteOption(ctx, "google_api_key"))
	_, found, err = s.GetOption(ctx, "google_api_key")
	require.NoError(t, err)
	require.False(t, found)
}
