package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseDatabase(t *testing.T, db Database) {
	t.Helper()

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	ok, err := db.Has([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)

	batch := db.NewBatch()
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("a"))
	require.Equal(t, 2, batch.Len())

	// Nothing is visible before Write.
	ok, err = db.Has([]byte("b"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, batch.Write())
	ok, err = db.Has([]byte("a"))
	require.NoError(t, err)
	require.False(t, ok)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)

	require.NoError(t, db.Delete([]byte("missing")))
}

func TestMemDB(t *testing.T) {
	db := NewMemDB()
	t.Cleanup(db.Close)
	exerciseDatabase(t, db)
}

func TestLevelDB(t *testing.T) {
	db, err := NewLevelDB(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	exerciseDatabase(t, db)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	value := []byte("abc")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'z'
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
}

func TestOverlayCommit(t *testing.T) {
	parent := NewMemDB()
	require.NoError(t, parent.Put([]byte("keep"), []byte("1")))
	require.NoError(t, parent.Put([]byte("drop"), []byte("2")))

	ov := NewOverlay(parent)
	require.NoError(t, ov.Put([]byte("new"), []byte("3")))
	require.NoError(t, ov.Delete([]byte("drop")))

	got, err := ov.Get([]byte("new"))
	require.NoError(t, err)
	require.Equal(t, []byte("3"), got)
	_, err = ov.Get([]byte("drop"))
	require.ErrorIs(t, err, ErrNotFound)
	got, err = ov.Get([]byte("keep"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	// Parent untouched until commit.
	ok, _ := parent.Has([]byte("new"))
	require.False(t, ok)
	ok, _ = parent.Has([]byte("drop"))
	require.True(t, ok)
	require.Equal(t, 2, ov.Dirty())

	require.NoError(t, ov.Commit())
	ok, _ = parent.Has([]byte("new"))
	require.True(t, ok)
	ok, _ = parent.Has([]byte("drop"))
	require.False(t, ok)

	require.Error(t, ov.Put([]byte("late"), []byte("x")))
	require.Error(t, ov.Commit())
}

func TestOverlayDiscard(t *testing.T) {
	parent := NewMemDB()
	ov := NewOverlay(parent)
	require.NoError(t, ov.Put([]byte("k"), []byte("v")))
	ov.Discard()
	require.Equal(t, 0, parent.Len())
	require.Equal(t, 0, ov.Dirty())
}

func TestOverlayBatchWritesIntoOverlay(t *testing.T) {
	parent := NewMemDB()
	ov := NewOverlay(parent)
	batch := ov.NewBatch()
	batch.Put([]byte("k"), []byte("v"))
	require.NoError(t, batch.Write())
	ok, err := ov.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, parent.Len())
}
