package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seekerrors "thoreinstein.com/seek/pkg/errors"
)

func TestFileStorage_LoadNonExistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	fs := NewFileStorage(path, testCodec(), nil)

	seq := fs.Load()
	assert.Empty(t, seq)
	assert.NotNil(t, seq)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load must not create the file")
}

func TestFileStorage_LoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	assert.Empty(t, NewFileStorage(path, testCodec(), nil).Load())
}

func TestFileStorage_LoadDirectoryIsEmpty(t *testing.T) {
	dir := t.TempDir()

	assert.Empty(t, NewFileStorage(dir, testCodec(), nil).Load())
}

func TestFileStorage_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.json")
	fs := NewFileStorage(path, testCodec(), nil)

	seq := Sequence{
		{Query: "first", Timestamp: daysAgo(1)},
		{Query: "second", Timestamp: daysAgo(2)},
	}
	require.NoError(t, fs.Save(seq))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assertSequence(t, seq, NewFileStorage(path, testCodec(), nil).Load())
	assert.Equal(t, path, fs.Location())
}

func TestFileStorage_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	fs := NewFileStorage(path, testCodec(), nil)

	require.NoError(t, fs.Save(Sequence{{Query: "old", Timestamp: daysAgo(1)}}))
	require.NoError(t, fs.Save(Sequence{{Query: "new", Timestamp: daysAgo(1)}}))

	assert.Equal(t, []string{"new"}, fs.Load().Queries())
}

func TestFileStorage_MigratesLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_history.json")
	require.NoError(t, os.WriteFile(path, []byte(`["golang", "gopher"]`), 0o600))

	fs := NewFileStorage(path, testCodec(), nil)
	seq := fs.Load()
	assertSequence(t, Sequence{
		{Query: "golang", Timestamp: testNow},
		{Query: "gopher", Timestamp: testNow},
	}, seq)

	require.NoError(t, fs.Save(seq))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"query": "golang"`)
	assert.Contains(t, string(data), `"timestamp": "2026-03-01T12:00:00Z"`)
}

func TestFileStorage_SaveFailureReturnsStorageError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	fs := NewFileStorage(filepath.Join(blocker, "history.json"), testCodec(), nil)
	err := fs.Save(Sequence{{Query: "a", Timestamp: testNow}})

	require.Error(t, err)
	var storageErr *seekerrors.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, BackendJSON, storageErr.Backend)
	assert.Equal(t, "save", storageErr.Operation)
}

func TestFileStorage_FailedRenameLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	// The target is a non-empty directory, so the final rename fails.
	target := filepath.Join(dir, "history.json")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "occupied"), 0o750))

	err := NewFileStorage(target, testCodec(), nil).Save(Sequence{{Query: "a", Timestamp: testNow}})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.json", entries[0].Name())
}
