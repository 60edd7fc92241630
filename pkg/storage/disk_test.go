package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	chdir(t, t.TempDir())
	return NewDiskStore("uploads")
}

func TestStoreAndDelete(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Store(strings.NewReader("image-bytes"), "photo.PNG", "category")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/category/"), "ref %q", ref)
	assert.True(t, strings.HasSuffix(ref, ".png"), "extension should be lowercased: %q", ref)

	local := strings.TrimPrefix(ref, "/")
	data, err := os.ReadFile(filepath.FromSlash(local))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	require.NoError(t, store.Delete(ref))
	_, err = os.Stat(filepath.FromSlash(local))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_UniqueNames(t *testing.T) {
	store := newTestStore(t)

	ref1, err := store.Store(strings.NewReader("a"), "same.jpg", "brand")
	require.NoError(t, err)
	ref2, err := store.Store(strings.NewReader("b"), "same.jpg", "brand")
	require.NoError(t, err)
	assert.NotEqual(t, ref1, ref2)
}

func TestDelete_IgnoresMissingAndMalformed(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Delete(""))
	assert.NoError(t, store.Delete("/uploads/category/never-existed.png"))
	assert.NoError(t, store.Delete("/elsewhere/file.png"))
}

func TestDelete_RejectsTraversal(t *testing.T) {
	base := t.TempDir()
	work := filepath.Join(base, "work")
	require.NoError(t, os.Mkdir(work, 0o755))
	chdir(t, work)
	store := NewDiskStore("uploads")

	victim := filepath.Join(base, "victim.txt")
	require.NoError(t, os.WriteFile(victim, []byte("keep me"), 0o644))

	require.NoError(t, store.Delete("/uploads/../../victim.txt"))

	_, err := os.Stat(victim)
	assert.NoError(t, err, "file outside the upload root must survive")
}
