package storage

import (
	"context"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storedNamePattern = regexp.MustCompile(`^\d+_[0-9a-z]+_photo\.jpg$`)

func TestLocalStore_Save(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	stored, err := store.Save(context.Background(), "photo.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.Regexp(t, storedNamePattern, stored.FileName)
	assert.Equal(t, len("jpeg-bytes"), stored.Size)

	data, err := os.ReadFile(stored.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestLocalStore_Save_UniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		stored, err := store.Save(context.Background(), "photo.jpg", []byte("x"))
		require.NoError(t, err)
		assert.False(t, seen[stored.FileName], "duplicate stored name %s", stored.FileName)
		seen[stored.FileName] = true
	}
}

func TestLocalStore_Save_StripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	stored, err := store.Save(context.Background(), "../../etc/passwd", []byte("nope"))
	require.NoError(t, err)

	assert.NotContains(t, stored.FileName, "/")
	assert.NotContains(t, stored.FileName, "..")

	// The file must land inside the content dir
	assert.Contains(t, stored.FilePath, dir)
}

func TestLocalStore_Save_EmptyName(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "..", []byte("x"))
	assert.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"dir/photo.jpg", "photo.jpg"},
		{"写真.jpg", "__.jpg"},
		{"name-with_ok.chars.png", "name-with_ok.chars.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFileName(tt.in), "input %q", tt.in)
	}
}
