package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pestozap/pestozap-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir, "http://localhost:8080/media/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, "blog/20240102030405_cover.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/blog/20240102030405_cover.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "blog", "20240102030405_cover.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	key, ok := s.KeyFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "blog/20240102030405_cover.jpg", key)

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "blog", "20240102030405_cover.jpg"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "blog/../../etc/passwd", "blog//x"} {
		_, err := s.Put(context.Background(), key, strings.NewReader("x"), 1, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestKeyFromURL_Foreign(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	_, ok := s.KeyFromURL("https://cdn.example.com/blog/x.jpg")
	assert.False(t, ok)
	_, ok = s.KeyFromURL("http://localhost/media/../x.jpg")
	assert.False(t, ok)
}

func TestNew_Driver(t *testing.T) {
	s, err := New(&config.StorageConfig{
		Driver: "local",
		Local:  config.LocalStorageConfig{Dir: t.TempDir(), BaseURL: "http://localhost/media"},
	})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	_, err = New(&config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
