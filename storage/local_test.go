package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, "a/b/object.txt", "text/plain", strings.NewReader("ilk")))
	require.NoError(t, s.Upload(ctx, "a/b/object.txt", "text/plain", strings.NewReader("ikinci")))

	body, err := s.Download(ctx, "a/b/object.txt")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "ikinci", string(data))

	require.NoError(t, s.Delete(ctx, "a/b/object.txt"))
	_, err = s.Download(ctx, "a/b/object.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// Deleting twice is fine
	assert.NoError(t, s.Delete(ctx, "a/b/object.txt"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../outside.txt", "/etc/passwd", "", "."} {
		err := s.Upload(ctx, key, "text/plain", strings.NewReader("x"))
		assert.Error(t, err, "key %q", key)
	}
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	s, err := NewStorage(ctx, StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(ctx, StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
