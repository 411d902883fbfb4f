package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorePutAndOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	png := "\x89PNG\r\n\x1a\n-png-bytes"
	require.NoError(t, store.Put(ctx, "123-photo.png", strings.NewReader(png), int64(len(png)), "image/png"))

	rc, info, err := store.Open(ctx, "123-photo.png")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, png, string(body))
	assert.Equal(t, int64(len(png)), info.Size)
	assert.Equal(t, "image/png", info.ContentType)
}

func TestDiskStoreContentTypeIgnoresExtension(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	gif := "GIF89a\x01\x00;<script>alert(1)</script>"
	require.NoError(t, store.Put(ctx, "1-page.html", strings.NewReader(gif), int64(len(gif)), "image/gif"))
	require.NoError(t, store.Put(ctx, "2-note.html", strings.NewReader("<html>hi</html>"), 15, "text/html"))

	rc, info, err := store.Open(ctx, "1-page.html")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, gif, string(body))
	assert.Equal(t, "image/gif", info.ContentType)

	rc, info, err = store.Open(ctx, "2-note.html")
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "application/octet-stream", info.ContentType)
}

func TestDiskStoreRefusesOverwrite(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a.png", strings.NewReader("one"), 3, "image/png"))
	assert.Error(t, store.Put(ctx, "a.png", strings.NewReader("two"), 3, "image/png"))
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"../escape.png", "sub/dir.png", ".hidden", ""} {
		assert.ErrorIs(t, store.Put(ctx, name, strings.NewReader("x"), 1, "image/png"), ErrInvalidName, name)
	}
}

func TestDiskStoreOpenMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
