package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary 写一个假的yt-dlp脚本，用来替代真实二进制
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestYtDlpProviderFetch(t *testing.T) {
	bin := fakeBinary(t, `cat <<'JSON'
{"id":"abc123","title":"T","description":"D","thumbnail":"U","upload_date":"20240312"}
JSON
`)
	md, err := NewYtDlpProvider(bin).Fetch(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, "T", md.Title)
	assert.Equal(t, "D", md.Description)
	require.NotNil(t, md.ThumbnailURL)
	assert.Equal(t, "U", *md.ThumbnailURL)
	require.NotNil(t, md.PublishedAt)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), *md.PublishedAt)
}

func TestYtDlpProviderBadDateIsNil(t *testing.T) {
	bin := fakeBinary(t, `echo '{"id":"abc123","title":"T","upload_date":"unknown"}'
`)
	md, err := NewYtDlpProvider(bin).Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Nil(t, md.PublishedAt)
	assert.Nil(t, md.ThumbnailURL)
}

func TestYtDlpProviderNotFound(t *testing.T) {
	bin := fakeBinary(t, `echo "ERROR: [youtube] abc123: Video unavailable" >&2
exit 1
`)
	_, err := NewYtDlpProvider(bin).Fetch(context.Background(), "abc123")
	assert.True(t, errors.Is(err, ErrMetadataNotFound), "got %v", err)
}

func TestYtDlpProviderUnavailable(t *testing.T) {
	bin := fakeBinary(t, `echo "ERROR: unable to download webpage: HTTP Error 429" >&2
exit 1
`)
	_, err := NewYtDlpProvider(bin).Fetch(context.Background(), "abc123")
	assert.True(t, errors.Is(err, ErrMetadataUnavailable), "got %v", err)

	bin = fakeBinary(t, `echo "not json"
`)
	_, err = NewYtDlpProvider(bin).Fetch(context.Background(), "abc123")
	assert.True(t, errors.Is(err, ErrMetadataUnavailable), "got %v", err)

	_, err = NewYtDlpProvider(filepath.Join(t.TempDir(), "missing")).Fetch(context.Background(), "abc123")
	assert.True(t, errors.Is(err, ErrMetadataUnavailable), "got %v", err)
}

func TestYtDlpProviderTimeout(t *testing.T) {
	bin := fakeBinary(t, `exec sleep 5
`)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewYtDlpProvider(bin).Fetch(ctx, "abc123")
	assert.True(t, errors.Is(err, ErrMetadataUnavailable), "got %v", err)
	assert.Less(t, time.Since(start), 4*time.Second)
}
