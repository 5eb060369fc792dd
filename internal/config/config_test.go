package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "ytdlp", cfg.Metadata.Provider)
	assert.Equal(t, 20*time.Second, cfg.Metadata.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Database.CommitTimeout)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
mysql:
  addr: db:3306
  database: catalog
  username: app
  password: secret
metadata:
  provider: youtube_api
  timeout: 3s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), content, 0o644))
	t.Setenv("VIDEOBOXD_METADATA_TIMEOUT", "7s")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "db:3306", cfg.Mysql.Addr)
	assert.Equal(t, "youtube_api", cfg.Metadata.Provider)
	assert.Equal(t, 7*time.Second, cfg.Metadata.Timeout)
	assert.Equal(t, "app:secret@tcp(db:3306)/catalog?charset=utf8mb4&parseTime=true&loc=Local", cfg.Mysql.DSN())
}
