package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*ConfigManager, string) {
	t.Helper()
	home := t.TempDir()
	path := filepath.Join(home, ".config", ConfigDirName, ConfigFileName)
	m, err := NewConfigManagerAt(path, home)
	require.NoError(t, err)
	return m, home
}

func TestLoadConfig_Defaults(t *testing.T) {
	m, home := newManager(t)

	cfg, err := m.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".s3shell"), cfg.HomeDir)
	assert.Equal(t, "json", cfg.Store.Backend)
	assert.Equal(t, "aws", cfg.Provider.Name)
	assert.Equal(t, "us-east-1", cfg.Provider.Region)
	assert.True(t, cfg.Provider.UseSSL)
	assert.Zero(t, cfg.Provider.Timeout)
	assert.Equal(t, 64, cfg.Transfer.Segments)
	assert.Equal(t, 1024, cfg.Transfer.BufferSize)
	assert.Equal(t, "bar", cfg.Transfer.Progress)
	assert.Equal(t, 1000, cfg.Listing.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileValues(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "config.yaml")
	content := `
home_dir: /var/lib/s3sh
provider:
  name: MinIO
  endpoint: localhost:9000
  use_ssl: false
  timeout: 30s
transfer:
  segments: 32
  progress: plain
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := NewConfigManagerAt(path, home)
	require.NoError(t, err)
	cfg, err := m.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/s3sh", cfg.HomeDir)
	assert.Equal(t, "minio", cfg.Provider.Name)
	assert.Equal(t, "localhost:9000", cfg.Provider.Endpoint)
	assert.False(t, cfg.Provider.UseSSL)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 32, cfg.Transfer.Segments)
	assert.Equal(t, 1024, cfg.Transfer.BufferSize)
	assert.Equal(t, "plain", cfg.Transfer.Progress)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("S3SH_TRANSFER_SEGMENTS", "16")
	t.Setenv("S3SH_LOG_LEVEL", "debug")
	m, _ := newManager(t)

	cfg, err := m.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Transfer.Segments)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSetGetDelete(t *testing.T) {
	m, home := newManager(t)

	require.NoError(t, m.SetValue("gcp.project", "my-proj"))
	require.NoError(t, m.SetValue("transfer.segments", "8"))

	v, ok := m.GetValue("gcp.project")
	require.True(t, ok)
	assert.Equal(t, "my-proj", v)

	cfg, err := m.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Transfer.Segments)

	reopened, err := NewConfigManagerAt(m.Path(), home)
	require.NoError(t, err)
	cfg, err = reopened.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "my-proj", cfg.GCP.Project)

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "page_size", "defaults are not written to the file")

	deleted, err := m.DeleteValue("transfer.segments")
	require.NoError(t, err)
	assert.True(t, deleted)
	cfg, err = m.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Transfer.Segments)

	deleted, err = m.DeleteValue("transfer.segments")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSetValue_Rejected(t *testing.T) {
	m, _ := newManager(t)

	assert.Error(t, m.SetValue("nope.key", "x"))
	assert.Error(t, m.SetValue("transfer.segments", "0"))
	assert.Error(t, m.SetValue("store.backend", "mongo"))

	cfg, err := m.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Transfer.Segments)
	assert.Equal(t, "json", cfg.Store.Backend)

	_, statErr := os.Stat(m.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.s3shell")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".s3shell"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys()
	assert.Contains(t, keys, "provider.name")
	assert.Contains(t, keys, "transfer.progress")
	assert.True(t, IsKnownKey("listing.page_size"))
	assert.False(t, IsKnownKey("aws.region"))
}
