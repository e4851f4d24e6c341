package mail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "m365_config.json"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestWriteTemplateThenLoadIsNotConfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m365_config.json")
	require.NoError(t, WriteTemplate(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = LoadConfig(path)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "placeholder")

	err = WriteTemplate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestLoadConfigValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m365_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "client_id": "abc",
  "client_secret": "s3cr3t",
  "sender": "banners@example.org"
}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.ClientID)
	assert.Equal(t, "s3cr3t", cfg.ClientSecret)
	assert.Equal(t, "common", cfg.TenantID)
	assert.Equal(t, ModeSend, cfg.Mode)
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m365_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client_id":"a","client_secret":"b","sender":"c@example.org","mode":"fax"}`), 0o600))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "fax")
}

func TestLoadConfigMissingSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m365_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client_id":"a","sender":"c@example.org"}`), 0o600))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "client_secret")
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m365_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
