package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnv = []string{
	EnvConfigDir, EnvConfigFile, EnvDBDriver, EnvDBPath, EnvDBDSN, EnvM365Config,
	EnvExportDir, EnvNotificationsFile, EnvHTTPAddr, EnvProofURL,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultDBDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultDBPath, cfg.Database.Path)
	assert.Equal(t, "", cfg.Database.DSN)
	assert.Equal(t, DefaultM365Config, cfg.Mail.ConfigPath)
	assert.Equal(t, DefaultProofURL, cfg.Mail.ProofURL)
	assert.Equal(t, DefaultExportDir, cfg.ExportDir)
	assert.Equal(t, DefaultNotificationsFile, cfg.NotificationsFile)
	assert.Equal(t, DefaultHTTPAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.ConfigFile)
	assert.Empty(t, cfg.loadWarnings)
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	t.Setenv(EnvHTTPAddr, ":9999")

	writeFile(t, filepath.Join(dir, ".env"), "HH_DB_PATH=/data/shared/hh.db\nHH_EXPORT_DIR=/data/exports\nHH_HTTP_ADDR=:7000\n")
	writeFile(t, filepath.Join(dir, "config.yaml"), `
database:
  path: yaml.db
server:
  addr: ":6000"
notifications_file: /var/log/hh/notices.txt
mail:
  proof_url: https://example.org/proofs
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/shared/hh.db", cfg.Database.Path, ".env beats yaml")
	assert.Equal(t, "/data/exports", cfg.ExportDir)
	assert.Equal(t, ":9999", cfg.Server.Addr, "process env beats .env and yaml")
	assert.Equal(t, "/var/log/hh/notices.txt", cfg.NotificationsFile, "yaml beats defaults")
	assert.Equal(t, "https://example.org/proofs", cfg.Mail.ProofURL)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)
	assert.Equal(t, dir, cfg.ConfigDir)

	_, set := os.LookupEnv("HH_EXPORT_DIR")
	assert.True(t, set, "cleared by clearEnv, still present")
	assert.Equal(t, "", os.Getenv("HH_EXPORT_DIR"), ".env values never leak into the process")
}

func TestLoadWarnsWhenConfigDirHasNoDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.loadWarnings, 1)
	assert.Equal(t, AreaConfig, cfg.loadWarnings[0].Area)
	assert.Contains(t, cfg.loadWarnings[0].Message, "no .env file")
}

func TestLoadExplicitConfigFileMustExist(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "database: [unterminated")
	t.Setenv(EnvConfigFile, path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBDriver, "Postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestLoadMySQL(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBDriver, "MySQL")
	t.Setenv(EnvDBDSN, "hh:secret@tcp(db:3306)/banners")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "hh:secret@tcp(db:3306)/banners", cfg.Database.DSN)
}
