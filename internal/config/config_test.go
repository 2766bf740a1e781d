package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  env: dev\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.State.Kind)
	assert.Equal(t, "5m", cfg.State.TTL)
	assert.Equal(t, "15m", cfg.JWT.AccessTTL)
	assert.Equal(t, cfg.Server.BaseURL, cfg.JWT.Issuer)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_GOOGLE_SECRET", "s3cr3t")

	cfg, err := Load(writeConfig(t, `
providers:
  google:
    enabled: true
    client_id: cid
    client_secret: "${TEST_GOOGLE_SECRET}"
`))
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Providers.Google.ClientSecret)
}

func TestLoad_UnsetEnvExpandsEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
jwt:
  secret: "${DEFINITELY_NOT_SET_VAR_42}"
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoad_ProviderBlocks(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
providers:
  google:
    enabled: true
    client_id: g
    client_secret: gs
  discord:
    enabled: false
  github:
    enabled: true
    client_id: h
    client_secret: hs
    scopes: ["user:email", "read:user"]
`))
	require.NoError(t, err)

	assert.True(t, cfg.Providers.Google.Enabled)
	assert.False(t, cfg.Providers.Discord.Enabled)
	assert.Equal(t, []string{"user:email", "read:user"}, cfg.Providers.GitHub.Scopes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
