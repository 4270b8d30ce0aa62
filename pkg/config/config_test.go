package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
mongodb:
  uri: mongodb://localhost:27017
  database: bakeshop
auth:
  jwt_secret: s3cret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bakeshop", cfg.Server.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "auth-token", cfg.Auth.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.InDelta(t, 1000, cfg.Delivery.FreeAbove, 0.001)
	assert.InDelta(t, 50, cfg.Delivery.FlatFee, 0.001)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  name: bakeshop-staging
  port: 9090
delivery:
  free_above: 1500
  flat_fee: 75
auth:
  jwt_secret: s3cret
  token_ttl: 24h
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bakeshop-staging", cfg.Server.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 1500, cfg.Delivery.FreeAbove, 0.001)
	assert.InDelta(t, 75, cfg.Delivery.FlatFee, 0.001)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
