package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-signing-key")
	t.Setenv("LOCAL_IDP_SIGNING_KEY", "test-idp-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "memory", cfg.CacheBackend)
	require.Equal(t, "local", cfg.IdpProvider)
	require.Equal(t, 30*time.Minute, cfg.TTL())
	require.Equal(t, 5*time.Second, cfg.RegistryCallTimeout())
}

func TestLoadRequiresSigningKey(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_SIGNING_KEY")
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-signing-key")
	t.Setenv("LOCAL_IDP_SIGNING_KEY", "test-idp-key")
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestLoadOIDCRequiresIssuer(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "test-signing-key")
	t.Setenv("IDP_PROVIDER", "oidc")
	t.Setenv("OIDC_ISSUER_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "OIDC_ISSUER_URL")
}

func TestTTLFallsBackOnInvalid(t *testing.T) {
	cfg := &Config{SessionTTL: "not-a-duration"}
	require.Equal(t, 30*time.Minute, cfg.TTL())

	cfg.SessionTTL = "10m"
	require.Equal(t, 10*time.Minute, cfg.TTL())
}
