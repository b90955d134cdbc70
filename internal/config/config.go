// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// AppName is shown in the startup banner.
	AppName string `mapstructure:"APP_NAME"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// SessionTTL is the session lifetime (e.g. "30m").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// SessionSigningKey is the HMAC key used to sign session identifiers. Required.
	SessionSigningKey string `mapstructure:"SESSION_SIGNING_KEY"`

	// CacheBackend selects the session cache implementation: "memory" or "redis".
	CacheBackend string `mapstructure:"CACHE_BACKEND"`
	// RedisAddr is the Redis host:port; required when CACHE_BACKEND=redis.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword is the optional Redis AUTH password.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// RedisDB is the Redis logical database index.
	RedisDB int `mapstructure:"REDIS_DB"`

	// IdpProvider selects the identity provider adapter: "oidc" or "local".
	IdpProvider string `mapstructure:"IDP_PROVIDER"`
	// OIDCIssuerURL is the OIDC issuer base URL; required when IDP_PROVIDER=oidc.
	OIDCIssuerURL string `mapstructure:"OIDC_ISSUER_URL"`
	// OIDCClientID is the OAuth2 client id for the gateway.
	OIDCClientID string `mapstructure:"OIDC_CLIENT_ID"`
	// OIDCClientSecret is the OAuth2 client secret for the gateway.
	OIDCClientSecret string `mapstructure:"OIDC_CLIENT_SECRET"`
	// LocalIdpSigningKey signs tokens issued by the local adapter; required when IDP_PROVIDER=local.
	LocalIdpSigningKey string `mapstructure:"LOCAL_IDP_SIGNING_KEY"`
	// LocalIdpIssuer is the iss claim for locally issued tokens.
	LocalIdpIssuer string `mapstructure:"LOCAL_IDP_ISSUER"`
	// LocalIdpTokenTTL is the access token lifetime for the local adapter (e.g. "15m").
	LocalIdpTokenTTL string `mapstructure:"LOCAL_IDP_TOKEN_TTL"`

	// CustomerRegistryURL is the base URL of the customer registry service.
	CustomerRegistryURL string `mapstructure:"CUSTOMER_REGISTRY_URL"`
	// ContractRegistryURL is the base URL of the contract registry service.
	ContractRegistryURL string `mapstructure:"CONTRACT_REGISTRY_URL"`
	// ProductCatalogURL is the base URL of the product catalog service.
	ProductCatalogURL string `mapstructure:"PRODUCT_CATALOG_URL"`
	// RoleRegistryURL is the base URL of the role/permission registry service.
	RoleRegistryURL string `mapstructure:"ROLE_REGISTRY_URL"`
	// RegistryTimeout bounds each downstream registry call (e.g. "5s").
	RegistryTimeout string `mapstructure:"REGISTRY_TIMEOUT"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("APP_NAME", "Session Center")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("SESSION_SIGNING_KEY", "")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDP_PROVIDER", "local")
	v.SetDefault("OIDC_ISSUER_URL", "")
	v.SetDefault("OIDC_CLIENT_ID", "")
	v.SetDefault("OIDC_CLIENT_SECRET", "")
	v.SetDefault("LOCAL_IDP_SIGNING_KEY", "")
	v.SetDefault("LOCAL_IDP_ISSUER", "session-center")
	v.SetDefault("LOCAL_IDP_TOKEN_TTL", "15m")
	v.SetDefault("CUSTOMER_REGISTRY_URL", "http://localhost:8081")
	v.SetDefault("CONTRACT_REGISTRY_URL", "http://localhost:8082")
	v.SetDefault("PRODUCT_CATALOG_URL", "http://localhost:8083")
	v.SetDefault("ROLE_REGISTRY_URL", "http://localhost:8084")
	v.SetDefault("REGISTRY_TIMEOUT", "5s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.SessionSigningKey == "" {
		return nil, errors.New("config: SESSION_SIGNING_KEY must be set")
	}

	switch strings.ToLower(cfg.CacheBackend) {
	case "memory", "redis":
	default:
		return nil, errors.New("config: CACHE_BACKEND must be \"memory\" or \"redis\"")
	}

	switch strings.ToLower(cfg.IdpProvider) {
	case "oidc":
		if cfg.OIDCIssuerURL == "" || cfg.OIDCClientID == "" {
			return nil, errors.New("config: OIDC_ISSUER_URL and OIDC_CLIENT_ID are required when IDP_PROVIDER=oidc")
		}
	case "local":
		if cfg.LocalIdpSigningKey == "" {
			return nil, errors.New("config: LOCAL_IDP_SIGNING_KEY is required when IDP_PROVIDER=local")
		}
	default:
		return nil, errors.New("config: IDP_PROVIDER must be \"oidc\" or \"local\"")
	}

	return &cfg, nil
}

// TTL parses SessionTTL as a time.Duration. Returns 30m if unset or invalid.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

// RegistryCallTimeout parses RegistryTimeout as a time.Duration. Returns 5s if unset or invalid.
func (c *Config) RegistryCallTimeout() time.Duration {
	d, err := time.ParseDuration(c.RegistryTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// LocalTokenTTL parses LocalIdpTokenTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) LocalTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.LocalIdpTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}
