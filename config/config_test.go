package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH0_DOMAIN", "example.eu.auth0.com")
	t.Setenv("AUTH0_CLIENT_ID", "client-id")
	t.Setenv("SESSION_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "medicalregister", cfg.Database.Name)
	assert.Equal(t, 86400, cfg.Session.MaxAgeSeconds)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("SESSION_MAX_AGE", "3600")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 3600, cfg.Session.MaxAgeSeconds)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate_MissingRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, "PORT is required"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "DB_HOST is required"},
		{"missing auth0 domain", func(c *Config) { c.Auth0.Domain = "" }, "AUTH0_DOMAIN is required"},
		{"missing auth0 client id", func(c *Config) { c.Auth0.ClientID = "" }, "AUTH0_CLIENT_ID is required"},
		{"missing session secret", func(c *Config) { c.Session.Secret = "" }, "SESSION_SECRET is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{Port: "8080"},
				Database: DatabaseConfig{Host: "localhost"},
				Auth0:    Auth0Config{Domain: "example.eu.auth0.com", ClientID: "client-id"},
				Session:  SessionConfig{Secret: "secret"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "app", Password: "pw", Name: "medicalregister", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=medicalregister sslmode=disable", d.DSN())
}
