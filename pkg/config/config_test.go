package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "academy-ledger-api", cfg.JWT.Issuer)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.Snapshots.Enabled)
	assert.Equal(t, 2, cfg.Reminders.Workers)
	assert.Equal(t, "USD", cfg.Billing.Currency)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENV", EnvProduction)
	v.Set("CACHE_TTL", "90s")
	v.Set("JWT_EXPIRATION", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("BILLING_CURRENCY", "eur")
	cfg := fromViper(v)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "EUR", cfg.Billing.Currency)
}
