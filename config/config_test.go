package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("VIP_API_TIMEOUT", "")
	t.Setenv("DEFAULT_VIP_DISCOUNT", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.VIPAPITimeout)
	assert.Equal(t, 24*time.Hour, cfg.VIPCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.CancellationCutoff)
	assert.True(t, decimal.NewFromInt(15).Equal(cfg.DefaultVIPDiscount))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("VIP_API_TIMEOUT", "2s")
	t.Setenv("DEFAULT_VIP_DISCOUNT", "12.5")
	t.Setenv("VIP_REFRESH_BATCH", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 2*time.Second, cfg.VIPAPITimeout)
	assert.Equal(t, "12.5", cfg.DefaultVIPDiscount.String())
	assert.Equal(t, 10, cfg.VIPRefreshBatch)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "hotel", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=hotel sslmode=disable TimeZone=UTC", cfg.DSN())
}
