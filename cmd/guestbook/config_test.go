package main

import (
	"testing"
	"time"

	"guestbook-service/guestbook/domain"

	"github.com/stretchr/testify/require"
)

func Test_LoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir()) // sem .env

	cfg, err := loadConfig()
	req.NoError(err)
	req.Equal(":8080", cfg.ListenAddr)
	req.Equal("file", cfg.StoreBackend)
	req.Equal(domain.DefaultLimits(), cfg.Limits())
	req.True(cfg.TrustProxyHeaders)
	req.Equal(5*time.Second, cfg.StoreLockTimeout)
	req.Equal("guestbook:stats", cfg.StatsPrefix)
}

func Test_LoadConfig_FromEnvironment(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("DATA_FILE", "/tmp/gb/guestbook.json")
	t.Setenv("RATE_LIMIT_WINDOW", "90s")
	t.Setenv("MARKUP_POLICY", "strip")
	t.Setenv("MAX_MESSAGES", "50")
	t.Setenv("FLOOD_RPS", "0.5")

	cfg, err := loadConfig()
	req.NoError(err)
	req.Equal("/tmp/gb/guestbook.json", cfg.DataFile)
	req.Equal(90*time.Second, cfg.RateLimitWindow)
	req.Equal(domain.MarkupStrip, cfg.Limits().Markup)
	req.Equal(50, cfg.Limits().MaxMessages)
	req.Equal(0.5, cfg.FloodRPS)
}

func Test_LoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"STORE_BACKEND": "postgres",
		"MARKUP_POLICY": "allow",
		"MAX_MESSAGES":  "0",
		"STATS_BUCKET":  "hour",
		"FLOOD_BURST":   "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)

			_, err := loadConfig()
			require.Error(t, err)
		})
	}
}
