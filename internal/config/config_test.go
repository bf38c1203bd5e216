package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			env: map[string]string{
				"ACCESS_TOKEN_SECRET":  "access",
				"REFRESH_TOKEN_SECRET": "refresh",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
				assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
				assert.Equal(t, 10, cfg.BcryptCost)
				assert.False(t, cfg.IsProduction())
				assert.False(t, cfg.CookieSecure())
				assert.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite())
			},
		},
		{
			name: "production with custom ttls",
			env: map[string]string{
				"ENVIRONMENT":          "production",
				"ACCESS_TOKEN_SECRET":  "access",
				"REFRESH_TOKEN_SECRET": "refresh",
				"ACCESS_TOKEN_TTL":     "5m",
				"REFRESH_TOKEN_TTL":    "3600",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
				assert.Equal(t, time.Hour, cfg.RefreshTokenTTL)
				assert.True(t, cfg.CookieSecure())
				assert.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite())
			},
		},
		{
			name:    "missing access secret",
			env:     map[string]string{"REFRESH_TOKEN_SECRET": "refresh"},
			wantErr: true,
		},
		{
			name: "shared secret rejected",
			env: map[string]string{
				"ACCESS_TOKEN_SECRET":  "same",
				"REFRESH_TOKEN_SECRET": "same",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ACCESS_TOKEN_SECRET", "")
			t.Setenv("REFRESH_TOKEN_SECRET", "")
			t.Setenv("ENVIRONMENT", "development")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
