package config

import (
	"strings"
	"testing"
	"time"

	"vibemap-backend/sui"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SUI_RPC_URL", "SUI_RPC_TIMEOUT", "GAS_BUDGET", "SUI_MODULE", "CORS_ALLOWED_ORIGINS", "BACKEND_WALLET_SEED_PHRASE", "BACKEND_WALLET_PRIVATE_KEY"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SuiRPCURL != DefaultSuiRPCURL {
		t.Errorf("SuiRPCURL = %q", cfg.SuiRPCURL)
	}
	if cfg.SuiRPCTimeout != sui.DefaultRPCTimeout || cfg.GasBudget != sui.DefaultGasBudget {
		t.Errorf("timeout/budget = %s/%d", cfg.SuiRPCTimeout, cfg.GasBudget)
	}
	if cfg.Module != "venue_registry" || cfg.Function != "check_in" {
		t.Errorf("target = %s::%s", cfg.Module, cfg.Function)
	}
	if cfg.CORSOrigins != nil {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.HasWallet() {
		t.Error("HasWallet with no key material")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUI_RPC_URL", "http://localhost:9000/")
	t.Setenv("SUI_RPC_TIMEOUT", "5s")
	t.Setenv("GAS_BUDGET", "20000000")
	t.Setenv("EXPLICIT_RECIPIENT", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://vibemap.app, http://localhost:3000,")
	t.Setenv("BACKEND_WALLET_SEED_PHRASE", "  word word  ")
	t.Setenv("RATE_LIMIT_WINDOW", "not-a-duration")

	cfg := Load()
	if cfg.SuiRPCURL != "http://localhost:9000" {
		t.Errorf("SuiRPCURL = %q", cfg.SuiRPCURL)
	}
	if cfg.SuiRPCTimeout != 5*time.Second || cfg.GasBudget != 20_000_000 || !cfg.ExplicitRecipient {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.WalletSeedPhrase != "word word" || !cfg.HasWallet() {
		t.Errorf("WalletSeedPhrase = %q", cfg.WalletSeedPhrase)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("bad duration should fall back, got %s", cfg.RateLimitWindow)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL:      "postgres://localhost/vibemap",
			SuiRPCURL:        DefaultSuiRPCURL,
			SuiRPCTimeout:    time.Second,
			GasBudget:        1,
			RateLimitEnabled: true,
			RateLimitMax:     1,
			RateLimitWindow:  time.Second,
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no database", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"no timeout", func(c *Config) { c.SuiRPCTimeout = 0 }, "SUI_RPC_TIMEOUT"},
		{"no gas budget", func(c *Config) { c.GasBudget = 0 }, "GAS_BUDGET"},
		{"unknown scheme", func(c *Config) { c.WalletKeyScheme = "bls" }, "BACKEND_WALLET_KEY_SCHEME"},
		{"wallet without package", func(c *Config) { c.WalletPrivateKey = "0x01" }, "PACKAGE_ID"},
		{"zero rate limit", func(c *Config) { c.RateLimitMax = 0 }, "RATE_LIMIT_MAX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
