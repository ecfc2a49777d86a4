package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"vibemap-backend/sui"
)

const DefaultSuiRPCURL = "https://fullnode.testnet.sui.io:443"

type Config struct {
	// Server
	Port        string
	CORSOrigins []string

	// Database
	DatabaseURL string

	// Sui
	SuiRPCURL        string
	SuiRPCTimeout    time.Duration
	PackageID        string
	Module           string
	Function         string
	GasBudget        uint64
	StampEventMarker string
	// ExplicitRecipient appends the user address to the check_in call.
	ExplicitRecipient bool

	// Admin wallet. A seed phrase takes precedence over a private key.
	WalletSeedPhrase string
	WalletPrivateKey string
	WalletKeyScheme  string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	RateLimitEnabled bool
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		SuiRPCURL:         strings.TrimSuffix(getEnv("SUI_RPC_URL", DefaultSuiRPCURL), "/"),
		SuiRPCTimeout:     getEnvDuration("SUI_RPC_TIMEOUT", sui.DefaultRPCTimeout),
		PackageID:         getEnv("PACKAGE_ID", ""),
		Module:            getEnv("SUI_MODULE", sui.DefaultModule),
		Function:          getEnv("SUI_FUNCTION", sui.DefaultFunction),
		GasBudget:         uint64(getEnvInt("GAS_BUDGET", int(sui.DefaultGasBudget))),
		StampEventMarker:  getEnv("STAMP_EVENT_MARKER", sui.DefaultStampEventMarker),
		ExplicitRecipient: getEnvBool("EXPLICIT_RECIPIENT", false),

		WalletSeedPhrase: strings.TrimSpace(os.Getenv("BACKEND_WALLET_SEED_PHRASE")),
		WalletPrivateKey: strings.TrimSpace(os.Getenv("BACKEND_WALLET_PRIVATE_KEY")),
		WalletKeyScheme:  getEnv("BACKEND_WALLET_KEY_SCHEME", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitMax:     getEnvInt("RATE_LIMIT_MAX", 10),
		RateLimitWindow:  getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
	}
}

// HasWallet reports whether any admin key material is configured. Without
// it only the mock check-in path works.
func (c *Config) HasWallet() bool {
	return c.WalletSeedPhrase != "" || c.WalletPrivateKey != ""
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
	}
	if c.SuiRPCURL == "" {
		errs = append(errs, errors.New("SUI_RPC_URL must not be empty"))
	}
	if c.SuiRPCTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SUI_RPC_TIMEOUT must be positive, got %s", c.SuiRPCTimeout))
	}
	if c.GasBudget == 0 {
		errs = append(errs, errors.New("GAS_BUDGET must be positive"))
	}
	if c.HasWallet() && c.PackageID == "" {
		errs = append(errs, errors.New("PACKAGE_ID is required when an admin wallet is configured"))
	}
	switch c.WalletKeyScheme {
	case "", "ed25519", "secp256k1":
	default:
		errs = append(errs, fmt.Errorf("BACKEND_WALLET_KEY_SCHEME %q is not supported", c.WalletKeyScheme))
	}
	if c.RateLimitEnabled && (c.RateLimitMax < 1 || c.RateLimitWindow <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
