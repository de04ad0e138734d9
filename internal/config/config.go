package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL       MySQLConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Platform    PlatformConfig
	Vercel      VercelConfig
	DomainCache DomainCacheConfig
	RateLimit   RateLimitConfig
	Migrate     bool
	HTTPAddr    string
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// PlatformConfig identifies the platform's own hosts and the DNS targets
// customers point their domains at.
type PlatformConfig struct {
	Domain          string
	PreviewSuffix   string
	EdgeCNAMETarget string
	AnycastIP       string
}

// VercelConfig holds the hosting provider API credentials
type VercelConfig struct {
	Token     string
	ProjectID string
	TeamID    string
}

// DomainCacheConfig holds resolver cache TTLs
type DomainCacheConfig struct {
	PositiveTTLSec int
	NegativeTTLSec int
}

// RateLimitConfig holds per-user domain mutation limits
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnv("REDIS_ENABLED", "1") == "1",
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "guestwall"),
		},
		Platform: PlatformConfig{
			Domain:          getEnv("PLATFORM_DOMAIN", "guestwall.io"),
			PreviewSuffix:   getEnv("PREVIEW_SUFFIX", ".vercel.app"),
			EdgeCNAMETarget: getEnv("EDGE_CNAME_TARGET", "edge.guestwall.io"),
			AnycastIP:       getEnv("ANYCAST_IP", "76.76.21.21"),
		},
		Vercel: VercelConfig{
			Token:     getEnv("VERCEL_API_TOKEN", ""),
			ProjectID: getEnv("VERCEL_PROJECT_ID", ""),
			TeamID:    getEnv("VERCEL_TEAM_ID", ""),
		},
		DomainCache: DomainCacheConfig{
			PositiveTTLSec: getEnvInt("DOMAIN_CACHE_TTL_SEC", 3600),
			NegativeTTLSec: getEnvInt("DOMAIN_NEGATIVE_TTL_SEC", 60),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("DOMAIN_RATE_LIMIT_PER_MIN", 10),
			Burst:     getEnvInt("DOMAIN_RATE_BURST", 10),
		},
		Migrate:  getEnv("MIGRATE", "0") == "1",
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// LoadFromINI loads configuration from INI file with environment variable override
func LoadFromINI(iniPath string) (*Config, error) {
	cfgFile, err := ini.Load(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load INI file: %w", err)
	}

	// Priority: ENV > INI > default
	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if value := cfgFile.Section(iniSection).Key(iniKey).String(); value != "" {
			return value
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if cfgFile.Section(iniSection).HasKey(iniKey) {
			if value, err := cfgFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if value, err := cfgFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
			Enabled:  getValueBool("REDIS_ENABLED", "redis", "enabled", true),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "guestwall"),
		},
		Platform: PlatformConfig{
			Domain:          getValue("PLATFORM_DOMAIN", "platform", "domain", "guestwall.io"),
			PreviewSuffix:   getValue("PREVIEW_SUFFIX", "platform", "preview_suffix", ".vercel.app"),
			EdgeCNAMETarget: getValue("EDGE_CNAME_TARGET", "platform", "edge_cname_target", "edge.guestwall.io"),
			AnycastIP:       getValue("ANYCAST_IP", "platform", "anycast_ip", "76.76.21.21"),
		},
		Vercel: VercelConfig{
			Token:     getValue("VERCEL_API_TOKEN", "vercel", "token", ""),
			ProjectID: getValue("VERCEL_PROJECT_ID", "vercel", "project_id", ""),
			TeamID:    getValue("VERCEL_TEAM_ID", "vercel", "team_id", ""),
		},
		DomainCache: DomainCacheConfig{
			PositiveTTLSec: getValueInt("DOMAIN_CACHE_TTL_SEC", "domain_cache", "ttl_sec", 3600),
			NegativeTTLSec: getValueInt("DOMAIN_NEGATIVE_TTL_SEC", "domain_cache", "negative_ttl_sec", 60),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getValueInt("DOMAIN_RATE_LIMIT_PER_MIN", "rate_limit", "per_minute", 10),
			Burst:     getValueInt("DOMAIN_RATE_BURST", "rate_limit", "burst", 10),
		},
		Migrate:  getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr: getValue("HTTP_ADDR", "http", "addr", ":8080"),
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
