package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// WalletConfig holds the wallet ledger policy knobs.
type WalletConfig struct {
	// DailyReward is the amount granted per successful daily claim.
	DailyReward float64 `mapstructure:"daily_reward"`
	// Timezone is the IANA zone name governing the "same calendar day"
	// comparison for daily claims. The upstream behavior relied on the
	// server's local zone, which was never pinned down; we make it explicit.
	Timezone string `mapstructure:"timezone"`
	// AdminMode selects the admin-credit authorization policy:
	// "permissive" (any authenticated caller), "claim" (requires the
	// admin token claim), or "allowlist" (admin_ids below).
	AdminMode string   `mapstructure:"admin_mode"`
	AdminIDs  []string `mapstructure:"admin_ids"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ASW_ (Accessible Shop Wallet).
// Nested keys use underscore: ASW_DATABASE_HOST, ASW_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wallet")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "accessible-shop")
	v.SetDefault("wallet.daily_reward", 1.0)
	v.SetDefault("wallet.timezone", "UTC")
	v.SetDefault("wallet.admin_mode", "permissive")
	v.SetDefault("wallet.admin_ids", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ASW_DATABASE_HOST -> database.host
	v.SetEnvPrefix("ASW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Wallet.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (w WalletConfig) Location() (*time.Location, error) {
	return time.LoadLocation(w.Timezone)
}

func (w WalletConfig) validate() error {
	if w.DailyReward < 0 {
		return fmt.Errorf("wallet.daily_reward must not be negative, got %v", w.DailyReward)
	}
	switch w.AdminMode {
	case "permissive", "claim", "allowlist":
	default:
		return fmt.Errorf("wallet.admin_mode must be permissive, claim, or allowlist, got %q", w.AdminMode)
	}
	if _, err := w.Location(); err != nil {
		return fmt.Errorf("wallet.timezone: %w", err)
	}
	return nil
}
