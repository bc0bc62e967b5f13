package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverConfig is the merged result of defaults, configstore.yaml,
// CONFIGSTORE_* environment variables and command-line flags.
type serverConfig struct {
	ListenAddr    string        `mapstructure:"listen-addr"`
	Storage       string        `mapstructure:"storage"`
	DSN           string        `mapstructure:"dsn"`
	Cache         string        `mapstructure:"cache"`
	CacheTTL      time.Duration `mapstructure:"cache-ttl"`
	CacheCapacity uint64        `mapstructure:"cache-capacity"`
	RedisAddr     string        `mapstructure:"redis-addr"`
	RedisPassword string        `mapstructure:"redis-password"`
	RedisDB       int           `mapstructure:"redis-db"`
	LogLevel      string        `mapstructure:"log-level"`
	SyncTimeout   time.Duration `mapstructure:"sync-timeout"`
	EncryptionKey string        `mapstructure:"encryption-key"`
}

var defaults = map[string]any{
	"listen-addr":    ":8080",
	"storage":        "sqlite",
	"dsn":            "configstore.db",
	"cache":          "memory",
	"cache-ttl":      time.Duration(0),
	"cache-capacity": 0,
	"redis-addr":     "localhost:6379",
	"redis-password": "",
	"redis-db":       0,
	"log-level":      "info",
	"sync-timeout":   30 * time.Second,
	"encryption-key": "",
}

func addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "config file (default: ./configstore.yaml if present)")
	f.String("listen-addr", ":8080", "HTTP listen address")
	f.String("storage", "sqlite", `storage backend ("sqlite", "postgres", "memory")`)
	f.String("dsn", "configstore.db", "SQLite file path or PostgreSQL connection string")
	f.String("cache", "memory", `cache backend ("memory", "ttl", "redis", "none")`)
	f.Duration("cache-ttl", 0, "cache entry lifetime; 0 keeps entries until invalidated (redis: 24h)")
	f.Uint64("cache-capacity", 0, "maximum entries for the ttl cache; 0 is unbounded")
	f.String("redis-addr", "localhost:6379", "Redis address")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")
	f.String("log-level", "info", `log level ("debug", "info", "warn", "error")`)
	f.Duration("sync-timeout", 30*time.Second, "timeout for blocking store calls; 0 disables it")
	f.String("encryption-key", "", "encrypt payloads with this key material (at least 32 bytes)")
}

// loadConfig resolves the server configuration for cmd. Precedence, highest
// first: flags, environment, config file, defaults.
func loadConfig(cmd *cobra.Command) (serverConfig, error) {
	var c serverConfig
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("configstore")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("configstore")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, c.validate()
}

func (c serverConfig) validate() error {
	switch c.Storage {
	case "sqlite", "memory":
	case "postgres":
		if c.DSN == "" {
			return errors.New("postgres storage needs a dsn")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	switch c.Cache {
	case "memory", "ttl", "redis", "none":
	default:
		return fmt.Errorf("unknown cache %q", c.Cache)
	}
	return nil
}
