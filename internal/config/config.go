// Package config loads betterform settings from an optional YAML file,
// BETTERFORM_ prefixed environment variables and bound command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "BETTERFORM"
	ConfigName      = ".betterform"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendObject   = "object"
)

// Config is the resolved configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
}

type ServerConfig struct {
	Addr       string
	BaseURL    string
	CORSOrigin string
}

type StoreConfig struct {
	Backend       string
	TTL           time.Duration
	SweepInterval time.Duration
	Postgres      PostgresConfig
	Object        ObjectConfig
}

type PostgresConfig struct {
	DSN         string
	Table       string
	CreateTable bool
}

type ObjectConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
	Prefix    string
}

type LogConfig struct {
	Level string
}

// New returns a viper instance with defaults, env binding and the default
// config file search path applied. configFile overrides the search.
func New(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.ttl", 24*time.Hour)
	v.SetDefault("store.sweep_interval", time.Minute)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("store.postgres.table", "registries")
	v.SetDefault("store.postgres.create_table", true)
	v.SetDefault("store.object.endpoint", "")
	v.SetDefault("store.object.bucket", "")
	v.SetDefault("store.object.access_key", "")
	v.SetDefault("store.object.secret_key", "")
	v.SetDefault("store.object.secure", true)
	v.SetDefault("store.object.prefix", "registries/")
	v.SetDefault("log.level", "info")
}

// BindFlags maps flag names onto config keys, for example
// {"addr": "server.addr"}. Unknown flags are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the config file when present and resolves all keys. A missing
// default config file is not an error; an explicitly named one is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:       v.GetString("server.addr"),
			BaseURL:    strings.TrimRight(v.GetString("server.base_url"), "/"),
			CORSOrigin: v.GetString("server.cors_origin"),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(strings.TrimSpace(v.GetString("store.backend"))),
			TTL:           v.GetDuration("store.ttl"),
			SweepInterval: v.GetDuration("store.sweep_interval"),
			Postgres: PostgresConfig{
				DSN:         v.GetString("store.postgres.dsn"),
				Table:       v.GetString("store.postgres.table"),
				CreateTable: v.GetBool("store.postgres.create_table"),
			},
			Object: ObjectConfig{
				Endpoint:  v.GetString("store.object.endpoint"),
				Bucket:    v.GetString("store.object.bucket"),
				AccessKey: v.GetString("store.object.access_key"),
				SecretKey: v.GetString("store.object.secret_key"),
				Secure:    v.GetBool("store.object.secure"),
				Prefix:    v.GetString("store.object.prefix"),
			},
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at startup.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Store.TTL <= 0 {
		errs = append(errs, fmt.Errorf("store.ttl must be positive, got %s", c.Store.TTL))
	}
	if c.Store.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("store.sweep_interval must be positive, got %s", c.Store.SweepInterval))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, errors.New("store.postgres.dsn is required for the postgres backend"))
		}
	case BackendObject:
		if c.Store.Object.Endpoint == "" || c.Store.Object.Bucket == "" {
			errs = append(errs, errors.New("store.object.endpoint and store.object.bucket are required for the object backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// Logger builds a logrus logger for the configured level.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
