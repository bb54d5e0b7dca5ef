package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverLibSQL   = "libsql"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	// Driver is one of "sqlite", "libsql" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// DSN is a file path for sqlite, a libsql:// URL for libsql, or a
	// postgres:// connection string.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`
	Mode           string   `mapstructure:"mode" yaml:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// StorageConfig holds object storage settings for brief attachments.
type StorageConfig struct {
	Bucket         string `mapstructure:"bucket" yaml:"bucket"`
	PublicBaseURL  string `mapstructure:"public_base_url" yaml:"public_base_url"`
	GoogleAccessID string `mapstructure:"google_access_id" yaml:"google_access_id"`

	// PrivateKey is a PEM service account key used to sign upload policies.
	// When empty, PrivateKeyRef names a system keyring entry holding it.
	PrivateKey    string `mapstructure:"private_key" yaml:"private_key"`
	PrivateKeyRef string `mapstructure:"private_key_ref" yaml:"private_key_ref"`

	UploadTTLSec int `mapstructure:"upload_ttl_sec" yaml:"upload_ttl_sec"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/contenthub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "contenthub", "config.yaml")
}

// DefaultDatabasePath returns the default SQLite file next to the config.
func DefaultDatabasePath() string {
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "contenthub.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    DefaultDatabasePath(),
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "debug",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:5173",
			},
		},
		Storage: StorageConfig{
			PrivateKeyRef: "gcs-signing-key",
			UploadTTLSec:  3600,
		},
		Log: LogConfig{Mode: "development"},
	}
}

// newViper builds a viper instance with defaults and CONTENTHUB_* env overrides.
func newViper(path string) *viper.Viper {
	d := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("contenthub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and so that
	// AutomaticEnv can see every key.
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("storage.bucket", d.Storage.Bucket)
	v.SetDefault("storage.public_base_url", d.Storage.PublicBaseURL)
	v.SetDefault("storage.google_access_id", d.Storage.GoogleAccessID)
	v.SetDefault("storage.private_key", d.Storage.PrivateKey)
	v.SetDefault("storage.private_key_ref", d.Storage.PrivateKeyRef)
	v.SetDefault("storage.upload_ttl_sec", d.Storage.UploadTTLSec)
	v.SetDefault("log.mode", d.Log.Mode)
	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults plus environment overrides apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields the application cannot run without.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverLibSQL, DriverPostgres:
	default:
		return &ConfigError{
			Component: "database",
			Message:   fmt.Sprintf("unsupported driver %q", c.Database.Driver),
		}
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return &ConfigError{Component: "database", Message: "dsn is empty"}
	}
	if c.Storage.UploadTTLSec <= 0 {
		c.Storage.UploadTTLSec = 3600
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("server", cfg.Server)
	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
