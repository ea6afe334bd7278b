package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	pkglogger "github.com/marktrack/marktrack-backend/pkg/logger"
)

// Config application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Editor   EditorConfig   `yaml:"editor"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	Name            string `yaml:"name"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// StorageConfig S3/MinIO-compatible object storage settings
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	DocumentBucket  string `yaml:"document_bucket"`
	ImageBucket     string `yaml:"image_bucket"`
}

// EditorConfig document editor storage policy settings
type EditorConfig struct {
	// MaxInlineSize is the serialized-content threshold (bytes) above
	// which a document moves to object storage
	MaxInlineSize int `yaml:"max_inline_size"`
	// MaxDocumentSize is the hard cap (bytes) on submitted content
	MaxDocumentSize int `yaml:"max_document_size"`
	// KeepVersions bounds the per-document snapshot history
	KeepVersions int `yaml:"keep_versions"`
	// CacheTTLSeconds is the document payload cache lifetime
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	// AutosaveLockSeconds is the advisory edit lock lifetime
	AutosaveLockSeconds int `yaml:"autosave_lock_seconds"`
	// ShareExpiryHours is the default share link lifetime
	ShareExpiryHours int `yaml:"share_expiry_hours"`
}

// CacheTTL returns the cache TTL as a duration
func (e EditorConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

// AutosaveLockTTL returns the advisory lock TTL as a duration
func (e EditorConfig) AutosaveLockTTL() time.Duration {
	return time.Duration(e.AutosaveLockSeconds) * time.Second
}

// ShareExpiry returns the default share lifetime as a duration
func (e EditorConfig) ShareExpiry() time.Duration {
	return time.Duration(e.ShareExpiryHours) * time.Hour
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			Name:            "marktrack",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			DB:       0,
			PoolSize: 10,
		},
		Storage: StorageConfig{
			Endpoint:       "http://localhost:9500",
			Region:         "us-east-1",
			ForcePathStyle: true,
			DocumentBucket: "documents",
			ImageBucket:    "images",
		},
		Editor: EditorConfig{
			MaxInlineSize:       50000,
			MaxDocumentSize:     10 * 1024 * 1024,
			KeepVersions:        10,
			CacheTTLSeconds:     300,
			AutosaveLockSeconds: 30,
			ShareExpiryHours:    24 * 7,
		},
	}
}

// Load reads configuration: defaults, then the yaml file (if present),
// then environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideInt(&cfg.Server.Port, "SERVER_PORT")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")
	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	overrideString(&cfg.Storage.Region, "STORAGE_REGION")
	overrideString(&cfg.Storage.AccessKeyID, "STORAGE_ACCESS_KEY")
	overrideString(&cfg.Storage.SecretAccessKey, "STORAGE_SECRET_KEY")
	overrideString(&cfg.Storage.DocumentBucket, "STORAGE_DOCUMENT_BUCKET")
	overrideString(&cfg.Storage.ImageBucket, "STORAGE_IMAGE_BUCKET")
	overrideInt(&cfg.Editor.MaxInlineSize, "EDITOR_MAX_INLINE_SIZE")
	overrideInt(&cfg.Editor.MaxDocumentSize, "EDITOR_MAX_DOCUMENT_SIZE")
	overrideInt(&cfg.Editor.KeepVersions, "EDITOR_KEEP_VERSIONS")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// LogResolved logs the effective non-secret configuration
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Int("server_port", cfg.Server.Port).
		Str("db_host", cfg.Database.Host).
		Str("db_name", cfg.Database.Name).
		Str("redis_host", cfg.Redis.Host).
		Str("storage_endpoint", cfg.Storage.Endpoint).
		Int("max_inline_size", cfg.Editor.MaxInlineSize).
		Int("keep_versions", cfg.Editor.KeepVersions).
		Msg("configuration resolved")
}
