package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakline/media_bridge/pkg/storage"
)

// Config captures service level configuration loaded from config.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
	Upload   UploadConfig   `yaml:"upload"`
	Storage  storage.Config `yaml:"storage"`
	Assets   AssetsConfig   `yaml:"assets"`
	Redis    RedisConfig    `yaml:"redis"`
}

// RedisConfig defines Redis connection settings for the admin write lock.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// UploadConfig defines file upload constraints.
type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// AssetsConfig defines URL resolution settings for stored assets.
type AssetsConfig struct {
	// Development switches resolved URLs to root-relative paths for the
	// same-origin dev proxy.
	Development bool   `yaml:"development"`
	Host        string `yaml:"host"`
	LegacyHost  string `yaml:"legacy_host"`
	Placeholder string `yaml:"placeholder"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig defines the database backend configuration.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the
// binary executable. A missing file falls back to defaults.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	return &parsed, nil
}

// MustLoad loads configuration or exits the process.
func MustLoad(name string) *Config {
	cfg, err := Load(name)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/media.db",
			},
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
		Upload: UploadConfig{
			MaxSize: 50 * 1024 * 1024, // 50MB
			AllowedTypes: []string{
				"image/jpeg",
				"image/png",
				"image/gif",
				"image/webp",
				"image/svg+xml",
				"image/bmp",
				"image/x-ms-bmp",
				"image/tiff",
				"image/x-icon",
				"image/vnd.microsoft.icon",
				"image/heic",
				"image/heif",
			},
		},
		Storage: storage.DefaultConfig(),
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/media.db"
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = 50 * 1024 * 1024
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = defaultConfig().Upload.AllowedTypes
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Type == "local" && cfg.Storage.Local.BasePath == "" {
		cfg.Storage.Local.BasePath = "data/uploads"
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
