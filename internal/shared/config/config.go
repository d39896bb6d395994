package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxFileSize = 10 << 20 // 10MB
	defaultMaxFiles    = 5
	defaultBodyLimit   = 10 << 20
)

// Config holds application configuration.
type Config struct {
	Port            string   `yaml:"port"`
	CORSAllowOrigin []string `yaml:"allowedOrigins"`
	UploadDir       string   `yaml:"uploadDir"`
	UploadURLPrefix string   `yaml:"uploadUrlPrefix"`
	MaxFileSize     int64    `yaml:"maxFileSize"`
	MaxFiles        int      `yaml:"maxFiles"`
	SniffUploads    bool     `yaml:"sniffUploads"`
	BodyLimit       int64    `yaml:"bodyLimit"`
	DatabaseURL     string   `yaml:"databaseUrl"`
	Env             string   `yaml:"env"`
	LogLevel        string   `yaml:"logLevel"`
	LogFile         string   `yaml:"logFile"`
	Version         string   `yaml:"version"`
}

// Load reads configuration from environment variables with sensible defaults.
// When CONFIG_FILE points at a YAML file its values override the environment.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:            getEnv("PORT", "3000"),
		CORSAllowOrigin: splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadURLPrefix: "/uploads",
		MaxFileSize:     getEnvInt64("MAX_FILE_SIZE", defaultMaxFileSize),
		MaxFiles:        int(getEnvInt64("MAX_FILES", defaultMaxFiles)),
		SniffUploads:    getEnvBool("UPLOAD_SNIFF_CONTENT", false),
		BodyLimit:       getEnvInt64("BODY_LIMIT", defaultBodyLimit),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Env:             getEnv("ENV", getEnv("NODE_ENV", "development")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         os.Getenv("LOG_FILE"),
		Version:         getEnv("APP_VERSION", "1.0.0"),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			log.Printf("config: %v", err)
		}
	}

	cfg.Normalize()
	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	return cfg
}

// Normalize fills zero values with defaults and canonicalizes the env name.
func (c *Config) Normalize() {
	c.Env = normalizeEnv(c.Env)
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.UploadURLPrefix == "" {
		c.UploadURLPrefix = "/uploads"
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = defaultMaxFileSize
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = defaultMaxFiles
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = defaultBodyLimit
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
}

// IsDevelopment reports whether error responses may carry diagnostic detail.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config env %s invalid bool: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "test":
		return "test"
	default:
		return "development"
	}
}
