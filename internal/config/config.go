package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	AppEnv   string `yaml:"appEnv"`
	LogLevel string `yaml:"logLevel"`

	// Empty DSN runs the API on the in-memory store.
	DatabaseDSN   string `yaml:"databaseDsn"`
	RunMigrations bool   `yaml:"runMigrations"`
	SeedDemoData  bool   `yaml:"seedDemoData"`

	RabbitMQURL string `yaml:"rabbitmqUrl"`

	GeminiAPIKey string `yaml:"geminiApiKey"`
	GeminiModel  string `yaml:"geminiModel"`

	// Client side (storefront CLI)
	ContentAPIURL   string        `yaml:"contentApiUrl"`
	UpstreamTimeout time.Duration `yaml:"upstreamTimeout"`
	SessionID       string        `yaml:"sessionId"`

	CORSAllowOrigins []string `yaml:"corsAllowOrigins"`
}

func Default() Config {
	return Config{
		Port:             "8080",
		AppEnv:           "dev",
		LogLevel:         "info",
		RunMigrations:    true,
		SeedDemoData:     true,
		GeminiModel:      "gemini-1.5-pro",
		ContentAPIURL:    "http://localhost:8080",
		UpstreamTimeout:  10 * time.Second,
		SessionID:        "guest-session",
		CORSAllowOrigins: []string{"*"},
	}
}

// Load builds the config from defaults, the optional YAML file named by
// CONFIG_FILE, then environment variables. Env wins over the file.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = getenv("PORT", c.Port)
	c.AppEnv = getenv("APP_ENV", c.AppEnv)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)

	c.DatabaseDSN = getenv("DATABASE_DSN", c.DatabaseDSN)
	c.RunMigrations = envBool("RUN_MIGRATIONS", c.RunMigrations)
	c.SeedDemoData = envBool("SEED_DEMO_DATA", c.SeedDemoData)

	c.RabbitMQURL = getenv("RABBITMQ_URL", c.RabbitMQURL)

	c.GeminiAPIKey = getenv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getenv("GEMINI_MODEL", c.GeminiModel)

	c.ContentAPIURL = getenv("CONTENT_API_URL", c.ContentAPIURL)
	c.UpstreamTimeout = parseDuration(os.Getenv("UPSTREAM_TIMEOUT"), c.UpstreamTimeout)
	c.SessionID = getenv("SESSION_ID", c.SessionID)

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); v != "" {
		c.CORSAllowOrigins = splitCSV(v)
	}
	if len(c.CORSAllowOrigins) == 0 {
		c.CORSAllowOrigins = []string{"*"}
	}
}

// UsesPostgres reports whether a database DSN is configured.
func (c Config) UsesPostgres() bool {
	return strings.TrimSpace(c.DatabaseDSN) != ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func envBool(key string, fallback bool) bool {
	switch strings.TrimSpace(os.Getenv(key)) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	if strings.TrimSpace(v) == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
