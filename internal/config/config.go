// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/persistence"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment
// variables or CLI flags.
type Config struct {
	// Draft storage
	Store         string `json:"store,omitempty"`          // memory, file, redis, postgres or mysql
	StoreDir      string `json:"store_dir,omitempty"`      // Directory for the file store
	RedisAddr     string `json:"redis_addr,omitempty"`     // host:port
	RedisPassword string `json:"redis_password,omitempty"` // Redis AUTH password
	RedisDB       int    `json:"redis_db,omitempty"`       // Redis logical database
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	MySQLDSN      string `json:"mysql_dsn,omitempty"`      // MySQL DSN
	DraftKey      string `json:"draft_key,omitempty"`      // Slot name for the draft

	// Server
	Port int `json:"port,omitempty"`
	// ExportRatePerMinute is the per-client export limit. Unset means the
	// default; an explicit 0 disables the export-specific limit.
	ExportRatePerMinute *int `json:"export_rate_per_minute,omitempty"`

	// Export
	ChromePath           string `json:"chrome_path,omitempty"`     // Browser binary override
	CaptureTimeout       string `json:"capture_timeout,omitempty"` // Go duration, e.g. "60s"
	PageWidth            int    `json:"page_width,omitempty"`      // Layout width in CSS px
	MaxConcurrentExports int    `json:"max_concurrent_exports,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn or error
	LogFormat string `json:"log_format,omitempty"` // text or json
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store:                persistence.BackendFile,
		StoreDir:             ".resume-builder",
		RedisAddr:            "localhost:6379",
		DraftKey:             persistence.DefaultKey,
		Port:                 8080,
		ExportRatePerMinute:  intPtr(10),
		CaptureTimeout:       "60s",
		PageWidth:            794,
		MaxConcurrentExports: 1,
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays values from environment variables. getenv is usually
// os.Getenv; unset or empty variables leave the field alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"RESUME_STORE":     &c.Store,
		"RESUME_STORE_DIR": &c.StoreDir,
		"REDIS_ADDR":       &c.RedisAddr,
		"REDIS_PASSWORD":   &c.RedisPassword,
		"DATABASE_URL":     &c.DatabaseURL,
		"MYSQL_DSN":        &c.MySQLDSN,
		"RESUME_DRAFT_KEY": &c.DraftKey,
		"CHROME_PATH":      &c.ChromePath,
		"CAPTURE_TIMEOUT":  &c.CaptureTimeout,
		"LOG_LEVEL":        &c.LogLevel,
		"LOG_FORMAT":       &c.LogFormat,
	}
	for name, field := range str {
		if v := getenv(name); v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":               &c.RedisDB,
		"PORT":                   &c.Port,
		"PAGE_WIDTH":             &c.PageWidth,
		"MAX_CONCURRENT_EXPORTS": &c.MaxConcurrentExports,
	}
	for name, field := range ints {
		v := getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", name, err)
		}
		*field = n
	}

	if v := getenv("EXPORT_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: EXPORT_RATE_PER_MINUTE must be an integer: %w", err)
		}
		c.ExportRatePerMinute = &n
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Store != "" && !slices.Contains(persistence.Backends, c.Store) {
		return fmt.Errorf("config error: 'store' must be one of %s, got %q",
			strings.Join(persistence.Backends, ", "), c.Store)
	}
	switch c.Store {
	case persistence.BackendFile:
		if c.StoreDir == "" {
			return fmt.Errorf("config error: 'store_dir' is required for the file store")
		}
	case persistence.BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("config error: 'redis_addr' is required for the redis store")
		}
	case persistence.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	case persistence.BackendMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("config error: 'mysql_dsn' is required for the mysql store")
		}
	}

	// Validate numeric ranges
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.ExportRatePerMinute != nil && *c.ExportRatePerMinute < 0 {
		return fmt.Errorf("config error: 'export_rate_per_minute' must be non-negative")
	}
	if c.PageWidth < 0 {
		return fmt.Errorf("config error: 'page_width' must be non-negative")
	}
	if c.MaxConcurrentExports < 0 {
		return fmt.Errorf("config error: 'max_concurrent_exports' must be non-negative")
	}

	if c.CaptureTimeout != "" {
		d, err := time.ParseDuration(c.CaptureTimeout)
		if err != nil {
			return fmt.Errorf("config error: 'capture_timeout' is not a duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'capture_timeout' must be positive")
		}
	}

	if c.LogLevel != "" && !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}
	if c.LogFormat != "" && !slices.Contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("config error: unknown log format %q", c.LogFormat)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst, def *string }{
		{&result.Store, &defaults.Store},
		{&result.StoreDir, &defaults.StoreDir},
		{&result.RedisAddr, &defaults.RedisAddr},
		{&result.RedisPassword, &defaults.RedisPassword},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.MySQLDSN, &defaults.MySQLDSN},
		{&result.DraftKey, &defaults.DraftKey},
		{&result.ChromePath, &defaults.ChromePath},
		{&result.CaptureTimeout, &defaults.CaptureTimeout},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	// Int fields: use default if zero
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ExportRatePerMinute == nil && defaults.ExportRatePerMinute != nil {
		result.ExportRatePerMinute = intPtr(*defaults.ExportRatePerMinute)
	}
	if result.PageWidth == 0 {
		result.PageWidth = defaults.PageWidth
	}
	if result.MaxConcurrentExports == 0 {
		result.MaxConcurrentExports = defaults.MaxConcurrentExports
	}

	return result
}

// ExportRate returns the per-client export limit, zero when unset.
func (c *Config) ExportRate() int {
	if c.ExportRatePerMinute == nil {
		return 0
	}
	return *c.ExportRatePerMinute
}

func intPtr(n int) *int { return &n }

// CaptureTimeoutDuration parses CaptureTimeout. An empty or invalid value
// yields zero, which callers treat as their own default.
func (c *Config) CaptureTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.CaptureTimeout)
	if err != nil {
		return 0
	}
	return d
}

// Backend returns the persistence settings.
func (c *Config) Backend() persistence.BackendConfig {
	return persistence.BackendConfig{
		Type: c.Store,
		Dir:  c.StoreDir,
		Redis: persistence.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		},
		DatabaseURL: c.DatabaseURL,
		MySQLDSN:    c.MySQLDSN,
	}
}
