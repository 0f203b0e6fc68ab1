package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused client limiter is kept.
	IdleTTL         time.Duration
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limits used by the server. exportsPerMinute
// bounds POST /export per client; zero disables that endpoint's limit but
// keeps the general one.
func DefaultConfig(exportsPerMinute int) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(exportsPerMinute),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs(exportsPerMinute int) []EndpointConfig {
	var configs []EndpointConfig

	// Export drives a headless browser, so it gets the strictest limit.
	if exportsPerMinute > 0 {
		configs = append(configs, EndpointConfig{
			Path: "/export", Method: http.MethodPost,
			Limit: exportsPerMinute, Window: time.Minute, Burst: min(exportsPerMinute, 2),
		})
	}

	// Edits arrive once per keystroke from a form, so they are generous.
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		configs = append(configs, EndpointConfig{
			Path: "/document/", Method: method, Limit: 1200, Window: time.Minute, Burst: 100,
		})
	}
	return configs
}
