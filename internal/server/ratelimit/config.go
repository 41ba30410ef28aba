package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// EndpointConfig limits one endpoint. Paths ending in "/" match by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	// Limit requests are allowed per Window
	Limit  int
	Window time.Duration
	// Burst defaults to Limit
	Burst int
}

// DefaultConfig returns the limits used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits the endpoints that start AI work hardest
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// uploads and question generation fan out into many model calls
		{Path: "/decks", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/decks/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/sessions", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},

		{Path: "/questions/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables over DefaultConfig
func LoadConfig() *Config {
	return loadConfig(os.LookupEnv)
}

func loadConfig(lookup func(string) (string, bool)) *Config {
	cfg := DefaultConfig()
	if v, ok := lookup("RATE_LIMIT_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}
	if v, ok := lookup("RATE_LIMIT_DEFAULT_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultLimit = n
		}
	}
	if v, ok := lookup("RATE_LIMIT_DEFAULT_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DefaultWindow = d
		}
	}
	if v, ok := lookup("RATE_LIMIT_WHITELIST"); ok {
		cfg.Whitelist = parseIPList(v)
	}
	if v, ok := lookup("RATE_LIMIT_BLACKLIST"); ok {
		cfg.Blacklist = parseIPList(v)
	}
	return cfg
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
