// Package config provides configuration loading and validation for the API
// server, the worker and the CLI tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by Load
const (
	EnvAPIKey            = "GEMINI_API_KEY"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvRedisAddr         = "REDIS_ADDR"
	EnvUploadDir         = "UPLOAD_DIR"
	EnvLogMode           = "LOG_MODE"
	EnvAICallDelay       = "AI_CALL_DELAY"
	EnvAIMaxAttempts     = "AI_MAX_ATTEMPTS"
	EnvWorkerConcurrency = "WORKER_CONCURRENCY"
	EnvQueueName         = "QUEUE_NAME"
	EnvPort              = "PORT"
)

// Duration is a time.Duration that reads from JSON as "5s" or as seconds
type Duration time.Duration

// UnmarshalJSON accepts either a Go duration string or a number of seconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds")
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// MarshalJSON writes the duration as a Go duration string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns d as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the runtime configuration. Values come from defaults, then an
// optional JSON file, then the environment.
type Config struct {
	// External services
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisAddr   string `json:"redis_addr,omitempty"`   // empty disables Redis (in-memory queue, local throttle)

	// Storage
	UploadDir string `json:"upload_dir,omitempty" validate:"required"`

	// Behavior
	LogMode string `json:"log_mode,omitempty" validate:"oneof=dev prod"`
	Port    int    `json:"port,omitempty" validate:"min=1,max=65535"`

	// AI calls
	AICallDelay   Duration `json:"ai_call_delay,omitempty"`
	AIMaxAttempts int      `json:"ai_max_attempts,omitempty" validate:"min=1,max=10"`
	AIBaseWait    Duration `json:"ai_base_wait,omitempty"`
	AIStepWait    Duration `json:"ai_step_wait,omitempty"`

	// Jobs
	WorkerConcurrency int    `json:"worker_concurrency,omitempty" validate:"min=1,max=64"`
	QueueName         string `json:"queue_name,omitempty" validate:"required"`
}

var validate = validator.New()

// Default returns the built-in configuration
func Default() Config {
	return Config{
		UploadDir:         "uploads",
		LogMode:           "dev",
		Port:              8080,
		AICallDelay:       Duration(5 * time.Second),
		AIMaxAttempts:     5,
		AIBaseWait:        Duration(60 * time.Second),
		AIStepWait:        Duration(30 * time.Second),
		WorkerConcurrency: 2,
		QueueName:         "pitch:jobs",
	}
}

// Load builds the configuration: defaults, then the JSON file at path (when
// path is non-empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv in
// production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvAPIKey, &c.APIKey)
	str(EnvDatabaseURL, &c.DatabaseURL)
	str(EnvRedisAddr, &c.RedisAddr)
	str(EnvUploadDir, &c.UploadDir)
	str(EnvLogMode, &c.LogMode)
	str(EnvQueueName, &c.QueueName)

	ints := map[string]*int{
		EnvAIMaxAttempts:     &c.AIMaxAttempts,
		EnvWorkerConcurrency: &c.WorkerConcurrency,
		EnvPort:              &c.Port,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup(EnvAICallDelay); ok && strings.TrimSpace(v) != "" {
		d, err := parseDelay(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvAICallDelay, err)
		}
		c.AICallDelay = Duration(d)
	}
	return nil
}

// parseDelay accepts "5s" style durations or bare seconds
func parseDelay(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(v)
}

// Validate checks that the configuration has valid values. Service
// credentials are not required here; each command checks what it needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.AICallDelay < 0 {
		return fmt.Errorf("config error: 'ai_call_delay' must be non-negative")
	}
	if c.AIBaseWait < 0 || c.AIStepWait < 0 {
		return fmt.Errorf("config error: backoff waits must be non-negative")
	}
	return nil
}

// RequireAPIKey reports a configuration error when no Gemini key is set
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: %s is required", EnvAPIKey)
	}
	return nil
}

// RequireDatabase reports a configuration error when no database URL is set
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: %s is required", EnvDatabaseURL)
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.QueueName == "" {
		result.QueueName = defaults.QueueName
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AIMaxAttempts == 0 {
		result.AIMaxAttempts = defaults.AIMaxAttempts
	}
	if result.WorkerConcurrency == 0 {
		result.WorkerConcurrency = defaults.WorkerConcurrency
	}

	// a zero delay in the file is indistinguishable from unset
	if result.AICallDelay == 0 {
		result.AICallDelay = defaults.AICallDelay
	}
	if result.AIBaseWait == 0 {
		result.AIBaseWait = defaults.AIBaseWait
	}
	if result.AIStepWait == 0 {
		result.AIStepWait = defaults.AIStepWait
	}

	return result
}
