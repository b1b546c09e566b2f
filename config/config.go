// Package config loads csvlate settings from a project file and the
// environment.
//
// Settings come from, in increasing priority: built-in defaults, the
// .csvlate.yaml file in the working directory, environment variables (a
// .env file is loaded first when present) and command-line flags applied
// by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaguanLabs/csvlate"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default project file name.
const FileName = ".csvlate.yaml"

// Environment variables holding API keys.
const (
	EnvAPIKey       = "CSVLATE_API_KEY"
	EnvDeepLAPIKey  = "DEEPL_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// File is the .csvlate.yaml structure.
type File struct {
	InputDir     string `yaml:"input_dir,omitempty"`
	OutputDir    string `yaml:"output_dir,omitempty"`
	SourceColumn string `yaml:"source_column,omitempty"`
	Overwrite    bool   `yaml:"overwrite,omitempty"`
	Markup       bool   `yaml:"markup,omitempty"`

	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`

	// RequestsPerMinute paces service calls; 0 disables pacing.
	RequestsPerMinute int `yaml:"rpm,omitempty"`

	Retry Retry `yaml:"retry,omitempty"`
	Cache Cache `yaml:"cache,omitempty"`
}

// Retry configures per-cell retries.
type Retry struct {
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	BaseDelay   time.Duration `yaml:"base_delay,omitempty"` // e.g. "800ms"
}

// Cache configures the shared translation store.
type Cache struct {
	RedisURL string `yaml:"redis_url,omitempty"`
	File     string `yaml:"file,omitempty"` // JSON snapshot path
	TTL      int    `yaml:"ttl,omitempty"`  // Seconds, Redis only
}

// Default returns the built-in settings.
func Default() *File {
	def := csvlate.DefaultRetryConfig()
	return &File{
		InputDir:     "input",
		OutputDir:    "output",
		SourceColumn: csvlate.DefaultSourceColumn,
		Provider:     "deepl",
		Retry: Retry{
			MaxAttempts: def.MaxRetries,
			BaseDelay:   def.BaseDelay,
		},
	}
}

// Load reads FileName from dir over the defaults. A missing file yields
// the defaults.
func Load(dir string) (*File, error) {
	return LoadPath(filepath.Join(dir, FileName))
}

// LoadPath reads the project file at path over the defaults.
func LoadPath(path string) (*File, error) {
	f := Default()

	data, err := os.ReadFile(path) // #nosec G304 - path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate rejects settings no run could use.
func (f *File) Validate() error {
	if f.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.max_attempts must not be negative")
	}
	if f.Retry.BaseDelay < 0 {
		return fmt.Errorf("retry.base_delay must not be negative")
	}
	if f.RequestsPerMinute < 0 {
		return fmt.Errorf("rpm must not be negative")
	}
	if f.Cache.RedisURL != "" && f.Cache.File != "" {
		return fmt.Errorf("cache.redis_url and cache.file are mutually exclusive")
	}
	return nil
}

// Save writes f to path with owner-only permissions, since it may hold an
// API key.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RetryConfig converts the retry settings for the row processor.
func (f *File) RetryConfig() csvlate.RetryConfig {
	cfg := csvlate.DefaultRetryConfig()
	if f.Retry.MaxAttempts > 0 {
		cfg.MaxRetries = f.Retry.MaxAttempts
	}
	if f.Retry.BaseDelay > 0 {
		cfg.BaseDelay = f.Retry.BaseDelay
	}
	return cfg
}

// LoadEnv loads variables from the given .env files that exist. Variables
// already set in the environment win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, name := range files {
		if _, err := os.Stat(name); err == nil {
			existing = append(existing, name)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ResolveAPIKey returns the API key and where it came from. The lookup
// order is the flag value, CSVLATE_API_KEY, the provider's own variable
// and finally the project file.
func ResolveAPIKey(flagValue, provider string, f *File, getenv func(string) string) (key, source string) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, "flag"
	}

	if getenv == nil {
		getenv = os.Getenv
	}

	envs := []string{EnvAPIKey}
	switch strings.ToLower(provider) {
	case "", "deepl":
		envs = append(envs, EnvDeepLAPIKey)
	case "openai":
		envs = append(envs, EnvOpenAIAPIKey)
	}
	for _, name := range envs {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v, name
		}
	}

	if f != nil {
		if v := strings.TrimSpace(f.APIKey); v != "" {
			return v, FileName
		}
	}
	return "", ""
}
