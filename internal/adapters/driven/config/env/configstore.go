package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Environment variables recognised by the overlay.
const (
	VarBackendURL     = "REFSHEET_BACKEND_URL"
	VarBackendTimeout = "REFSHEET_TIMEOUT"
)

// DefaultBindings maps environment variables to config keys.
func DefaultBindings() map[string]string {
	return map[string]string{
		VarBackendURL:     "backend.url",
		VarBackendTimeout: "backend.timeout",
	}
}

// ConfigStore reads bound keys from the environment before the wrapped store.
type ConfigStore struct {
	base      driven.ConfigStore
	overrides map[string]string
}

// NewConfigStore wraps base with the default bindings.
// dotenvFiles are read without modifying the process environment;
// missing files are skipped.
func NewConfigStore(base driven.ConfigStore, dotenvFiles ...string) (*ConfigStore, error) {
	return NewConfigStoreWithBindings(base, DefaultBindings(), os.LookupEnv, dotenvFiles...)
}

// NewConfigStoreWithBindings wraps base using explicit bindings and lookup.
func NewConfigStoreWithBindings(
	base driven.ConfigStore,
	bindings map[string]string,
	lookup func(string) (string, bool),
	dotenvFiles ...string,
) (*ConfigStore, error) {
	dotenv, err := readDotenv(dotenvFiles)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]string)
	for envVar, key := range bindings {
		if val, ok := lookup(envVar); ok && strings.TrimSpace(val) != "" {
			overrides[key] = strings.TrimSpace(val)
			logger.Debug("Config %s set from environment %s", key, envVar)
			continue
		}
		if val, ok := dotenv[envVar]; ok && strings.TrimSpace(val) != "" {
			overrides[key] = strings.TrimSpace(val)
			logger.Debug("Config %s set from .env %s", key, envVar)
		}
	}

	return &ConfigStore{base: base, overrides: overrides}, nil
}

// readDotenv merges the given .env files, earlier files winning.
func readDotenv(files []string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		for k, v := range values {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// Overridden returns true if key is set by the environment.
func (s *ConfigStore) Overridden(key string) bool {
	_, ok := s.overrides[key]
	return ok
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	if val, ok := s.overrides[key]; ok {
		return val, true
	}
	return s.base.Get(key)
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	if val, ok := s.overrides[key]; ok {
		return val
	}
	return s.base.GetString(key)
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	if val, ok := s.overrides[key]; ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return n
	}
	return s.base.GetInt(key)
}

// GetBool retrieves a boolean configuration value.
func (s *ConfigStore) GetBool(key string) bool {
	if val, ok := s.overrides[key]; ok {
		b, err := strconv.ParseBool(val)
		return err == nil && b
	}
	return s.base.GetBool(key)
}

// GetDuration retrieves a duration value, accepting "90s" or whole seconds.
func (s *ConfigStore) GetDuration(key string) time.Duration {
	val, ok := s.overrides[key]
	if !ok {
		return s.base.GetDuration(key)
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// GetStringSlice retrieves a comma separated override or the wrapped value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.overrides[key]
	if !ok {
		return s.base.GetStringSlice(key)
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Set writes through to the wrapped store.
// An environment override for the same key keeps taking precedence.
func (s *ConfigStore) Set(key string, value any) error {
	if s.Overridden(key) {
		logger.Warn("%s is overridden by the environment; the saved value applies once it is unset", key)
	}
	return s.base.Set(key, value)
}

// Save persists the wrapped store.
func (s *ConfigStore) Save() error {
	return s.base.Save()
}

// Load reloads the wrapped store. Environment overrides are fixed at construction.
func (s *ConfigStore) Load() error {
	return s.base.Load()
}

// Path returns the wrapped store's path.
func (s *ConfigStore) Path() string {
	return s.base.Path()
}
