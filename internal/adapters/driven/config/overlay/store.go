// Package overlay layers runtime overrides on top of a persistent config store.
//
// Overrides come from a viper instance: NERSTAT_* environment variables and
// command-line flags bound to setting keys. Reads prefer an override when one
// is set; writes always go to the underlying store, so overrides never leak
// into the config file.
package overlay

import (
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/custodia-labs/nerstat/internal/core/ports/driven"
)

// EnvPrefix is the environment variable prefix for overrides.
const EnvPrefix = "NERSTAT"

// Ensure Store implements the interface.
var _ driven.ConfigStore = (*Store)(nil)

// Store reads overrides first and falls back to base.
type Store struct {
	base driven.ConfigStore
	v    *viper.Viper
}

// NewViper returns a viper instance reading NERSTAT_* variables,
// mapping "extractor.base_url" to NERSTAT_EXTRACTOR_BASE_URL.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// New wraps base with the overrides in v.
func New(base driven.ConfigStore, v *viper.Viper) *Store {
	if v == nil {
		v = NewViper()
	}
	return &Store{base: base, v: v}
}

// Overridden reports whether key has a runtime override.
func (s *Store) Overridden(key string) bool {
	return s.v.IsSet(key)
}

// Get returns the override or the stored value.
func (s *Store) Get(key string) (any, bool) {
	if s.v.IsSet(key) {
		return s.v.Get(key), true
	}
	return s.base.Get(key)
}

// GetString returns the override or the stored value.
func (s *Store) GetString(key string) string {
	if s.v.IsSet(key) {
		return s.v.GetString(key)
	}
	return s.base.GetString(key)
}

// GetInt returns the override or the stored value.
func (s *Store) GetInt(key string) int {
	if s.v.IsSet(key) {
		return s.v.GetInt(key)
	}
	return s.base.GetInt(key)
}

// GetFloat returns the override or the stored value.
func (s *Store) GetFloat(key string) float64 {
	if s.v.IsSet(key) {
		return s.v.GetFloat64(key)
	}
	return s.base.GetFloat(key)
}

// GetBool returns the override or the stored value.
func (s *Store) GetBool(key string) bool {
	if s.v.IsSet(key) {
		return s.v.GetBool(key)
	}
	return s.base.GetBool(key)
}

// GetStringSlice returns the override or the stored value.
// A string override is split on commas.
func (s *Store) GetStringSlice(key string) []string {
	if !s.v.IsSet(key) {
		return s.base.GetStringSlice(key)
	}
	if raw, ok := s.v.Get(key).(string); ok {
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return s.v.GetStringSlice(key)
}

// Set stores value in the base store.
func (s *Store) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Save persists the base store.
func (s *Store) Save() error {
	return s.base.Save()
}

// Load reloads the base store.
func (s *Store) Load() error {
	return s.base.Load()
}

// Path returns the base store path.
func (s *Store) Path() string {
	return s.base.Path()
}

// Keys returns stored keys plus explicitly overridden ones, sorted.
// Environment variables are only visible through Get.
func (s *Store) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range append(s.base.Keys(), s.v.AllKeys()...) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
