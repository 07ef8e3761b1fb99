package actions

import (
	"sync"
	"time"
)

// ActionConfig is an open-ended key/value configuration holder for
// connectors. Any key supplied at construction is readable back with the
// exact value given; typed getters convert on read and fall back when the
// key is missing or the value has the wrong shape. No schema is enforced.
type ActionConfig struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewActionConfig creates an ActionConfig from the supplied values. The map
// is copied, so later changes to the caller's map are not visible.
func NewActionConfig(values map[string]any) *ActionConfig {
	config := &ActionConfig{values: make(map[string]any, len(values))}
	for key, value := range values {
		config.values[key] = value
	}
	return config
}

// Set stores a configuration value, replacing any previous value.
func (c *ActionConfig) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Get returns the raw value for key and whether it was present.
func (c *ActionConfig) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.values[key]
	return value, ok
}

// Keys returns the configured keys in no particular order.
func (c *ActionConfig) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.values))
	for key := range c.values {
		keys = append(keys, key)
	}
	return keys
}

// GetString returns the string value for key, or fallback.
func (c *ActionConfig) GetString(key, fallback string) string {
	if value, ok := c.Get(key); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return fallback
}

// GetBool returns the bool value for key, or fallback.
func (c *ActionConfig) GetBool(key string, fallback bool) bool {
	if value, ok := c.Get(key); ok {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return fallback
}

// GetInt returns the integer value for key, or fallback. Float values with
// no fractional part are accepted since JSON decoding produces float64.
func (c *ActionConfig) GetInt(key string, fallback int) int {
	value, ok := c.Get(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return fallback
}

// GetFloat returns the float value for key, or fallback.
func (c *ActionConfig) GetFloat(key string, fallback float64) float64 {
	value, ok := c.Get(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return fallback
}

// GetDuration returns the duration value for key, or fallback. String values
// are parsed with time.ParseDuration; integer values are taken as seconds.
func (c *ActionConfig) GetDuration(key string, fallback time.Duration) time.Duration {
	value, ok := c.Get(key)
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	}
	return fallback
}
