package host

import (
	"io"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sectrean/component-kit/internal/errors"
)

// Config is a read-only key/value store loaded from dotenv files.
// It is bound in every hosted Container as "config".
type Config struct {
	values map[string]string
}

// NewConfig creates a [Config] holding a copy of values.
func NewConfig(values map[string]string) *Config {
	return &Config{values: maps.Clone(values)}
}

// LoadConfig reads the given dotenv files. Later files override earlier ones.
// With no filenames, ".env" is read.
func LoadConfig(filenames ...string) (*Config, error) {
	values, err := godotenv.Read(filenames...)
	if err != nil {
		return nil, errors.Wrap(err, "host.LoadConfig")
	}

	return &Config{values: values}, nil
}

// ParseConfig reads dotenv formatted values from r.
func ParseConfig(r io.Reader) (*Config, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "host.ParseConfig")
	}

	return &Config{values: values}, nil
}

// Get returns the raw value for key.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value for key, or def if it is not set.
func (c *Config) String(key, def string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// Int returns the value for key parsed as an int, or def if it is not set.
func (c *Config) Int(key string, def int) (int, error) {
	v, ok := c.values[key]
	if !ok {
		return def, nil
	}

	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, errors.Wrapf(err, "config %s", key)
	}
	return i, nil
}

// Bool returns the value for key parsed with [strconv.ParseBool], or def if it is not set.
func (c *Config) Bool(key string, def bool) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return def, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, errors.Wrapf(err, "config %s", key)
	}
	return b, nil
}

// Duration returns the value for key parsed with [time.ParseDuration], or def if it is not set.
func (c *Config) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := c.values[key]
	if !ok {
		return def, nil
	}

	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def, errors.Wrapf(err, "config %s", key)
	}
	return d, nil
}

// Keys returns every key in the store, in no particular order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// LogValue implements [slog.LogValuer]. Values are left out of logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("keys", len(c.values)))
}
