package sqle

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	"github.com/linkedin/linkedin-calcite/sql"
)

const (
	typeCacheSizeKey = "TYPE_CACHE_SIZE"
	debugAnalyzerKey = "DEBUG_ANALYZER"
)

var (
	// ErrInvalidConfig is returned when a configuration file cannot be
	// read or decoded.
	ErrInvalidConfig = errors.NewKind("invalid configuration %s")

	// ErrUnknownConfigOption is returned when applying an option that does
	// not exist.
	ErrUnknownConfigOption = errors.NewKind("unknown configuration option %q")

	// ErrInvalidConfigOption is returned when an option value cannot be
	// converted to the type of the option.
	ErrInvalidConfigOption = errors.NewKind("invalid value for configuration option %q: %v")
)

// Config for the Engine.
type Config struct {
	// TypeCacheSize is the maximum number of canonical types kept in the
	// type cache. Zero disables the cache.
	TypeCacheSize int `yaml:"type_cache_size"`
	// Debug enables the debug logging of the analyzer.
	Debug bool `yaml:"debug"`
	// QuoteIdentifiers makes unparsed type specifications quote every
	// field name.
	QuoteIdentifiers bool `yaml:"quote_identifiers"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{TypeCacheSize: sql.DefaultTypeCacheSize}
}

// ReadConfig reads a YAML configuration file. Options missing from the
// file keep their default value.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, ErrInvalidConfig.Wrap(err, path)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return DefaultConfig(), ErrInvalidConfig.Wrap(err, path)
	}

	return cfg, nil
}

// Apply returns a copy of the configuration with the given options set.
// Keys are the YAML names of the options, values are converted to the
// type of the option.
func (c Config) Apply(opts map[string]interface{}) (Config, error) {
	for k, v := range opts {
		var err error
		switch strings.ToLower(k) {
		case "type_cache_size":
			c.TypeCacheSize, err = toDecimalInt(v)
		case "debug":
			c.Debug, err = cast.ToBoolE(v)
		case "quote_identifiers":
			c.QuoteIdentifiers, err = cast.ToBoolE(v)
		default:
			return c, ErrUnknownConfigOption.New(k)
		}

		if err != nil {
			return c, ErrInvalidConfigOption.Wrap(err, k, v)
		}
	}

	return c, nil
}

// ApplyEnv returns a copy of the configuration overridden by the
// TYPE_CACHE_SIZE and DEBUG_ANALYZER environment variables. Invalid
// values are logged and ignored.
func (c Config) ApplyEnv() Config {
	if v, ok := os.LookupEnv(typeCacheSizeKey); ok {
		size, err := toDecimalInt(v)
		if err != nil {
			logrus.WithField("value", v).Warnf("ignoring invalid %s", typeCacheSizeKey)
		} else {
			c.TypeCacheSize = size
		}
	}

	if _, ok := os.LookupEnv(debugAnalyzerKey); ok {
		c.Debug = true
	}

	return c
}

// toDecimalInt converts v to an int. Strings are always read in base 10:
// leading zeros are dropped and prefixes such as 0x are rejected.
func toDecimalInt(v interface{}) (int, error) {
	s, ok := v.(string)
	if !ok {
		return cast.ToIntE(v)
	}

	s = strings.TrimSpace(s)
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	if trimmed := strings.TrimLeft(s, "0"); trimmed != "" {
		s = trimmed
	} else if s != "" {
		s = "0"
	}

	return cast.ToIntE(sign + s)
}
