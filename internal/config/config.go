// Package config holds the runtime configuration of the lexvec CLI.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Keys under which settings live in viper. Environment variables use the
// LEXVEC_ prefix with dashes replaced by underscores, e.g. LEXVEC_CACHE_SIZE.
const (
	KeyDriver       = "driver"
	KeyDSN          = "dsn"
	KeyFeatureTable = "feature-table"
	KeyCacheSize    = "cache-size"
	KeyAtomicBatch  = "atomic-batch"
	KeyChangeLog    = "changelog"
	KeyLogLevel     = "log-level"
	KeyLogFormat    = "log-format"
	KeyMetricsFile  = "metrics-file"
)

const (
	defaultDSN       = "lexvec.db"
	defaultCacheSize = 1024
)

// Config is the configuration used to open a lexicon.
type Config struct {
	// Driver is the store backend: sqlite or bolt.
	Driver string
	// DSN is the SQLite DSN or the bbolt file path.
	DSN string
	// FeatureTable is an optional YAML feature table; empty selects the
	// built-in table.
	FeatureTable string
	// CacheSize bounds the record cache; 0 disables it.
	CacheSize int
	// AtomicBatch makes batch ingestion all-or-nothing.
	AtomicBatch bool
	// ChangeLog installs the write log triggers (sqlite only).
	ChangeLog bool
	LogLevel  string
	LogFormat string
	// MetricsFile, when set, receives the command's metrics in the
	// Prometheus text format once the command finishes.
	MetricsFile string
}

// SetDefaults registers default values and LEXVEC_* environment binding.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDriver, DriverSQLite)
	v.SetDefault(KeyDSN, defaultDSN)
	v.SetDefault(KeyCacheSize, defaultCacheSize)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix("lexvec")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Driver:       v.GetString(KeyDriver),
		DSN:          v.GetString(KeyDSN),
		FeatureTable: v.GetString(KeyFeatureTable),
		CacheSize:    v.GetInt(KeyCacheSize),
		AtomicBatch:  v.GetBool(KeyAtomicBatch),
		ChangeLog:    v.GetBool(KeyChangeLog),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		MetricsFile:  strings.TrimSpace(v.GetString(KeyMetricsFile)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration and fills in defaults.
func (c *Config) Validate() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case "":
		c.Driver = DriverSQLite
	case DriverSQLite, DriverBolt:
	case "bbolt":
		c.Driver = DriverBolt
	default:
		return errors.Errorf("unsupported driver %q", c.Driver)
	}
	if strings.TrimSpace(c.DSN) == "" {
		c.DSN = defaultDSN
	}
	if c.CacheSize < 0 {
		return errors.Errorf("cache size must not be negative, got %d", c.CacheSize)
	}
	if c.ChangeLog && c.Driver != DriverSQLite {
		return errors.Errorf("changelog requires the %s driver", DriverSQLite)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)
	switch c.LogFormat {
	case "":
		c.LogFormat = "text"
	case "text", "json":
	default:
		return errors.Errorf("unsupported log format %q", c.LogFormat)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}
