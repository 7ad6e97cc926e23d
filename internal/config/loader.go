// Package config loads CLI configuration from defaults, an optional
// config file, environment variables, and runtime overrides.
//
// Precedence (highest wins): runtime overrides > environment > config
// file > defaults. Environment variables use the BUCKETFS_ prefix with
// underscores for nesting, e.g. BUCKETFS_S3_ENDPOINT maps to
// "s3.endpoint".
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the root CLI configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	S3      S3Config      `mapstructure:"s3"`
	List    ListConfig    `mapstructure:"list"`

	// RequestTimeout bounds a single command invocation. Zero disables
	// the bound.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig controls CLI diagnostics.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `mapstructure:"level"`
}

// S3Config carries store connection defaults. Command flags override
// these per invocation.
type S3Config struct {
	Region         string `mapstructure:"region"`
	Endpoint       string `mapstructure:"endpoint"`
	Profile        string `mapstructure:"profile"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
	MaxKeys        int    `mapstructure:"max_keys"`
}

// ListConfig tunes listing behavior.
type ListConfig struct {
	// PageRateLimit caps listing page requests per second. Zero disables
	// the limiter.
	PageRateLimit float64 `mapstructure:"page_rate_limit"`
}

var (
	configMu  sync.Mutex
	appConfig *Config
)

// Load builds the configuration and installs it as the current config.
//
// Optional runtime overrides are nested maps mirroring the config
// structure; they take precedence over environment and file values.
// Load may be called again to reload with different overrides.
func Load(ctx context.Context, overrides ...map[string]any) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	configMu.Lock()
	defer configMu.Unlock()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("bucketfs")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/bucketfs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; defaults and env still apply.
	}

	v.SetEnvPrefix("BUCKETFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	for _, override := range overrides {
		applyOverrides(v, "", override)
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	appConfig = cfg
	return cfg, nil
}

// GetConfig returns the most recently loaded configuration, or nil if
// Load has not been called.
func GetConfig() *Config {
	configMu.Lock()
	defer configMu.Unlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.profile", "")
	v.SetDefault("s3.force_path_style", false)
	v.SetDefault("s3.max_keys", 1000)

	v.SetDefault("list.page_rate_limit", 0.0)

	v.SetDefault("request_timeout", "0s")
}

// bindEnvKeys makes AutomaticEnv reliable for keys that only exist as
// defaults; viper does not consult the environment for unset keys during
// Unmarshal without an explicit binding.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"logging.level",
		"s3.region",
		"s3.endpoint",
		"s3.profile",
		"s3.force_path_style",
		"s3.max_keys",
		"list.page_rate_limit",
		"request_timeout",
	} {
		_ = v.BindEnv(key)
	}
}

// applyOverrides flattens nested override maps into dotted keys.
func applyOverrides(v *viper.Viper, prefix string, values map[string]any) {
	for key, value := range values {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			applyOverrides(v, full, nested)
			continue
		}
		v.Set(full, value)
	}
}
