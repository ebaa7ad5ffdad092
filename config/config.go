// Package config carries the environment driven configuration surface for
// lingo. Callers embed LocalizationConfig in their own config structs or
// implement the Configuration* interfaces directly.
package config

import (
	"context"

	"github.com/caarlos0/env/v11"

	"github.com/pitabwire/lingo/internal/common"
)

const ctxKeyConfiguration = common.ContextKey("configurationKey")

// ToContext adds configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

// LocalizationConfig is the default configuration block for loading
// localisation resources.
type LocalizationConfig struct {
	LogLevel string `envDefault:"info" env:"LOG_LEVEL" yaml:"log_level"`

	ResourceDir     string   `envDefault:"localization" env:"LOCALIZATION_DIR"              yaml:"localization_dir"`
	DefaultLanguage string   `envDefault:"en"           env:"LOCALIZATION_DEFAULT_LANGUAGE" yaml:"localization_default_language"`
	Extensions      []string `env:"LOCALIZATION_EXTENSIONS"       yaml:"localization_extensions"`
	Watch           bool     `envDefault:"false"        env:"LOCALIZATION_WATCH"            yaml:"localization_watch"`
}

// LoggingLevel obtains the currently set logging level.
func (c *LocalizationConfig) LoggingLevel() string {
	return c.LogLevel
}

// GetResourceDir obtains the directory localisation resources load from.
func (c *LocalizationConfig) GetResourceDir() string {
	return c.ResourceDir
}

// GetDefaultLanguage obtains the fallback language tag.
func (c *LocalizationConfig) GetDefaultLanguage() string {
	return c.DefaultLanguage
}

// GetExtensions obtains the configured resource file extensions, empty
// meaning the loader defaults apply.
func (c *LocalizationConfig) GetExtensions() []string {
	return c.Extensions
}

// WatchForChanges reports whether the resource directory should be
// watched and reloaded on change.
func (c *LocalizationConfig) WatchForChanges() bool {
	return c.Watch
}

// ConfigurationLocalization defines the localisation configuration interface.
type ConfigurationLocalization interface {
	GetResourceDir() string
	GetDefaultLanguage() string
	GetExtensions() []string
	WatchForChanges() bool
}

// ConfigurationLogLevel defines the log level configuration interface.
type ConfigurationLogLevel interface {
	LoggingLevel() string
}
