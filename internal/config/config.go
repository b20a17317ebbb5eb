// Package config loads boxrender settings from defaults, an optional YAML
// file and BOXRENDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// BOXRENDER_VIEWPORT_WIDTH.
const EnvPrefix = "BOXRENDER"

// DefaultConfigName is the config file looked up in the working directory
// when no explicit file is given.
const DefaultConfigName = "boxrender"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all settings.
type Config struct {
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Batch    BatchConfig    `mapstructure:"batch" yaml:"batch"`
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
}

// ViewportConfig is the size of the area documents are laid out and painted
// into, in pixels.
type ViewportConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// RenderConfig switches optional pipeline stages.
type RenderConfig struct {
	// UserAgentStyles cascades the built-in display defaults beneath the
	// author stylesheet.
	UserAgentStyles bool `mapstructure:"user_agent_styles" yaml:"user_agent_styles"`
	// EmbeddedStyles adds the contents of <style> elements as author
	// stylesheets.
	EmbeddedStyles bool `mapstructure:"embedded_styles" yaml:"embedded_styles"`
	// InlineStyles applies style attributes.
	InlineStyles bool `mapstructure:"inline_styles" yaml:"inline_styles"`
	// ImportantDeclarations enables the !important pass.
	ImportantDeclarations bool `mapstructure:"important_declarations" yaml:"important_declarations"`
}

// BatchConfig controls the batch command.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)

	v.SetDefault("render.user_agent_styles", false)
	v.SetDefault("render.embedded_styles", false)
	v.SetDefault("render.inline_styles", false)
	v.SetDefault("render.important_declarations", false)

	v.SetDefault("batch.concurrency", 4)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "boxrender")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
}

// NewDefaultConfig returns the configuration made of defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads configuration into v and returns it. An explicit path must
// exist; without one, ./boxrender.yaml is used when present. Environment
// variables override the file, which overrides the defaults.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("error expanding config path: %w", err)
		}
		v.SetConfigFile(expanded)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 {
		return fmt.Errorf("%w: viewport.width must be a positive integer", ErrInvalidConfig)
	}
	if c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport.height must be a positive integer", ErrInvalidConfig)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("%w: batch.concurrency must be a positive integer", ErrInvalidConfig)
	}
	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logger.format must be json or console, got %q", ErrInvalidConfig, c.Logger.Format)
	}
	return nil
}
