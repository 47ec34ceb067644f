package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for nftlayers configuration.
const envPrefix = "NFTL"

// DefaultConfigFile is read from the working directory when no --config
// flag is given.
const DefaultConfigFile = "nftlayers.yaml"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader with defaults registered.
func NewLoader() *Loader {
	v := viper.New()

	// Set up environment variable bindings
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("count", d.Count)
	v.SetDefault("categories", d.Categories)
	v.SetDefault("layers_dir", d.LayersDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("attempt_multiplier", d.AttemptMultiplier)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("failure_policy", d.FailurePolicy)
	v.SetDefault("metadata.name_prefix", d.Metadata.NamePrefix)
	v.SetDefault("metadata.description", d.Metadata.Description)
	v.SetDefault("metadata.image_base_uri", d.Metadata.ImageBaseURI)
	v.SetDefault("palette.enabled", d.Palette.Enabled)
	v.SetDefault("palette.size", d.Palette.Size)
	v.SetDefault("palette.method", d.Palette.Method)
	v.SetDefault("palette.swatches", d.Palette.Swatches)
	v.SetDefault("placeholder.size", d.Placeholder.Size)
	v.SetDefault("rarity.enabled", d.Rarity.Enabled)

	// Only bound, no default: nil means "not configured".
	_ = v.BindEnv("log.timestamps", "NFTL_LOG_TIMESTAMPS")

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, DefaultConfigFile is tried. A missing file is not
// an error. Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = DefaultConfigFile
	}

	l.v.SetConfigFile(configFile)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Load is a shorthand for NewLoader().Load followed by Validate.
func Load(configFile string) (*Config, error) {
	cfg, err := NewLoader().Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
