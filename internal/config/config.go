// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"slices"

	"github.com/setanarut/nftlayers"
	"github.com/setanarut/nftlayers/utils"
)

// DefaultCategories is the stacking order used when none is configured,
// backgrounds first and accessories last.
var DefaultCategories = []string{"background", "Fur", "eyes", "mouth", "Cloth", "earring", "hat"}

// MetadataConfig contains the text fields of metadata records.
type MetadataConfig struct {
	NamePrefix   string `mapstructure:"name_prefix"`
	Description  string `mapstructure:"description"`
	ImageBaseURI string `mapstructure:"image_base_uri"`
}

// PaletteConfig controls optional color palette extraction.
type PaletteConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Size     int    `mapstructure:"size"`
	Method   string `mapstructure:"method"`
	Swatches bool   `mapstructure:"swatches"`
}

type PlaceholderConfig struct {
	// Size is the edge length of placeholder images. Zero disables them.
	Size int `mapstructure:"size"`
}

type RarityConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps"`
}

// Config is the full run configuration.
// Loaded from nftlayers.yaml, overridden by NFTL_* environment variables.
type Config struct {
	Count             int               `mapstructure:"count"`
	Categories        []string          `mapstructure:"categories"`
	LayersDir         string            `mapstructure:"layers_dir"`
	OutputDir         string            `mapstructure:"output_dir"`
	AttemptMultiplier int               `mapstructure:"attempt_multiplier"`
	Seed              uint64            `mapstructure:"seed"`
	Workers           int               `mapstructure:"workers"`
	FailurePolicy     string            `mapstructure:"failure_policy"`
	Metadata          MetadataConfig    `mapstructure:"metadata"`
	Palette           PaletteConfig     `mapstructure:"palette"`
	Placeholder       PlaceholderConfig `mapstructure:"placeholder"`
	Rarity            RarityConfig      `mapstructure:"rarity"`
	Log               LogConfig         `mapstructure:"log"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	md := nftlayers.DefaultMetadataOptions()
	return &Config{
		Count:             520,
		Categories:        slices.Clone(DefaultCategories),
		LayersDir:         "layers",
		OutputDir:         "output",
		AttemptMultiplier: 10,
		Workers:           1,
		FailurePolicy:     "burn",
		Metadata: MetadataConfig{
			NamePrefix:   md.NamePrefix,
			Description:  md.Description,
			ImageBaseURI: md.ImageBaseURI,
		},
		Palette: PaletteConfig{
			Size:   5,
			Method: "dominantcolor",
		},
		Placeholder: PlaceholderConfig{Size: 1000},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	case c.AttemptMultiplier < 1:
		return fmt.Errorf("attempt_multiplier must be at least 1, got %d", c.AttemptMultiplier)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case len(c.Categories) == 0:
		return fmt.Errorf("categories must not be empty")
	case c.LayersDir == "":
		return fmt.Errorf("layers_dir must not be empty")
	case c.OutputDir == "":
		return fmt.Errorf("output_dir must not be empty")
	case c.Placeholder.Size < 0:
		return fmt.Errorf("placeholder.size must not be negative")
	case c.Palette.Enabled && c.Palette.Size < 1:
		return fmt.Errorf("palette.size must be at least 1 when the palette is enabled")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, name := range c.Categories {
		if name == "" {
			return fmt.Errorf("category names must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true
	}
	if _, err := nftlayers.ParseFailurePolicy(c.FailurePolicy); err != nil {
		return err
	}
	if _, err := utils.ParsePaletteMethod(c.Palette.Method); err != nil {
		return err
	}
	return nil
}

// SetupOptions maps the config onto the layout preparation step.
func (c *Config) SetupOptions() nftlayers.SetupOptions {
	return nftlayers.SetupOptions{
		LayersDir:       c.LayersDir,
		Categories:      c.Categories,
		OutputDir:       c.OutputDir,
		PlaceholderSize: c.Placeholder.Size,
		Swatches:        c.Palette.Enabled && c.Palette.Swatches,
	}
}

// GeneratorOptions maps the config onto generator options. Call Validate
// first; unparsable enumerations fall back to their defaults.
func (c *Config) GeneratorOptions() nftlayers.Options {
	opt := nftlayers.DefaultOptions()
	opt.Count = c.Count
	opt.AttemptMultiplier = c.AttemptMultiplier
	opt.Workers = c.Workers
	opt.OutputDir = c.OutputDir
	opt.FailurePolicy, _ = nftlayers.ParseFailurePolicy(c.FailurePolicy)
	opt.Metadata = nftlayers.MetadataOptions{
		NamePrefix:   c.Metadata.NamePrefix,
		Description:  c.Metadata.Description,
		ImageBaseURI: c.Metadata.ImageBaseURI,
	}
	opt.Palette.Enabled = c.Palette.Enabled
	opt.Palette.Size = c.Palette.Size
	opt.Palette.Method, _ = utils.ParsePaletteMethod(c.Palette.Method)
	opt.Palette.Swatches = c.Palette.Swatches
	return opt
}
