package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"exifstamp/internal/model"
)

// EnvPrefix is prepended to environment variable overrides, e.g. EXIFSTAMP_FONT_SIZE.
const EnvPrefix = "EXIFSTAMP"

// Config holds the settings of a single run.
type Config struct {
	InputPath string `mapstructure:"-"`

	FontSize  int    `mapstructure:"font-size"` // text size in points
	Color     string `mapstructure:"color"`     // colour name or hex value
	Position  string `mapstructure:"position"`  // anchor of the watermark
	Margin    int    `mapstructure:"margin"`    // inset from the anchored edges in pixels
	Font      string `mapstructure:"font"`      // explicit font file, optional
	Recursive bool   `mapstructure:"recursive"` // descend into subdirectories

	Log Log `mapstructure:",squash"`
}

// Log holds logger configuration.
type Log struct {
	Level  string `mapstructure:"log-level"`
	Format string `mapstructure:"log-format"`
}

// Defaults used when neither a flag, the environment nor a config file sets a value.
const (
	DefaultFontSize = 24
	DefaultColor    = "white"
	DefaultPosition = string(model.AnchorBottomRight)
	DefaultMargin   = 20
)

// ErrMissingInput is returned when no image path was given.
var ErrMissingInput = errors.New("missing image_path argument")

// NewFlagSet declares the command line flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Int("font-size", DefaultFontSize, "font size in points")
	fs.String("color", DefaultColor, "watermark colour: a name such as white or red, or #rrggbb")
	fs.String("position", DefaultPosition, "watermark position: "+anchorList())
	fs.Int("margin", DefaultMargin, "distance from the anchored edges in pixels")
	fs.String("font", "", "path to a .ttf/.otf/.ttc font tried before the system fonts (optional)")
	fs.Bool("recursive", false, "when image_path is a directory, also process its subdirectories")
	fs.String("config", "", "read settings from this YAML, TOML or JSON file (optional)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "console", "log format: console or json")
	return fs
}

// Load parses args and merges them with the environment and an optional
// config file. Precedence is flag, then environment, then file, then default.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if fs.NArg() < 1 {
		return nil, ErrMissingInput
	}
	if fs.NArg() > 1 {
		return nil, fmt.Errorf("expected one image_path, got %d", fs.NArg())
	}
	cfg.InputPath = fs.Arg(0)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings that would make every task fail.
func (c *Config) Validate() error {
	if c.FontSize <= 0 {
		return fmt.Errorf("font-size must be positive, got %d", c.FontSize)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %d", c.Margin)
	}
	if _, err := model.ParseAnchor(c.Position); err != nil {
		return fmt.Errorf("invalid position: %w (want one of %s)", err, anchorList())
	}
	if _, err := ParseColor(c.Color); err != nil {
		return fmt.Errorf("invalid color: %w", err)
	}
	return nil
}

// WatermarkSpec converts the validated settings into the batch style.
func (c *Config) WatermarkSpec() (model.WatermarkSpec, error) {
	anchor, err := model.ParseAnchor(c.Position)
	if err != nil {
		return model.WatermarkSpec{}, err
	}
	col, err := ParseColor(c.Color)
	if err != nil {
		return model.WatermarkSpec{}, err
	}
	return model.WatermarkSpec{
		FontSize: c.FontSize,
		Color:    col,
		Anchor:   anchor,
		Margin:   c.Margin,
	}, nil
}

func anchorList() string {
	names := make([]string, len(model.Anchors))
	for i, a := range model.Anchors {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
