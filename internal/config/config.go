package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/ironsheep/text-islands-mcp/internal/detection"
)

// EnvPrefix is the prefix of every environment variable read by ApplyEnv.
const EnvPrefix = "TEXT_ISLANDS_"

// Config is the server configuration.
type Config struct {
	// LogLevel is a zerolog level name: debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	Detection Detection `toml:"detection"`
	Crop      Crop      `toml:"crop"`
}

// Detection holds the pipeline tunables. Field meanings match
// detection.Options.
type Detection struct {
	CannyLow            float64 `toml:"canny_low"`
	CannyHigh           float64 `toml:"canny_high"`
	ApertureSize        int     `toml:"aperture_size"`
	BlurRadius          float64 `toml:"blur_radius"`
	MinRegionSize       int     `toml:"min_region_size"`
	MaxInteriorChildren int     `toml:"max_interior_children"`
	IslandPadding       int     `toml:"island_padding"`
	IslandMinSize       int     `toml:"island_min_size"`
}

// Crop holds the defaults of the island cropping tool.
type Crop struct {
	// Margin is the number of pixels kept around each island.
	Margin int `toml:"margin"`

	// Scale resizes each crop; 1.0 keeps the original size.
	Scale float64 `toml:"scale"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := detection.DefaultOptions()
	return &Config{
		LogLevel: "info",
		Detection: Detection{
			CannyLow:            opts.CannyLow,
			CannyHigh:           opts.CannyHigh,
			ApertureSize:        opts.ApertureSize,
			BlurRadius:          opts.BlurRadius,
			MinRegionSize:       opts.MinRegionSize,
			MaxInteriorChildren: opts.MaxInteriorChildren,
			IslandPadding:       opts.IslandPadding,
			IslandMinSize:       opts.IslandMinSize,
		},
		Crop: Crop{
			Margin: 2,
			Scale:  1.0,
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default value; unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TEXT_ISLANDS_* environment variables, for
// example TEXT_ISLANDS_LOG_LEVEL or TEXT_ISLANDS_CANNY_LOW. Unset or empty
// variables leave the field alone.
func (c *Config) ApplyEnv() error {
	if v := lookup("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"CANNY_LOW", &c.Detection.CannyLow},
		{"CANNY_HIGH", &c.Detection.CannyHigh},
		{"BLUR_RADIUS", &c.Detection.BlurRadius},
		{"CROP_SCALE", &c.Crop.Scale},
	}
	for _, f := range floats {
		v := lookup(f.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, f.name, err)
		}
		*f.dst = parsed
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"APERTURE_SIZE", &c.Detection.ApertureSize},
		{"MIN_REGION_SIZE", &c.Detection.MinRegionSize},
		{"MAX_INTERIOR_CHILDREN", &c.Detection.MaxInteriorChildren},
		{"ISLAND_PADDING", &c.Detection.IslandPadding},
		{"ISLAND_MIN_SIZE", &c.Detection.IslandMinSize},
		{"CROP_MARGIN", &c.Crop.Margin},
	}
	for _, f := range ints {
		v := lookup(f.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, f.name, err)
		}
		*f.dst = parsed
	}

	return nil
}

func lookup(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

// Level returns the zerolog level named by LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// DetectionOptions converts the detection section to detection.Options.
// Debug drawing stays off; tools enable it per call.
func (c *Config) DetectionOptions() detection.Options {
	d := c.Detection
	return detection.Options{
		CannyLow:            d.CannyLow,
		CannyHigh:           d.CannyHigh,
		ApertureSize:        d.ApertureSize,
		BlurRadius:          d.BlurRadius,
		MinRegionSize:       d.MinRegionSize,
		MaxInteriorChildren: d.MaxInteriorChildren,
		IslandPadding:       d.IslandPadding,
		IslandMinSize:       d.IslandMinSize,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := c.DetectionOptions().Validate(); err != nil {
		return err
	}
	if c.Crop.Margin < 0 {
		return fmt.Errorf("crop margin must not be negative, got %d", c.Crop.Margin)
	}
	if c.Crop.Scale <= 0 {
		return fmt.Errorf("crop scale must be positive, got %g", c.Crop.Scale)
	}
	return nil
}
