// Package config provides configuration loading and management.
package config

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/user/framesnap/pkg/framegrab"
	"github.com/user/framesnap/pkg/orchestrator"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FRAMESNAP_"

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents a framesnap job.
//
// The sampling options are kept as strings. They are handed to the core
// unchanged and coerced there, so a job file may use numbers or strings.
type Config struct {
	// Input/Output
	URL       string `yaml:"url" env:"URL, overwrite"`
	OutputDir string `yaml:"output" env:"OUTPUT, overwrite"`
	Summary   string `yaml:"summary" env:"SUMMARY, overwrite"`

	// Sampling
	Format  string   `yaml:"format" env:"FORMAT, overwrite"`
	Offsets []string `yaml:"offsets" env:"OFFSETS, overwrite"`
	Start   string   `yaml:"start" env:"START, overwrite"`
	End     string   `yaml:"end" env:"END, overwrite"`
	Count   string   `yaml:"count" env:"COUNT, overwrite"`
	Width   string   `yaml:"width" env:"WIDTH, overwrite"`
	Height  string   `yaml:"height" env:"HEIGHT, overwrite"`

	// Source
	Backend    string `yaml:"backend" env:"BACKEND, overwrite" validate:"oneof=mp4 chrome"`
	ChromePath string `yaml:"chrome_path" env:"CHROME_PATH, overwrite"`
	Headless   bool   `yaml:"headless" env:"HEADLESS, overwrite"`

	// Browser requests, chrome backend only
	UserAgent         string            `yaml:"user_agent" env:"USER_AGENT, overwrite"`
	ProxyServer       string            `yaml:"proxy_server" env:"PROXY_SERVER, overwrite"`
	IgnoreHTTPSErrors bool              `yaml:"ignore_https_errors" env:"IGNORE_HTTPS_ERRORS, overwrite"`
	Headers           map[string]string `yaml:"headers" env:"HEADERS, overwrite"`
	TimeoutSec        int               `yaml:"timeout_sec" env:"TIMEOUT_SEC, overwrite" validate:"gte=0"`

	// Access to s3:// locators
	S3 S3Config `yaml:"s3" env:", prefix=S3_"`

	// Sprite sheet
	Sprite SpriteConfig `yaml:"sprite" env:", prefix=SPRITE_"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL, overwrite" validate:"oneof=debug info warn error"`
	Quiet    bool   `yaml:"quiet" env:"QUIET, overwrite"`

	// Debug
	Debug    bool   `yaml:"debug" env:"DEBUG, overwrite"`
	DebugDir string `yaml:"debug_dir" env:"DEBUG_DIR, overwrite"`
}

// SpriteConfig represents the sprite sheet options.
type SpriteConfig struct {
	Enabled     bool        `yaml:"enabled" env:"ENABLED, overwrite"`
	File        string      `yaml:"file" env:"FILE, overwrite"`
	Format      string      `yaml:"format" env:"FORMAT, overwrite" validate:"oneof=png jpeg jpg"`
	Quality     int         `yaml:"quality" env:"QUALITY, overwrite" validate:"min=1,max=100"`
	Columns     int         `yaml:"columns" env:"COLUMNS, overwrite" validate:"min=1"`
	Gap         int         `yaml:"gap" env:"GAP, overwrite" validate:"gte=0"`
	Padding     int         `yaml:"padding" env:"PADDING, overwrite" validate:"gte=0"`
	BorderWidth int         `yaml:"border_width" env:"BORDER_WIDTH, overwrite" validate:"gte=0"`
	Labels      bool        `yaml:"labels" env:"LABELS, overwrite"`
	LabelHeight int         `yaml:"label_height" env:"LABEL_HEIGHT, overwrite" validate:"gte=0"`
	FontPath    string      `yaml:"font_path" env:"FONT_PATH, overwrite"`
	Workers     int         `yaml:"workers" env:"WORKERS, overwrite" validate:"min=1"`
	Theme       ThemeConfig `yaml:"theme" env:", prefix=THEME_"`
}

// S3Config represents the S3 client settings.
type S3Config struct {
	Region          string `yaml:"region" env:"REGION, overwrite"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT, overwrite"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID, overwrite"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY, overwrite"`
}

// ThemeConfig represents sprite colors as hex strings.
type ThemeConfig struct {
	BackgroundColor string `yaml:"background_color" env:"BACKGROUND_COLOR, overwrite"`
	BorderColor     string `yaml:"border_color" env:"BORDER_COLOR, overwrite"`
	LabelColor      string `yaml:"label_color" env:"LABEL_COLOR, overwrite"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	layout := orchestrator.DefaultConfig()
	return Config{
		Backend:    "mp4",
		Headless:   true,
		TimeoutSec: 60,
		LogLevel:   "info",
		DebugDir:   "./debug",

		Sprite: SpriteConfig{
			File:        layout.SpriteName,
			Format:      layout.SpriteFormat,
			Quality:     layout.SpriteQuality,
			Columns:     layout.Columns,
			Gap:         layout.Gap,
			Padding:     layout.Padding,
			BorderWidth: layout.BorderWidth,
			LabelHeight: layout.LabelHeight,
			Workers:     4,
			Theme: ThemeConfig{
				BackgroundColor: "#1a1a2e",
				BorderColor:     "#333355",
				LabelColor:      "#ffffff",
			},
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with FRAMESNAP_* environment variables.
func ApplyEnv(ctx context.Context, cfg *Config) error {
	return ApplyEnvWith(ctx, cfg, envconfig.OsLookuper())
}

// ApplyEnvWith overrides cfg with values found by lookuper under EnvPrefix.
func ApplyEnvWith(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate checks the CLI-level settings. Sampling options are not checked
// here because the core coerces them.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ToRawOptions converts the sampling section to core options. Empty values
// are left unset.
func (c Config) ToRawOptions() framegrab.RawOptions {
	opts := framegrab.RawOptions{
		URL:    c.URL,
		Format: c.Format,
	}
	if len(c.Offsets) > 0 {
		opts.Offsets = c.Offsets
	}
	opts.StartTime = optional(c.Start)
	opts.EndTime = optional(c.End)
	opts.Count = optional(c.Count)
	opts.Width = optional(c.Width)
	opts.Height = optional(c.Height)
	return opts
}

func optional(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	oc := orchestrator.DefaultConfig()
	oc.Options = c.ToRawOptions()
	oc.OutputDir = c.OutputDir

	oc.Sprite = c.Sprite.Enabled
	if c.Sprite.File != "" {
		oc.SpriteName = c.Sprite.File
	}
	if c.Sprite.Format != "" {
		oc.SpriteFormat = c.Sprite.Format
	}
	oc.SpriteQuality = c.Sprite.Quality
	oc.Columns = c.Sprite.Columns
	oc.Gap = c.Sprite.Gap
	oc.Padding = c.Sprite.Padding
	oc.BorderWidth = c.Sprite.BorderWidth
	oc.ShowLabels = c.Sprite.Labels
	oc.LabelHeight = c.Sprite.LabelHeight
	oc.FontPath = c.Sprite.FontPath

	oc.BackgroundColor = rgbaArray(c.Sprite.Theme.BackgroundColor)
	oc.BorderColor = rgbaArray(c.Sprite.Theme.BorderColor)
	oc.LabelColor = rgbaArray(c.Sprite.Theme.LabelColor)
	return oc
}

// rgbaArray leaves unset colors as the zero value so the stage theme applies.
func rgbaArray(hex string) [4]uint8 {
	if hex == "" {
		return [4]uint8{}
	}
	c := ParseColor(hex).(color.RGBA)
	return [4]uint8{c.R, c.G, c.B, c.A}
}

// ParseColor parses a #rrggbb or #rrggbbaa hex string. Malformed input
// yields opaque black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{A: 255}
	}

	var v [4]uint8
	v[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v[i] = hexValue(hex[2*i])<<4 | hexValue(hex[2*i+1])
	}
	return color.RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
