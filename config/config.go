// Package config loads the video server configuration from YAML.
//
// Loading starts from Default(), so a file only needs to name the keys it
// changes:
//
//	server:
//	  addr: ":8080"
//	  allowed_origins:
//	    - https://player.example.com
//	media:
//	  dir: ./videos
//	  default: bbb_sunflower_1080p_60fps.mp4
//	overlay:
//	  grace_period: 5s
//	  annotations: ./annotations.yaml
//	  style:
//	    stroke: "#00ff00ff"
//	    fill: "#00ff0080"
//	    stroke_width: 2
//	log:
//	  level: info
//	  format: text
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lukasHoel/video-streaming/overlay"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Media   MediaConfig   `yaml:"media"`
	Overlay OverlayConfig `yaml:"overlay"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"` // 0 for long downloads
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AllowedOrigins lists the page origins that may open overlay sessions.
	// Empty allows same-host pages only; "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// MediaConfig contains the served video directory.
type MediaConfig struct {
	Dir     string `yaml:"dir"`
	Default string `yaml:"default"` // file served at /videos/test, relative to Dir
}

// OverlayConfig contains overlay session settings.
type OverlayConfig struct {
	GracePeriod time.Duration `yaml:"grace_period"`
	Annotations string        `yaml:"annotations"` // empty uses the built-in demo box
	Style       StyleConfig   `yaml:"style"`
}

// StyleConfig holds overlay colors as "#rrggbb" or "#rrggbbaa".
type StyleConfig struct {
	Stroke      string `yaml:"stroke"`
	Fill        string `yaml:"fill"`
	StrokeWidth int    `yaml:"stroke_width"`
}

// LogConfig contains logrus settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 10 * time.Second,
		},
		Media: MediaConfig{
			Dir:     "videos",
			Default: "test.mp4",
		},
		Overlay: OverlayConfig{
			GracePeriod: overlay.DefaultGracePeriod,
			Style: StyleConfig{
				Stroke:      "#00ff00ff",
				Fill:        "#00ff0080",
				StrokeWidth: 2,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over Default() and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Load",
		"path":     path,
	}).Info("Configuration loaded")

	return cfg, nil
}

// Parse decodes YAML over Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// OverlayOptions converts the overlay section into controller options.
// The configuration must have been validated.
func (c *Config) OverlayOptions() (*overlay.Options, error) {
	style, err := c.Overlay.Style.Style()
	if err != nil {
		return nil, err
	}

	opts := overlay.DefaultOptions()
	opts.GracePeriod = c.Overlay.GracePeriod
	opts.Style = style
	return opts, nil
}

// Style converts the configured colors into an overlay.Style.
func (s StyleConfig) Style() (overlay.Style, error) {
	stroke, err := ParseColor(s.Stroke)
	if err != nil {
		return overlay.Style{}, fmt.Errorf("%w: overlay.style.stroke: %v", ErrInvalidConfig, err)
	}
	fill, err := ParseColor(s.Fill)
	if err != nil {
		return overlay.Style{}, fmt.Errorf("%w: overlay.style.fill: %v", ErrInvalidConfig, err)
	}
	return overlay.Style{Stroke: stroke, Fill: fill, StrokeWidth: s.StrokeWidth}, nil
}

// Apply configures logger with the level and formatter.
func (l LogConfig) Apply(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	logger.SetLevel(level)

	switch l.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, l.Format)
	}
	return nil
}
