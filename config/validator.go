package config

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server timeouts must not be negative", ErrInvalidConfig)
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "" {
			return fmt.Errorf("%w: server.allowed_origins must not contain empty entries", ErrInvalidConfig)
		}
	}

	if c.Media.Dir == "" {
		return fmt.Errorf("%w: media.dir is required", ErrInvalidConfig)
	}
	if c.Media.Default != "" && !filepath.IsLocal(c.Media.Default) {
		return fmt.Errorf("%w: media.default must be a path inside media.dir, got %q", ErrInvalidConfig, c.Media.Default)
	}

	if c.Overlay.GracePeriod < 0 {
		return fmt.Errorf("%w: overlay.grace_period must not be negative", ErrInvalidConfig)
	}
	if c.Overlay.Style.StrokeWidth < 0 {
		return fmt.Errorf("%w: overlay.style.stroke_width must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Overlay.Style.Style(); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". A missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if ok && len(hex) == 6 {
		hex += "ff"
	}
	if !ok || len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: expected #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %v", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
