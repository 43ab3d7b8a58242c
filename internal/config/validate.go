// If you are AI: This file validates configuration values and returns descriptive errors.

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks that all configuration values are within acceptable ranges.
// Returns an error describing the first validation failure found.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	if err := c.Demux.Validate(); err != nil {
		return fmt.Errorf("demux config: %w", err)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		src := &c.Sources[i]
		if err := src.Validate(); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
		if seen[src.Name] {
			return fmt.Errorf("source %d: duplicate name %q", i, src.Name)
		}
		seen[src.Name] = true
	}
	return nil
}

// Validate checks server configuration values.
func (s *ServerConfig) Validate() error {
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 1 and 65535, got %d", s.HTTPPort)
	}
	return nil
}

// Validate checks logger settings.
func (l *LogConfig) Validate() error {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level %q: %w", l.Level, err)
	}
	if l.Format != "console" && l.Format != "json" {
		return fmt.Errorf("format must be console or json, got %q", l.Format)
	}
	return nil
}

// Validate checks demuxer buffer settings.
func (d *DemuxConfig) Validate() error {
	// Header, tag header and a minimal AVC body must fit.
	if d.CacheSize < 64 {
		return fmt.Errorf("cache_size must be at least 64, got %d", d.CacheSize)
	}
	if d.ReadChunkSize <= 0 {
		return fmt.Errorf("read_chunk_size must be positive, got %d", d.ReadChunkSize)
	}
	if d.InspectInterval < 0 {
		return fmt.Errorf("inspect_interval must not be negative, got %s", d.InspectInterval)
	}
	return nil
}

// Validate checks one source entry.
func (s *SourceConfig) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(s.Name, "/ ") {
		return fmt.Errorf("name %q must not contain slashes or spaces", s.Name)
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	if strings.Contains(s.URL, "://") {
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		switch u.Scheme {
		case "http", "https", "file":
		default:
			return fmt.Errorf("url scheme must be http, https or file, got %q", u.Scheme)
		}
	}
	if s.ReconnectDelay < 0 {
		return fmt.Errorf("reconnect_delay must not be negative, got %s", s.ReconnectDelay)
	}
	return nil
}
