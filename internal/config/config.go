// If you are AI: This file defines the configuration structure for flvstream.
// It uses strict YAML decoding and explicit defaults.

package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete process configuration.
// All fields must have explicit defaults or be required.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
	Demux   DemuxConfig    `yaml:"demux"`
	Sources []SourceConfig `yaml:"sources"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	HTTPPort int `yaml:"http_port"` // Port for health and API endpoints
}

// LogConfig defines logger construction.
type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // "console" or "json"
}

// DemuxConfig defines buffer sizes shared by every source.
type DemuxConfig struct {
	CacheSize        int           `yaml:"cache_size"`        // Demuxer stream cache, must hold the largest tag
	ReadChunkSize    int           `yaml:"read_chunk_size"`   // Bytes read from a source per Feed
	SubscriberBuffer uint32        `yaml:"subscriber_buffer"` // Ring buffer slots per bus subscriber
	InspectInterval  time.Duration `yaml:"inspect_interval"`  // Inspector drain period
}

// SourceConfig defines one FLV input.
type SourceConfig struct {
	Name           string        `yaml:"name"`                      // Bus stream name, unique
	URL            string        `yaml:"url"`                       // http(s)://, file:// or a bare path
	Reconnect      bool          `yaml:"reconnect,omitempty"`       // Restart the session after it ends
	ReconnectDelay time.Duration `yaml:"reconnect_delay,omitempty"` // Wait between sessions
	SkipFrames     bool          `yaml:"skip_frames,omitempty"`     // Start with frame emission disabled
}

// Load reads configuration from a YAML file.
// Returns an error if the file cannot be read or decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields

	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Demux.CacheSize == 0 {
		c.Demux.CacheSize = 8 * 1024 * 1024
	}
	if c.Demux.ReadChunkSize == 0 {
		c.Demux.ReadChunkSize = 64 * 1024
	}
	if c.Demux.SubscriberBuffer == 0 {
		c.Demux.SubscriberBuffer = 1024
	}
	if c.Demux.InspectInterval == 0 {
		c.Demux.InspectInterval = 100 * time.Millisecond
	}
	for i := range c.Sources {
		if c.Sources[i].Reconnect && c.Sources[i].ReconnectDelay == 0 {
			c.Sources[i].ReconnectDelay = 5 * time.Second
		}
	}
}
