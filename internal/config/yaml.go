// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"spectro/pkg/bitint"
)

// Config is the main application configuration, loaded from YAML and
// optionally overridden by environment variables and CLI flags.
type Config struct {
	Debug       bool              `yaml:"debug"`             // Verbose logging and debug features.
	LogLevel    string            `yaml:"log_level"`         // "debug", "info", "warn", "error".
	Command     string            `yaml:"command,omitempty"` // One-off command instead of running the engine (e.g. "list").
	Audio       AudioConfig       `yaml:"audio"`             // Audio capture settings.
	Spectrogram SpectrogramConfig `yaml:"spectrogram"`       // Analysis and rendering settings.
	Recording   RecordingConfig   `yaml:"recording"`         // WAV recording of the captured input.
	Transport   TransportConfig   `yaml:"transport"`         // Rendered-row publishing settings.
}

// AudioConfig holds audio capture settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Capture rate in Hz.
	Channels        int     `yaml:"channels"`          // Channels to capture (1=mono, 2=stereo).
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per capture callback.
	LowLatency      bool    `yaml:"low_latency"`       // Request low latency from the device.
}

// SpectrogramConfig holds the analysis window and rendering settings.
type SpectrogramConfig struct {
	BufferSizePower int      `yaml:"buffer_size_power"` // Sliding window capacity = 2^power samples.
	FromKey         float64  `yaml:"from_key"`          // Lowest piano key rendered (inclusive).
	ToKey           float64  `yaml:"to_key"`            // Highest piano key rendered (inclusive).
	Boost           float64  `yaml:"boost"`             // Perceptual boost factor (>= 0, 0 = none).
	Width           int      `yaml:"width"`             // Canvas width in pixels (frequency axis).
	Height          int      `yaml:"height"`            // Canvas height in pixels (scrollback rows).
	FrameInterval   Duration `yaml:"frame_interval"`    // Cadence of row rendering.
	SnapshotPath    string   `yaml:"snapshot_path"`     // PNG written on shutdown ("" disables).
}

// RecordingConfig holds WAV recording settings. Recording taps the
// captured audio before analysis silences it.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"` // "" derives a timestamped name.
	BitDepth   int    `yaml:"bit_depth"`   // Bit depth of the WAV file (16, 24, 32).
}

// TransportConfig holds settings for publishing rendered rows.
type TransportConfig struct {
	WebSocketEnabled bool     `yaml:"websocket_enabled"` // Serve rows to browser clients.
	WebSocketAddr    string   `yaml:"websocket_addr"`    // Listen address, e.g. ":8080".
	UDPEnabled       bool     `yaml:"udp_enabled"`       // Send binary row packets over UDP.
	UDPTargetAddress string   `yaml:"udp_target_address"`
	UDPSendInterval  Duration `yaml:"udp_send_interval"`
}

// Defaults returns a Config populated with built-in defaults.
func Defaults() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			Channels:        DefaultChannels,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
		},
		Spectrogram: SpectrogramConfig{
			BufferSizePower: DefaultBufferSizePower,
			FromKey:         DefaultFromKey,
			ToKey:           DefaultToKey,
			Boost:           DefaultBoost,
			Width:           DefaultCanvasWidth,
			Height:          DefaultCanvasHeight,
			FrameInterval:   Duration(25 * time.Millisecond),
		},
		Recording: RecordingConfig{
			Enabled:  false,
			BitDepth: 32,
		},
		Transport: TransportConfig{
			WebSocketEnabled: false,
			WebSocketAddr:    ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			UDPSendInterval:  Duration(33 * time.Millisecond), // ~30Hz
		},
	}
}

// Load reads configuration from a YAML file. If path is empty it looks
// for "config.yaml" in the working directory and falls back to built-in
// defaults if none exists. Environment variable overrides are applied
// after the file, and the final configuration is validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run
// with. Configuration errors are fatal at startup, never mid-stream.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %.1f outside supported range [%d, %d]",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.Channels < 1 || c.Audio.Channels > 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got %d", c.Audio.Channels)
	}
	if c.Audio.FramesPerBuffer < 1 || c.Audio.FramesPerBuffer > MaxBufferFrames {
		return fmt.Errorf("audio.frames_per_buffer must be in [1, %d], got %d",
			MaxBufferFrames, c.Audio.FramesPerBuffer)
	}

	s := &c.Spectrogram
	if s.BufferSizePower < MinBufferSizePower || s.BufferSizePower > MaxBufferSizePower {
		return fmt.Errorf("spectrogram.buffer_size_power must be in [%d, %d], got %d",
			MinBufferSizePower, MaxBufferSizePower, s.BufferSizePower)
	}
	if s.ToKey < s.FromKey {
		return fmt.Errorf("spectrogram.to_key %.1f below from_key %.1f", s.ToKey, s.FromKey)
	}
	if s.Boost < 0 {
		return fmt.Errorf("spectrogram.boost must be >= 0, got %.2f", s.Boost)
	}
	if s.Width < 2 {
		return fmt.Errorf("spectrogram.width must be >= 2, got %d", s.Width)
	}
	if s.Height < 1 {
		return fmt.Errorf("spectrogram.height must be >= 1, got %d", s.Height)
	}
	if s.FrameInterval <= 0 {
		return fmt.Errorf("spectrogram.frame_interval must be positive, got %s", s.FrameInterval)
	}

	switch c.Recording.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("recording.bit_depth must be 16, 24 or 32, got %d", c.Recording.BitDepth)
	}

	return nil
}

// WindowSize returns the sliding window capacity in samples.
func (c *Config) WindowSize() int {
	return bitint.Pow2(c.Spectrogram.BufferSizePower)
}

// TransformSize returns the transform length, half the window size.
func (c *Config) TransformSize() int {
	return bitint.Pow2(c.Spectrogram.BufferSizePower - 1)
}

// applyEnvOverrides applies SPECTRO_* environment variables on top of
// whatever the file (or defaults) provided.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("SPECTRO_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
	if val, ok := os.LookupEnv("SPECTRO_LOG_LEVEL"); ok {
		c.LogLevel = val
	}
	if val, ok := os.LookupEnv("SPECTRO_WS_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.WebSocketEnabled = b
		}
	}
	if val, ok := os.LookupEnv("SPECTRO_WS_ADDR"); ok {
		c.Transport.WebSocketAddr = val
	}
	if val, ok := os.LookupEnv("SPECTRO_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = b
		}
	}
	if val, ok := os.LookupEnv("SPECTRO_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
	}
	if val, ok := os.LookupEnv("SPECTRO_UDP_SEND_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = Duration(d)
		}
	}
}
