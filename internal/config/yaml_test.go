// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.Spectrogram.BufferSizePower != DefaultBufferSizePower {
		t.Errorf("expected default buffer_size_power %d, got %d",
			DefaultBufferSizePower, cfg.Spectrogram.BufferSizePower)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoad_UnmarshalError(t *testing.T) {
	path := writeTempConfig(t, ":\n:bad")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoad_SpectrogramSection(t *testing.T) {
	path := writeTempConfig(t, `
spectrogram:
  buffer_size_power: 8
  from_key: 16
  to_key: 64
  boost: 3
  frame_interval: 50ms
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WindowSize() != 256 {
		t.Errorf("expected window size 256, got %d", cfg.WindowSize())
	}
	if cfg.TransformSize() != 128 {
		t.Errorf("expected transform size 128, got %d", cfg.TransformSize())
	}
	if cfg.Spectrogram.FrameInterval.Std() != 50*time.Millisecond {
		t.Errorf("expected frame_interval 50ms, got %s", cfg.Spectrogram.FrameInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		okWant bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"power too small", func(c *Config) { c.Spectrogram.BufferSizePower = 2 }, false},
		{"power at minimum", func(c *Config) { c.Spectrogram.BufferSizePower = MinBufferSizePower }, true},
		{"power too large", func(c *Config) { c.Spectrogram.BufferSizePower = 20 }, false},
		{"inverted key range", func(c *Config) { c.Spectrogram.FromKey = 60; c.Spectrogram.ToKey = 10 }, false},
		{"negative boost", func(c *Config) { c.Spectrogram.Boost = -1 }, false},
		{"degenerate width", func(c *Config) { c.Spectrogram.Width = 1 }, false},
		{"zero frame interval", func(c *Config) { c.Spectrogram.FrameInterval = 0 }, false},
		{"sample rate too low", func(c *Config) { c.Audio.SampleRate = 100 }, false},
		{"bad bit depth", func(c *Config) { c.Recording.BitDepth = 12 }, false},
		{"single key range", func(c *Config) { c.Spectrogram.FromKey = 49; c.Spectrogram.ToKey = 49 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.okWant && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.okWant && err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPECTRO_UDP_ENABLED", "true")
	t.Setenv("SPECTRO_UDP_TARGET_ADDRESS", "10.0.0.1:7000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Transport.UDPEnabled {
		t.Error("expected UDP enabled from env override")
	}
	if cfg.Transport.UDPTargetAddress != "10.0.0.1:7000" {
		t.Errorf("expected env target address, got %s", cfg.Transport.UDPTargetAddress)
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    time.Duration
		wantErr bool
	}{
		{"suffix string", "frame_interval: 50ms", 50 * time.Millisecond, false},
		{"seconds string", "frame_interval: 2s", 2 * time.Second, false},
		{"bare nanoseconds", "frame_interval: 25000000", 25 * time.Millisecond, false},
		{"garbage", "frame_interval: soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sc SpectrogramConfig
			err := yaml.Unmarshal([]byte(tt.yaml), &sc)
			if tt.wantErr {
				if err == nil {
					t.Error("expected unmarshal error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sc.FrameInterval.Std() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, sc.FrameInterval)
			}
		})
	}
}
