// SPDX-License-Identifier: MIT
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"spectro/internal/config"
	"spectro/pkg/build"
)

// ParseArgs parses the command line, layering flag overrides on top of
// the YAML configuration, and returns the validated result. A nil
// Config with a nil error means cobra handled the invocation itself
// (help, version, completion).
func ParseArgs() (*config.Config, error) {
	info := build.GetInfo()

	var (
		cfgPath string
		cfg     *config.Config
	)

	rootCmd := &cobra.Command{
		Use:           info.Name,
		Short:         info.Description,
		Version:       info.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := buildConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := buildConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			loaded.Command = "list"
			cfg = loaded
			return nil
		},
	}
	rootCmd.AddCommand(listCmd)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgPath, "config", "", "Path to YAML configuration file")

	// Audio device configuration
	f.IntP("device", "d", config.DefaultDeviceID,
		"Input device ID. Use 'list' to see available devices.")
	f.Float64P("sample-rate", "s", config.DefaultSampleRate,
		"Sample rate in Hertz (Hz)")
	f.IntP("channels", "c", config.DefaultChannels,
		"Number of channels to capture (1=mono, 2=stereo)")
	f.IntP("frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"Frames per capture buffer (affects latency)")
	f.BoolP("low-latency", "l", config.DefaultLowLatency,
		"Use low latency mode for real-time processing")

	// Spectrogram configuration
	f.IntP("window-power", "p", config.DefaultBufferSizePower,
		"Sliding window capacity as a power of two")
	f.Float64("from-key", config.DefaultFromKey,
		"Lowest piano key rendered")
	f.Float64("to-key", config.DefaultToKey,
		"Highest piano key rendered")
	f.Float64("boost", config.DefaultBoost,
		"Perceptual boost factor (0 disables)")
	f.IntP("width", "w", config.DefaultCanvasWidth,
		"Canvas width in pixels")
	f.Int("height", config.DefaultCanvasHeight,
		"Canvas height in pixels (scrollback)")
	f.DurationP("frame-interval", "i", 25*time.Millisecond,
		"Interval between rendered rows")
	f.String("snapshot", "",
		"Write a PNG snapshot of the canvas to this path on exit")

	// Recording configuration
	f.BoolP("record", "r", false,
		"Record captured audio to a WAV file")
	f.StringP("output", "o", "",
		"Recording file name. Default is recording-DD-MM-YYYY-HHMMSS.wav")

	// Transport configuration
	f.Bool("ws", false, "Serve rendered rows over WebSocket")
	f.String("ws-addr", ":8080", "WebSocket listen address")
	f.Bool("udp", false, "Publish rendered rows over UDP")
	f.String("udp-addr", "127.0.0.1:9090", "UDP target address")

	// Debug configuration
	f.BoolP("verbose", "v", false, "Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildConfig loads the YAML configuration and applies every flag the
// user explicitly set on top of it.
func buildConfig(cmd *cobra.Command, cfgPath string) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("device") {
		cfg.Audio.InputDevice, _ = fl.GetInt("device")
	}
	if fl.Changed("sample-rate") {
		cfg.Audio.SampleRate, _ = fl.GetFloat64("sample-rate")
	}
	if fl.Changed("channels") {
		cfg.Audio.Channels, _ = fl.GetInt("channels")
	}
	if fl.Changed("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer, _ = fl.GetInt("frames-per-buffer")
	}
	if fl.Changed("low-latency") {
		cfg.Audio.LowLatency, _ = fl.GetBool("low-latency")
	}
	if fl.Changed("window-power") {
		cfg.Spectrogram.BufferSizePower, _ = fl.GetInt("window-power")
	}
	if fl.Changed("from-key") {
		cfg.Spectrogram.FromKey, _ = fl.GetFloat64("from-key")
	}
	if fl.Changed("to-key") {
		cfg.Spectrogram.ToKey, _ = fl.GetFloat64("to-key")
	}
	if fl.Changed("boost") {
		cfg.Spectrogram.Boost, _ = fl.GetFloat64("boost")
	}
	if fl.Changed("width") {
		cfg.Spectrogram.Width, _ = fl.GetInt("width")
	}
	if fl.Changed("height") {
		cfg.Spectrogram.Height, _ = fl.GetInt("height")
	}
	if fl.Changed("frame-interval") {
		d, _ := fl.GetDuration("frame-interval")
		cfg.Spectrogram.FrameInterval = config.Duration(d)
	}
	if fl.Changed("snapshot") {
		cfg.Spectrogram.SnapshotPath, _ = fl.GetString("snapshot")
	}
	if fl.Changed("record") {
		cfg.Recording.Enabled, _ = fl.GetBool("record")
	}
	if fl.Changed("output") {
		cfg.Recording.OutputFile, _ = fl.GetString("output")
	}
	if fl.Changed("ws") {
		cfg.Transport.WebSocketEnabled, _ = fl.GetBool("ws")
	}
	if fl.Changed("ws-addr") {
		cfg.Transport.WebSocketAddr, _ = fl.GetString("ws-addr")
	}
	if fl.Changed("udp") {
		cfg.Transport.UDPEnabled, _ = fl.GetBool("udp")
	}
	if fl.Changed("udp-addr") {
		cfg.Transport.UDPTargetAddress, _ = fl.GetString("udp-addr")
	}
	if fl.Changed("verbose") {
		cfg.Debug, _ = fl.GetBool("verbose")
	}

	if cfg.Recording.Enabled && cfg.Recording.OutputFile == "" {
		cfg.Recording.OutputFile = "recording-" +
			time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
