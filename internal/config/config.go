// SPDX-License-Identifier: MIT
package config

// Defaults and limits for the engine configuration.
const (
	// Audio capture defaults
	DefaultDeviceID        = MinDeviceID // System default input device
	DefaultSampleRate      = 44100       // CD-quality audio
	DefaultChannels        = 2           // Stereo capture; analysis reads the left channel
	DefaultFramesPerBuffer = 512         // Balanced latency/throughput
	DefaultLowLatency      = false       // Standard latency mode

	// Spectrogram defaults
	DefaultBufferSizePower = 12   // Sliding window of 4096 samples, 2048-point transform
	DefaultFromKey         = 1    // A0, lowest piano key
	DefaultToKey           = 88   // C8, highest piano key
	DefaultBoost           = 10.0 // Perceptual boost; 0 disables
	DefaultCanvasWidth     = 1024 // Pixels across the key range
	DefaultCanvasHeight    = 512  // Rows of scrollback history

	// Hardware and processing limits
	MinDeviceID        = -1     // -1 selects the system default device
	MinSampleRate      = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate      = 192000 // Maximum supported sample rate (Hz)
	MaxBufferFrames    = 8192   // Maximum frames per buffer
	MinBufferSizePower = 3      // 8-sample window, the smallest with a usable spectrum bin
	MaxBufferSizePower = 16     // 65536-sample window; larger is impractical per-sample
)
