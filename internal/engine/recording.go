// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"os"
	"sync/atomic"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	applog "spectro/internal/log"
)

// recordingState holds the WAV recording machinery. The active flag is
// atomic because StartRecording/StopRecording run on the control
// goroutine while writeRecording runs in the capture callback.
type recordingState struct {
	active     atomic.Bool
	outputFile *os.File
	encoder    *wav.Encoder
	sampleBuf  *gaudio.IntBuffer
	scale      float64 // float [-1,1] to integer PCM scale for the bit depth
}

// StartRecording begins writing the raw captured input to a WAV file.
// The spectrogram silences every chunk it analyzes, so recording taps
// the stream upstream of the analysis.
func (e *Engine) StartRecording(filename string) error {
	r := &e.recording
	if r.active.Load() {
		return fmt.Errorf("already recording")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}

	bitDepth := e.cfg.Recording.BitDepth
	channels := e.cfg.Audio.Channels
	sampleRate := int(e.cfg.Audio.SampleRate)

	r.outputFile = file
	r.encoder = wav.NewEncoder(file, sampleRate, bitDepth, channels, 1)
	r.sampleBuf = &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, e.cfg.Audio.FramesPerBuffer*channels),
	}
	r.scale = float64(int64(1)<<(bitDepth-1) - 1)

	r.active.Store(true)
	applog.Infof("Engine: recording to %s (%d-bit)", filename, bitDepth)

	return nil
}

// writeRecording converts one callback's interleaved float32 input to
// integer PCM and appends it to the WAV file. No-op unless recording.
// Runs in the capture callback; uses only pre-allocated buffers.
func (e *Engine) writeRecording(in []float32) {
	r := &e.recording
	if !r.active.Load() || r.encoder == nil {
		return
	}

	n := len(in)
	if n > cap(r.sampleBuf.Data) {
		n = cap(r.sampleBuf.Data)
	}
	r.sampleBuf.Data = r.sampleBuf.Data[:n]
	for i := 0; i < n; i++ {
		r.sampleBuf.Data[i] = int(float64(in[i]) * r.scale)
	}

	if err := r.encoder.Write(r.sampleBuf); err != nil {
		applog.Errorf("Engine: error writing to WAV file: %v", err)
	}
}

// StopRecording finalizes and closes the WAV file. Safe to call when
// not recording.
func (e *Engine) StopRecording() error {
	r := &e.recording
	if !r.active.Load() {
		return nil
	}
	r.active.Store(false)

	if r.encoder != nil {
		if err := r.encoder.Close(); err != nil {
			return fmt.Errorf("failed to finalize WAV file: %w", err)
		}
		r.encoder = nil
	}
	if r.outputFile != nil {
		if err := r.outputFile.Close(); err != nil {
			return err
		}
		r.outputFile = nil
	}

	return nil
}
