// SPDX-License-Identifier: MIT
//
// Package audio defines the mutable sample chunk exchanged between the
// capture engine and the analysis core.
package audio

// Sample is one stereo frame. Amplitudes are normalized to [-1, 1].
type Sample struct {
	Left  float64
	Right float64
}

// Buffer is an ordered chunk of stereo samples plus the rate they were
// captured at. Consumers may mutate samples in place: the spectrogram
// tap zeroes every sample it analyzes, so anything that needs the raw
// audio (e.g. recording) must read the chunk first.
type Buffer struct {
	Data       []Sample
	SampleRate float64
}

// NewBuffer allocates a zeroed chunk of the given frame count.
func NewBuffer(frames int, sampleRate float64) *Buffer {
	return &Buffer{
		Data:       make([]Sample, frames),
		SampleRate: sampleRate,
	}
}

// Len returns the number of frames in the chunk.
func (b *Buffer) Len() int {
	return len(b.Data)
}

// FillInterleaved overwrites the chunk from interleaved float32 frames
// as delivered by the capture callback. channels must be 1 or 2; mono
// input is duplicated to both sides. No allocation.
func (b *Buffer) FillInterleaved(in []float32, channels int) {
	frames := len(in) / channels
	if frames > len(b.Data) {
		frames = len(b.Data)
	}
	for i := 0; i < frames; i++ {
		left := float64(in[i*channels])
		right := left
		if channels == 2 {
			right = float64(in[i*channels+1])
		}
		b.Data[i] = Sample{Left: left, Right: right}
	}
	for i := frames; i < len(b.Data); i++ {
		b.Data[i] = Sample{}
	}
}
