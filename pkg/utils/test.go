// SPDX-License-Identifier: MIT
//
// Package utils holds shared test helpers: signal generators and pixel
// inspection utilities used by the analysis and engine test suites.
package utils

import (
	"math"

	"spectro/internal/audio"
	"spectro/internal/canvas"
)

// GenerateSineChunk returns a stereo chunk containing a pure sine wave
// of the given frequency and amplitude on both channels.
func GenerateSineChunk(frames int, sampleRate, frequency, amplitude float64) *audio.Buffer {
	chunk := audio.NewBuffer(frames, sampleRate)
	for i := range chunk.Data {
		t := float64(i) / sampleRate
		v := amplitude * math.Sin(2*math.Pi*frequency*t)
		chunk.Data[i] = audio.Sample{Left: v, Right: v}
	}
	return chunk
}

// GenerateComplexChunk returns a chunk with a 440 Hz fundamental plus
// two harmonics, useful for exercising multi-peak spectra.
func GenerateComplexChunk(frames int, sampleRate float64) *audio.Buffer {
	chunk := audio.NewBuffer(frames, sampleRate)
	for i := range chunk.Data {
		t := float64(i) / sampleRate
		v := math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2
		chunk.Data[i] = audio.Sample{Left: v, Right: v}
	}
	return chunk
}

// BinFrequency returns the center frequency in Hz of transform bin k
// for a transform of the given length at the given sample rate.
func BinFrequency(bin, transformLen int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(transformLen)
}

// DarkestPixel returns the index of the darkest (lowest red channel)
// pixel in the row. Ties resolve to the leftmost pixel.
func DarkestPixel(row canvas.Row) int {
	darkest := 0
	value := row.At(0).R
	for x := 1; x < row.Len(); x++ {
		if c := row.At(x).R; c < value {
			value = c
			darkest = x
		}
	}
	return darkest
}
