// SPDX-License-Identifier: MIT
package spectrogram

import "math"

// PitchFromPixel maps pixel position x in a row of the given width to a
// fractional piano key in the configured [fromKey, toKey] range. The
// half-key offset centers each pixel's sample point within its key's
// span. width must be >= 2.
func PitchFromPixel(x, width int, fromKey, toKey float64) float64 {
	keys := toKey - fromKey + 1
	return float64(x)/float64(width-1)*keys + fromKey - 0.5
}

// FrequencyFromPitch returns the equal-temperament frequency in Hz for
// a (possibly fractional) piano key number, with A4 = key 49 = 440 Hz.
// https://en.wikipedia.org/wiki/Piano_key_frequencies
func FrequencyFromPitch(pitch float64) float64 {
	return 440 * math.Exp2((pitch-49)/12)
}

// BinFromFrequency returns the fractional transform bin index holding
// freq Hz, given the transform length and the effective sample rate.
// The -1 accounts for the DC bin being excluded from the accumulator.
// The result is clamped to [0, binCount-1] so callers can index the
// accumulator without further checks.
func BinFromFrequency(freq float64, transformLen int, sampleRate float64, binCount int) float64 {
	i := freq*float64(transformLen)/sampleRate - 1
	if i < 0 {
		return 0
	}
	if max := float64(binCount - 1); i > max {
		return max
	}
	return i
}

// Boost applies the perceptual boost curve ((factor+1)*v)/(factor*v+1).
// For v in [0,1] it is monotonic increasing onto [0,1], the identity
// when factor is 0, and compresses toward 1 as factor grows.
func Boost(v, factor float64) float64 {
	return ((factor + 1) * v) / (factor*v + 1)
}
