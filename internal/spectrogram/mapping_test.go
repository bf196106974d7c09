// SPDX-License-Identifier: MIT
package spectrogram

import (
	"math"
	"testing"
)

const tolerance = 1e-4

func TestFrequencyFromPitchReference(t *testing.T) {
	tests := []struct {
		pitch float64
		want  float64
	}{
		{49, 440},     // A4, the tuning reference
		{40, 261.626}, // C4, middle C
		{1, 27.5},     // A0
		{88, 4186.01}, // C8
		{61, 880},     // A5, one octave above reference
	}

	for _, tt := range tests {
		if got := FrequencyFromPitch(tt.pitch); math.Abs(got-tt.want) > tolerance*tt.want {
			t.Errorf("FrequencyFromPitch(%.0f) = %.4f, want %.4f", tt.pitch, got, tt.want)
		}
	}
}

func TestPitchFromPixelEndpoints(t *testing.T) {
	const fromKey, toKey = 1.0, 88.0

	// First pixel samples half a key below fromKey, last pixel half a
	// key above toKey, centering each pixel within its key span.
	if got := PitchFromPixel(0, 10, fromKey, toKey); math.Abs(got-0.5) > tolerance {
		t.Errorf("PitchFromPixel(0) = %.4f, want 0.5", got)
	}
	if got := PitchFromPixel(9, 10, fromKey, toKey); math.Abs(got-88.5) > tolerance {
		t.Errorf("PitchFromPixel(9) = %.4f, want 88.5", got)
	}
}

func TestPitchFromPixelMonotonic(t *testing.T) {
	prev := PitchFromPixel(0, 100, 1, 88)
	for x := 1; x < 100; x++ {
		p := PitchFromPixel(x, 100, 1, 88)
		if p <= prev {
			t.Fatalf("pitch not increasing at x=%d: %.4f <= %.4f", x, p, prev)
		}
		prev = p
	}
}

func TestBinFromFrequency(t *testing.T) {
	const (
		transformLen = 128
		sampleRate   = 22050.0
		binCount     = 63
	)

	tests := []struct {
		name string
		freq float64
		want float64
	}{
		{"bin 10 center", 10 * sampleRate / transformLen, 9}, // accumulator index is bin-1
		{"below DC clamps to 0", 0, 0},
		{"negative clamps to 0", -100, 0},
		{"above Nyquist clamps to top", sampleRate, binCount - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BinFromFrequency(tt.freq, transformLen, sampleRate, binCount)
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("BinFromFrequency(%.2f) = %.4f, want %.4f", tt.freq, got, tt.want)
			}
		})
	}
}

func TestBoostIdentity(t *testing.T) {
	for v := 0.0; v <= 1.0; v += 0.01 {
		if got := Boost(v, 0); math.Abs(got-v) > tolerance {
			t.Fatalf("Boost(%.2f, 0) = %.6f, want identity", v, got)
		}
	}
}

func TestBoostBoundsAndMonotonic(t *testing.T) {
	for _, factor := range []float64{0.5, 1, 5, 20, 100} {
		prev := -1.0
		for v := 0.0; v <= 1.0; v += 0.005 {
			got := Boost(v, factor)
			if got < 0 || got > 1+tolerance {
				t.Fatalf("Boost(%.3f, %.1f) = %.6f outside [0,1]", v, factor, got)
			}
			if got < prev {
				t.Fatalf("Boost not monotonic at v=%.3f, factor=%.1f", v, factor)
			}
			prev = got
		}
	}
}

func TestBoostFixedPoints(t *testing.T) {
	for _, factor := range []float64{0, 1, 10} {
		if got := Boost(0, factor); math.Abs(got) > tolerance {
			t.Errorf("Boost(0, %.0f) = %.6f, want 0", factor, got)
		}
		if got := Boost(1, factor); math.Abs(got-1) > tolerance {
			t.Errorf("Boost(1, %.0f) = %.6f, want 1", factor, got)
		}
	}
}

func TestBoostCompresses(t *testing.T) {
	// A positive factor must lift mid-range values toward 1.
	if Boost(0.25, 10) <= 0.25 {
		t.Error("expected Boost(0.25, 10) > 0.25")
	}
	if Boost(0.25, 100) <= Boost(0.25, 10) {
		t.Error("expected stronger factor to lift harder")
	}
}
