// SPDX-License-Identifier: MIT
/*
Package spectrogram implements the streaming analysis core: a sliding
window of complex samples, a per-sample downsample-and-transform step,
cross-frame magnitude accumulation, and rendering of the accumulated
spectrum onto a piano-key frequency axis.

The transform runs once per input sample over the pairwise-averaged
window, so the spectrum always reflects the most recent 2^p samples.
This is intentionally expensive (O(N log N) per sample) and is the
system's dominant cost; batching transforms would change the averaging
behavior seen by the renderer.

Thread Safety:
- No internal locking; buffers are mutated in place.
- Process writes and DrawFrame reads+resets the same accumulator, so
  callers running them on different goroutines must serialize access
  with one lock around both.
*/
package spectrogram

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"spectro/internal/audio"
	"spectro/internal/canvas"
	"spectro/pkg/bitint"
)

var (
	// ErrInvalidConfiguration reports construction or stream parameters
	// the engine cannot run with.
	ErrInvalidConfiguration = errors.New("spectrogram: invalid configuration")

	// ErrBufferSizeMismatch reports a caller-supplied row or chunk that
	// violates the configured sizes.
	ErrBufferSizeMismatch = errors.New("spectrogram: buffer size mismatch")
)

// Spectrogram accumulates a running frequency-magnitude estimate from a
// stream of audio chunks and renders it as grayscale pixel rows. All
// buffers are allocated once at construction; the steady-state path is
// allocation-free.
type Spectrogram struct {
	fromKey float64
	toKey   float64
	boost   float64

	// Effective rate of the downsampled signal. Written by Process on
	// every chunk, read by DrawFrame, so a rate change takes effect only
	// for subsequent renders.
	sampleRate float64

	fft    *fourier.CmplxFFT
	window *Ring
	input  []complex128 // pairwise-averaged window contents
	output []complex128 // spectrum of input

	freqSum []float64 // running magnitude sum per usable bin
	freqN   int       // samples accumulated since the last render
}

// New constructs a Spectrogram. The sliding window holds
// 2^bufferSizePower samples and the transform runs over half that.
// bufferSizePower must be >= 3 so at least one bin survives the DC and
// Nyquist exclusion, toKey must not precede fromKey, and boost must be
// >= 0; violations fail construction.
func New(bufferSizePower int, fromKey, toKey, boost float64) (*Spectrogram, error) {
	if bufferSizePower < 3 {
		return nil, fmt.Errorf("%w: buffer size power %d below minimum 3",
			ErrInvalidConfiguration, bufferSizePower)
	}
	if toKey < fromKey {
		return nil, fmt.Errorf("%w: to_key %.1f below from_key %.1f",
			ErrInvalidConfiguration, toKey, fromKey)
	}
	if boost < 0 {
		return nil, fmt.Errorf("%w: boost %.2f negative", ErrInvalidConfiguration, boost)
	}

	windowSize := bitint.Pow2(bufferSizePower)
	transformSize := windowSize / 2

	return &Spectrogram{
		fromKey:    fromKey,
		toKey:      toKey,
		boost:      boost,
		sampleRate: 1,

		fft:    fourier.NewCmplxFFT(transformSize),
		window: NewRing(windowSize),
		input:  make([]complex128, transformSize),
		output: make([]complex128, transformSize),

		// Bin 0 (DC) and the Nyquist bin carry no useful spectrum.
		freqSum: make([]float64, transformSize/2-1),
	}, nil
}

// TransformSize returns the transform length in points.
func (s *Spectrogram) TransformSize() int {
	return len(s.output)
}

// Bins returns the number of usable positive-frequency bins.
func (s *Spectrogram) Bins() int {
	return len(s.freqSum)
}

// Frames returns how many samples have been accumulated since the last
// render.
func (s *Spectrogram) Frames() int {
	return s.freqN
}

// Process analyzes every sample in the chunk, in order. Each sample is
// pushed into the sliding window, the pairwise-averaged window is
// re-transformed, and the amplitude-normalized magnitude of every
// usable bin is folded into the running sum. The chunk is consumed:
// both channel amplitudes of every analyzed sample are zeroed in place,
// so this stage silences the audio it visualizes.
//
// Only the left channel contributes to the analysis.
func (s *Spectrogram) Process(chunk *audio.Buffer) error {
	if chunk.SampleRate <= 0 {
		return fmt.Errorf("%w: chunk sample rate %.1f not positive",
			ErrInvalidConfiguration, chunk.SampleRate)
	}

	// Pairwise averaging halves the rate seen by the transform.
	s.sampleRate = chunk.SampleRate / 2

	for i := range chunk.Data {
		sample := &chunk.Data[i]
		s.window.Push(complex(sample.Left, 0))

		s.window.Pairs(func(k int, a, b complex128) bool {
			s.input[k] = (a + b) / 2
			return true
		})

		s.fft.Coefficients(s.output, s.input)

		n := float64(len(s.output))
		for k := 1; k < len(s.output)/2; k++ {
			s.freqSum[k-1] += 2 * cmplx.Abs(s.output[k]) / n
		}
		s.freqN++

		// Consume and silence: the tap is visualize-only.
		sample.Left = 0
		sample.Right = 0
	}

	return nil
}

// DrawFrame renders the mean accumulated spectrum into the row, then
// resets the accumulator. Each pixel is mapped through the piano-key
// frequency warp, linearly interpolated between its two neighboring
// bins, boosted, and written as grayscale with higher energy darker.
//
// A call with no accumulated samples is a no-op: the row is left
// untouched and nothing is reset.
func (s *Spectrogram) DrawFrame(row canvas.Row) error {
	if s.freqN == 0 {
		return nil
	}

	width := row.Len()
	if width < 2 {
		return fmt.Errorf("%w: row of %d pixels cannot span the key range",
			ErrBufferSizeMismatch, width)
	}

	n := float64(s.freqN)
	for x := 0; x < width; x++ {
		pitch := PitchFromPixel(x, width, s.fromKey, s.toKey)
		freq := FrequencyFromPitch(pitch)
		bin := BinFromFrequency(freq, len(s.output), s.sampleRate, len(s.freqSum))

		i0 := int(math.Floor(bin))
		i1 := int(math.Ceil(bin))
		di := bin - float64(i0)

		v0 := s.freqSum[i0] / n
		v1 := s.freqSum[i1] / n
		v := Boost(v0*(1-di)+v1*di, s.boost)

		c := uint8(math.Round((1 - min(max(v, 0), 1)) * 255))
		row.SetRGB(x, c, c, c)
	}

	s.freqN = 0
	for k := range s.freqSum {
		s.freqSum[k] = 0
	}

	return nil
}
