// SPDX-License-Identifier: MIT
/*
Package engine wires audio capture to the spectrogram core and the
rendered-row outputs:
- PortAudio input stream feeding the analysis once per callback
- Frame ticker rendering rows into the scrolling canvas
- Transports broadcasting rendered rows (WebSocket, UDP)
- Optional WAV recording of the raw input

Thread Safety:
The capture callback and the render loop run on different goroutines
but share the spectrogram, whose Process and DrawFrame both touch the
magnitude accumulator. One mutex serializes the two, which is the
entire synchronization story; the core itself is lock-free.
*/
package engine

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"spectro/internal/audio"
	"spectro/internal/canvas"
	"spectro/internal/config"
	applog "spectro/internal/log"
	"spectro/internal/spectrogram"
	"spectro/internal/transport"
	"spectro/internal/transport/udp"
)

// Engine owns the capture stream, the analysis core, the canvas and
// the output transports.
type Engine struct {
	cfg *config.Config

	// Audio input handling.
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  *portaudio.Stream

	// Analysis and rendering. mu serializes Process (capture callback)
	// and DrawFrame (render loop) on the shared accumulator.
	mu    sync.Mutex
	chunk *audio.Buffer
	sgram *spectrogram.Spectrogram
	view  *canvas.Canvas

	// Rendered-row publishing.
	transports []transport.Transport
	seq        uint64

	// Render loop lifecycle.
	done chan struct{}
	wg   sync.WaitGroup

	// Recording state, see recording.go.
	recording recordingState
}

// New constructs an Engine from the validated configuration. PortAudio
// must be initialized first.
func New(cfg *config.Config) (*Engine, error) {
	inputDevice, err := InputDevice(cfg.Audio.InputDevice)
	if err != nil {
		return nil, err
	}

	sgram, err := spectrogram.New(
		cfg.Spectrogram.BufferSizePower,
		cfg.Spectrogram.FromKey,
		cfg.Spectrogram.ToKey,
		cfg.Spectrogram.Boost,
	)
	if err != nil {
		return nil, err
	}

	view, err := canvas.New(cfg.Spectrogram.Width, cfg.Spectrogram.Height)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:         cfg,
		inputDevice: inputDevice,
		chunk:       audio.NewBuffer(cfg.Audio.FramesPerBuffer, cfg.Audio.SampleRate),
		sgram:       sgram,
		view:        view,
		done:        make(chan struct{}),
	}

	if cfg.Audio.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}

	if err := e.setupTransports(); err != nil {
		e.closeTransports()
		return nil, err
	}

	return e, nil
}

func (e *Engine) setupTransports() error {
	tc := &e.cfg.Transport

	if tc.WebSocketEnabled {
		e.transports = append(e.transports, transport.NewWebSocketTransport(tc.WebSocketAddr))
	}
	if tc.UDPEnabled {
		sender, err := udp.NewSender(tc.UDPTargetAddress)
		if err != nil {
			return err
		}
		pub, err := udp.NewPublisher(sender, tc.UDPSendInterval.Std())
		if err != nil {
			sender.Close()
			return err
		}
		e.transports = append(e.transports, pub)
	}
	if len(e.transports) == 0 && e.cfg.Debug {
		e.transports = append(e.transports, transport.NewLoggingTransport())
	}

	return nil
}

// Start opens the input stream and launches the render loop. The first
// PortAudio callback marks the start of the real-time path.
func (e *Engine) Start() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.cfg.Audio.Channels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		FramesPerBuffer: e.cfg.Audio.FramesPerBuffer,
		SampleRate:      e.cfg.Audio.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, e.processInput)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	e.inputStream = stream

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	e.wg.Add(1)
	go e.renderLoop()

	applog.Infof("Engine: started (device %q, %.0f Hz, window %d, keys [%.0f, %.0f])",
		e.inputDevice.Name, e.cfg.Audio.SampleRate, e.cfg.WindowSize(),
		e.cfg.Spectrogram.FromKey, e.cfg.Spectrogram.ToKey)

	return nil
}

// processInput is the PortAudio capture callback.
// Performance critical: pre-allocated buffers only, the single mutex
// acquisition is the only synchronization.
func (e *Engine) processInput(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// The recorder must tap the raw input here: the analysis below
	// consumes and silences the chunk.
	e.writeRecording(in)

	e.chunk.FillInterleaved(in, e.cfg.Audio.Channels)
	e.chunk.SampleRate = e.cfg.Audio.SampleRate

	e.mu.Lock()
	err := e.sgram.Process(e.chunk)
	e.mu.Unlock()
	if err != nil {
		applog.Errorf("Engine: analysis error: %v", err)
	}
}

// renderLoop emits one canvas row per frame interval.
func (e *Engine) renderLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.cfg.Spectrogram.FrameInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.renderFrame()
		}
	}
}

// renderFrame draws the accumulated spectrum into a fresh canvas row
// and publishes it. Ticks with no accumulated audio are skipped so the
// canvas does not scroll on silence gaps.
func (e *Engine) renderFrame() {
	e.mu.Lock()
	if e.sgram.Frames() == 0 {
		e.mu.Unlock()
		return
	}
	row := e.view.Scroll()
	err := e.sgram.DrawFrame(row)
	e.mu.Unlock()

	if err != nil {
		applog.Errorf("Engine: render error: %v", err)
		return
	}

	if len(e.transports) == 0 {
		return
	}

	e.seq++
	frame := &transport.Frame{
		Seq:     e.seq,
		TimeMs:  time.Now().UnixMilli(),
		Width:   row.Len(),
		FromKey: e.cfg.Spectrogram.FromKey,
		ToKey:   e.cfg.Spectrogram.ToKey,
		// Transports hold on to the frame, so the row is copied rather
		// than shared with the scrolling canvas.
		Gray: row.AppendGray(make([]byte, 0, row.Len())),
	}
	for _, t := range e.transports {
		if err := t.Publish(frame); err != nil {
			applog.Warnf("Engine: publish error: %v", err)
		}
	}
}

// SaveSnapshot writes the current canvas contents to a PNG file.
// Intended for use after Close; calling it while the render loop runs
// races with scrolling.
func (e *Engine) SaveSnapshot(path string) error {
	return e.view.SavePNG(path)
}

func (e *Engine) stopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	if err := e.inputStream.Stop(); err != nil {
		return err
	}
	if err := e.inputStream.Close(); err != nil {
		return err
	}
	e.inputStream = nil
	return nil
}

func (e *Engine) closeTransports() {
	for _, t := range e.transports {
		if err := t.Close(); err != nil {
			applog.Warnf("Engine: transport close error: %v", err)
		}
	}
	e.transports = nil
}

// Close stops the render loop, the input stream, any active recording,
// and all transports.
func (e *Engine) Close() error {
	select {
	case <-e.done:
	default:
		close(e.done)
	}
	e.wg.Wait()

	// The stream must stop before the recorder closes: the capture
	// callback writes to the encoder, and the active flag alone does
	// not fence a write already in flight.
	err := e.stopInputStream()

	if recErr := e.StopRecording(); recErr != nil {
		applog.Errorf("Engine: error stopping recording: %v", recErr)
	}

	e.closeTransports()
	return err
}
