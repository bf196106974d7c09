// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"spectro/cmd"
	"spectro/internal/engine"
	applog "spectro/internal/log"
	"spectro/pkg/build"
)

// main is the entry point for the spectrogram application.
// The program flow is divided into three phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Configure runtime settings
//   - Parse command line arguments and configuration
//   - Initialize PortAudio
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Start the capture stream and analysis
//   - Start the render loop and row transports
//   - Start recording if enabled
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals
//   - Stop recording if active
//   - Write the canvas snapshot if requested
//   - Clean up resources
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	build.Initialize()

	// Limit OS threads to favor the real-time audio callback:
	// one thread for capture+analysis, one for rendering and I/O.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if cfg == nil {
		// Cobra handled the invocation (help, version).
		return
	}

	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if cfg.Debug {
		applog.SetLevel(applog.LevelDebug)
	}

	if err := engine.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer engine.Terminate()

	// One-off commands that don't need the engine running.
	if cfg.Command == "list" {
		if err := engine.ListDevices(); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	eng, err := engine.New(cfg)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	if err := eng.Start(); err != nil {
		applog.Fatalf("%v", err)
	}

	if cfg.Recording.Enabled {
		if err := eng.StartRecording(cfg.Recording.OutputFile); err != nil {
			applog.Fatalf("%v", err)
		}
	}

	<-done

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	recording := cfg.Recording.Enabled

	if err := eng.Close(); err != nil {
		applog.Errorf("Error closing engine: %v", err)
	}

	if recording {
		fmt.Printf("\nRecording saved to: %s\n", cfg.Recording.OutputFile)
	}

	if path := cfg.Spectrogram.SnapshotPath; path != "" {
		if err := eng.SaveSnapshot(path); err != nil {
			applog.Errorf("Error writing snapshot: %v", err)
		} else {
			fmt.Printf("Snapshot saved to: %s\n", path)
		}
	}
}
