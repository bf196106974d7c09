// SPDX-License-Identifier: MIT
//
// Package transport publishes rendered spectrogram rows to external
// consumers. Implementations must be safe for concurrent use and must
// not block the render loop: slow consumers drop frames.
package transport

// Frame is one rendered spectrogram row plus the metadata a consumer
// needs to interpret it. Gray holds one intensity byte per pixel,
// left-to-right across the configured key range; lower values are
// higher energy.
type Frame struct {
	Seq     uint64  `json:"seq"`
	TimeMs  int64   `json:"time_ms"`
	Width   int     `json:"width"`
	FromKey float64 `json:"from_key"`
	ToKey   float64 `json:"to_key"`
	Gray    []byte  `json:"gray"`
}

// Transport defines a sink for rendered frames.
type Transport interface {
	// Publish hands one frame to the transport. The frame and its Gray
	// slice must not be reused by the caller afterwards.
	Publish(frame *Frame) error
	Close() error
}
