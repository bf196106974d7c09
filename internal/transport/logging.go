// SPDX-License-Identifier: MIT
package transport

import (
	applog "spectro/internal/log"
)

// LoggingTransport logs frame metadata at debug level instead of
// transmitting. Useful when no network transport is enabled.
type LoggingTransport struct{}

// NewLoggingTransport creates a LoggingTransport.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: using LoggingTransport")
	return &LoggingTransport{}
}

// Publish logs the frame metadata. Never fails.
func (t *LoggingTransport) Publish(frame *Frame) error {
	applog.Debugf("Transport: frame seq=%d width=%d keys=[%.1f, %.1f]",
		frame.Seq, frame.Width, frame.FromKey, frame.ToKey)
	return nil
}

// Close is a no-op.
func (t *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
