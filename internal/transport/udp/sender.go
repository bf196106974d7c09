// SPDX-License-Identifier: MIT
//
// Package udp sends rendered spectrogram rows as binary packets over
// UDP, for consumers that want the raw row stream without the JSON and
// connection overhead of the WebSocket transport.
package udp

import (
	"fmt"
	"net"
	"sync"

	applog "spectro/internal/log"
)

// Sender transmits byte packets to a fixed UDP target.
type Sender struct {
	conn   *net.UDPConn
	mu     sync.Mutex // Protects conn against concurrent Close/Write
	closed bool
}

// NewSender creates a Sender targeting the given "host:port" address.
func NewSender(targetAddress string) (*Sender, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve UDP target address %q: %w", targetAddress, err)
	}

	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial UDP target %q: %w", targetAddress, err)
	}

	applog.Infof("UDP sender: connected to %s", conn.RemoteAddr())

	return &Sender{conn: conn}, nil
}

// Send transmits data as one UDP packet. Safe for concurrent use.
func (s *Sender) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("UDP sender is closed")
	}

	n, err := s.conn.Write(data)
	if err != nil {
		return fmt.Errorf("UDP write failed: %w", err)
	}
	if n < len(data) {
		return fmt.Errorf("UDP short write: %d of %d bytes", n, len(data))
	}
	return nil
}

// Close shuts down the connection. Subsequent Sends fail.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
