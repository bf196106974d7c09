// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	applog "spectro/internal/log"
	"spectro/internal/transport"
)

// Packet layout, all integers big-endian:
//
//	magic   [4]byte "SPGR"
//	version uint8
//	seq     uint32
//	timeMs  int64
//	width   uint16
//	gray    [width]uint8
const (
	packetMagic   = "SPGR"
	packetVersion = 1
)

// Publisher implements transport.Transport by packing frames into the
// binary row format and sending them through a Sender. Frames arriving
// faster than the configured interval are dropped.
type Publisher struct {
	sender   *Sender
	interval time.Duration

	mu       sync.Mutex
	lastSend time.Time
	buf      *bytes.Buffer // Reused packet buffer
}

// NewPublisher creates a Publisher with the given minimum send
// interval. A non-positive interval defaults to 16ms (~60Hz).
func NewPublisher(sender *Sender, interval time.Duration) (*Publisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("udp publisher: sender cannot be nil")
	}
	if interval <= 0 {
		interval = 16 * time.Millisecond
		applog.Warnf("UDP publisher: invalid interval, defaulting to %s", interval)
	}

	return &Publisher{
		sender:   sender,
		interval: interval,
		buf:      new(bytes.Buffer),
	}, nil
}

// Publish packs and sends the frame, unless one was sent within the
// configured interval, in which case the frame is dropped.
func (p *Publisher) Publish(frame *transport.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastSend) < p.interval {
		return nil
	}
	p.lastSend = now

	p.buf.Reset()
	p.buf.WriteString(packetMagic)
	p.buf.WriteByte(packetVersion)
	binary.Write(p.buf, binary.BigEndian, uint32(frame.Seq))
	binary.Write(p.buf, binary.BigEndian, frame.TimeMs)
	binary.Write(p.buf, binary.BigEndian, uint16(frame.Width))
	p.buf.Write(frame.Gray)

	if err := p.sender.Send(p.buf.Bytes()); err != nil {
		return fmt.Errorf("udp publisher: %w", err)
	}
	return nil
}

// Close shuts down the underlying sender.
func (p *Publisher) Close() error {
	return p.sender.Close()
}

var _ transport.Transport = (*Publisher)(nil)
