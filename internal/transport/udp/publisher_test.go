// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"spectro/internal/transport"
)

func newLoopbackPair(t *testing.T) (*net.UDPConn, *Sender) {
	t.Helper()

	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to open loopback listener: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	sender, err := NewSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("failed to create sender: %v", err)
	}
	t.Cleanup(func() { sender.Close() })

	return listener, sender
}

func TestPublisherPacketFormat(t *testing.T) {
	listener, sender := newLoopbackPair(t)

	pub, err := NewPublisher(sender, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	frame := &transport.Frame{
		Seq:    7,
		TimeMs: 1234567,
		Width:  4,
		Gray:   []byte{0, 85, 170, 255},
	}
	if err := pub.Publish(frame); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 1500)
	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("failed to receive packet: %v", err)
	}
	pkt := buf[:n]

	wantLen := 4 + 1 + 4 + 8 + 2 + len(frame.Gray)
	if len(pkt) != wantLen {
		t.Fatalf("packet length %d, want %d", len(pkt), wantLen)
	}
	if string(pkt[:4]) != packetMagic {
		t.Errorf("magic %q, want %q", pkt[:4], packetMagic)
	}
	if pkt[4] != packetVersion {
		t.Errorf("version %d, want %d", pkt[4], packetVersion)
	}
	if seq := binary.BigEndian.Uint32(pkt[5:9]); seq != 7 {
		t.Errorf("seq %d, want 7", seq)
	}
	if ms := int64(binary.BigEndian.Uint64(pkt[9:17])); ms != 1234567 {
		t.Errorf("time %d, want 1234567", ms)
	}
	if w := binary.BigEndian.Uint16(pkt[17:19]); w != 4 {
		t.Errorf("width %d, want 4", w)
	}
	for i, want := range frame.Gray {
		if pkt[19+i] != want {
			t.Errorf("gray[%d] = %d, want %d", i, pkt[19+i], want)
		}
	}
}

func TestPublisherRateLimits(t *testing.T) {
	listener, sender := newLoopbackPair(t)

	pub, err := NewPublisher(sender, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	frame := &transport.Frame{Seq: 1, Width: 1, Gray: []byte{0}}
	if err := pub.Publish(frame); err != nil {
		t.Fatal(err)
	}
	// Second publish inside the interval is dropped silently.
	if err := pub.Publish(frame); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 64)
	listener.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := listener.ReadFromUDP(buf); err != nil {
		t.Fatalf("first packet not received: %v", err)
	}

	listener.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := listener.ReadFromUDP(buf); err == nil {
		t.Error("expected no second packet within the interval")
	}
}

func TestPublisherRequiresSender(t *testing.T) {
	if _, err := NewPublisher(nil, time.Millisecond); err == nil {
		t.Error("expected error for nil sender")
	}
}
