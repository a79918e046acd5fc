package codec

import (
	"errors"
	"testing"
)

func TestPacketAdvance(t *testing.T) {
	t.Parallel()

	p := NewPacket([]byte{1, 2, 3, 4, 5}, 10, 9)
	if p.Remaining() != 5 || p.Exhausted() {
		t.Fatalf("fresh packet: remaining=%d exhausted=%v", p.Remaining(), p.Exhausted())
	}

	if err := p.Advance(3); err != nil {
		t.Fatalf("Advance(3): %v", err)
	}
	if got := p.Bytes(); len(got) != 2 || got[0] != 4 {
		t.Errorf("Bytes after advance: got %v, want [4 5]", got)
	}

	if err := p.Advance(3); !errors.Is(err, ErrorPacketOverrun) {
		t.Errorf("Advance past end: got %v, want ErrorPacketOverrun", err)
	}
	if err := p.Advance(-1); !errors.Is(err, ErrorPacketOverrun) {
		t.Errorf("Advance(-1): got %v, want ErrorPacketOverrun", err)
	}

	if err := p.Advance(2); err != nil {
		t.Fatalf("Advance(2): %v", err)
	}
	if !p.Exhausted() {
		t.Error("packet should be exhausted")
	}
	if p.Size() != 5 {
		t.Errorf("Size: got %d, want 5", p.Size())
	}
}

func TestPacketReleaseOnce(t *testing.T) {
	t.Parallel()

	p := NewPacket([]byte{1}, NoTimestamp, NoTimestamp)
	if err := p.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := p.Release(); !errors.Is(err, ErrorPacketReleased) {
		t.Errorf("second Release: got %v, want ErrorPacketReleased", err)
	}
	if !p.Released() {
		t.Error("Released() should be true")
	}
}

func TestPacketReset(t *testing.T) {
	t.Parallel()

	p := NewPacket(make([]byte, 8), 1, 1)
	_ = p.Advance(8)
	_ = p.Release()

	p.Reset([]byte{7, 7, 7}, 20, 19)
	if p.Released() {
		t.Error("Reset should clear the released flag")
	}
	if p.Remaining() != 3 || p.PTS() != 20 || p.DTS() != 19 {
		t.Errorf("Reset: remaining=%d pts=%d dts=%d", p.Remaining(), p.PTS(), p.DTS())
	}
}
