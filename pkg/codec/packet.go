package codec

import "math"

// NoTimestamp marks an undeclared timestamp, same value as FFmpeg's AV_NOPTS_VALUE.
const NoTimestamp int64 = math.MinInt64

// Packet is a span of compressed stream data with a read cursor. A codec may
// need several calls to consume one packet; Advance moves the cursor past the
// consumed bytes so the rest can be offered again.
type Packet struct {
	data     []byte
	offset   int
	pts      int64
	dts      int64
	released bool
}

func NewPacket(data []byte, pts, dts int64) *Packet {
	return &Packet{data: data, pts: pts, dts: dts}
}

// Reset reuses the packet for new data, keeping the underlying array when it is large enough.
func (p *Packet) Reset(data []byte, pts, dts int64) {
	if cap(p.data) >= len(data) {
		p.data = append(p.data[:0], data...)
	} else {
		p.data = append([]byte(nil), data...)
	}
	p.offset = 0
	p.pts = pts
	p.dts = dts
	p.released = false
}

// Bytes returns the bytes not consumed yet.
func (p *Packet) Bytes() []byte {
	return p.data[p.offset:]
}

func (p *Packet) Remaining() int {
	return len(p.data) - p.offset
}

func (p *Packet) Size() int {
	return len(p.data)
}

func (p *Packet) Exhausted() bool {
	return p.Remaining() <= 0
}

func (p *Packet) PTS() int64 {
	return p.pts
}

func (p *Packet) DTS() int64 {
	return p.dts
}

// Advance moves the cursor forward by n consumed bytes.
func (p *Packet) Advance(n int) error {
	if n < 0 || n > p.Remaining() {
		return ErrorPacketOverrun
	}
	p.offset += n
	return nil
}

// Release marks the packet as given up by its current owner. It fails on the second call.
func (p *Packet) Release() error {
	if p.released {
		return ErrorPacketReleased
	}
	p.released = true
	return nil
}

func (p *Packet) Released() bool {
	return p.released
}
