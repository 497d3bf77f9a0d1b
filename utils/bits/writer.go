package bits

// Writer accumulates bits MSB first into a growing byte buffer. It is the
// encoding counterpart of Reader, used to build synthetic payloads in tests
// and tools; parsed structures themselves are never re-serialized.
type Writer struct {
	data   []byte
	bitOff int // 0..7, bits already filled in the last byte
}

// WriteBit appends one bit.
func (w *Writer) WriteBit(bit uint8) {
	if w.bitOff == 0 {
		w.data = append(w.data, 0)
	}
	if bit != 0 {
		w.data[len(w.data)-1] |= 1 << (7 - w.bitOff)
	}
	w.bitOff = (w.bitOff + 1) % 8
}

// WriteFlag appends one bit from a boolean.
func (w *Writer) WriteFlag(f bool) {
	if f {
		w.WriteBit(1)
	} else {
		w.WriteBit(0)
	}
}

// WriteBits appends the n low-order bits of v, MSB first.
func (w *Writer) WriteBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(uint8(v >> uint(i) & 1))
	}
}

// WriteBits64 appends the n low-order bits of v, MSB first.
func (w *Writer) WriteBits64(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(uint8(v >> uint(i) & 1))
	}
}

// WriteUE appends v as an unsigned Exp-Golomb code.
func (w *Writer) WriteUE(v uint32) {
	length := 1
	for tmp := uint64(v) + 1; tmp > 1; tmp >>= 1 {
		length += 2
	}
	w.WriteBits64(uint64(v)+1, length)
}

// WriteSE appends v as a signed Exp-Golomb code (0,1,-1,2,-2 -> 0,1,2,3,4).
func (w *Writer) WriteSE(v int32) {
	if v <= 0 {
		w.WriteUE(uint32(-v) * 2)
	} else {
		w.WriteUE(uint32(v)*2 - 1)
	}
}

// WriteTrailingBits appends the rbsp_trailing_bits pattern: a stop bit and
// zero padding to the next byte boundary.
func (w *Writer) WriteTrailingBits() {
	w.WriteBit(1)
	for w.bitOff != 0 {
		w.WriteBit(0)
	}
}

// Bytes returns the accumulated buffer, zero-padded to a whole byte.
func (w *Writer) Bytes() []byte {
	return w.data
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int {
	n := len(w.data) * 8
	if w.bitOff != 0 {
		n -= 8 - w.bitOff
	}
	return n
}

// EmulationPrevention inserts a 0x03 byte after every pair of zero bytes
// followed by a byte less than or equal to 0x03, producing the stuffed form a
// NAL unit carries on the wire. Reader removes the inserted bytes
// transparently.
func EmulationPrevention(payload []byte) []byte {
	out := make([]byte, 0, len(payload))
	zeros := 0
	for _, b := range payload {
		if zeros >= 2 && b <= 0x03 {
			out = append(out, 0x03)
			zeros = 0
		}
		out = append(out, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}
