// Package bits provides bit-level access to RBSP (raw byte sequence payload)
// buffers as used by the H.264 and H.265 elementary stream syntax: MSB-first
// bit reads, Exp-Golomb codes and transparent removal of the 0x000003
// start-code emulation prevention pattern.
package bits

import "errors"

// ErrNotEnoughData is returned when a read requests more bits than remain in
// the buffer.
var ErrNotEnoughData = errors.New("bits: not enough data")

// ErrTooManyBits is returned when a read requests more bits than the result
// type can hold.
var ErrTooManyBits = errors.New("bits: requested width exceeds result type")

// ErrCodeOutOfRange is returned when an Exp-Golomb code does not fit uint32.
var ErrCodeOutOfRange = errors.New("bits: exp-golomb code out of range")

// maxLeadingZeros bounds the Exp-Golomb prefix scan. A prefix of 32 or more
// zeros decodes to at least 2^32-1, past the ue(v) value range, so longer
// runs are treated as corrupt instead of being wrapped into uint32.
const maxLeadingZeros = 31

// Reader is a forward-only bit cursor over a borrowed byte slice. The slice
// is never copied and must outlive the reader. The cursor only moves forward;
// PeekBits and SkipTrailingBits restore a saved position internally but no
// rewind is exposed.
//
// Whenever the cursor lands on a byte boundary, a 0x03 byte preceded by two
// zero bytes in the raw buffer is skipped before reading, so callers always
// observe the de-stuffed payload even for fields straddling the pattern.
type Reader struct {
	data    []byte
	byteIdx int
	bitOff  int // 0..7, bits already consumed in data[byteIdx]
}

// NewReader creates a bit cursor over data. The reader borrows the slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// RemainingBytes returns the number of whole unread bytes left. Emulation
// prevention bytes not yet skipped are included, so this is an upper bound on
// the readable payload.
func (r *Reader) RemainingBytes() int {
	n := len(r.data) - r.byteIdx
	if r.bitOff != 0 {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// RemainingBits returns the number of unread bits left, counting emulation
// prevention bytes not yet skipped. Upper bound, same as RemainingBytes.
func (r *Reader) RemainingBits() int {
	n := (len(r.data)-r.byteIdx)*8 - r.bitOff
	if n < 0 {
		return 0
	}
	return n
}

// ByteAligned reports whether the cursor sits on a byte boundary.
func (r *Reader) ByteAligned() bool {
	return r.bitOff == 0
}

// skipEmulation drops a 0x000003 stuffing byte when the cursor sits at the
// start of one. A second 0x03 right after a skipped one is not stuffing (the
// preceding raw bytes are then 0x00 0x03), so a single check suffices.
func (r *Reader) skipEmulation() {
	if r.byteIdx >= 2 && r.byteIdx < len(r.data) &&
		r.data[r.byteIdx] == 0x03 &&
		r.data[r.byteIdx-1] == 0x00 &&
		r.data[r.byteIdx-2] == 0x00 {
		r.byteIdx++
	}
}

// ReadBit consumes one bit.
func (r *Reader) ReadBit() (uint8, error) {
	if r.bitOff == 0 {
		r.skipEmulation()
	}
	if r.byteIdx >= len(r.data) {
		return 0, ErrNotEnoughData
	}
	bit := (r.data[r.byteIdx] >> (7 - r.bitOff)) & 1
	r.bitOff++
	if r.bitOff == 8 {
		r.bitOff = 0
		r.byteIdx++
	}
	return bit, nil
}

// ReadFlag consumes one bit as a boolean.
func (r *Reader) ReadFlag() (bool, error) {
	bit, err := r.ReadBit()
	return bit != 0, err
}

// ReadBits consumes n bits, 0 <= n <= 32, MSB first. On failure the cursor is
// left where the attempt stopped; decoding of the enclosing structure is
// expected to abort, so no rollback is performed.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, ErrTooManyBits
	}
	var res uint32
	for i := 0; i < n; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		res = res<<1 | uint32(bit)
	}
	return res, nil
}

// ReadBits64 consumes n bits, 0 <= n <= 64, MSB first.
func (r *Reader) ReadBits64(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, ErrTooManyBits
	}
	var res uint64
	for i := 0; i < n; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		res = res<<1 | uint64(bit)
	}
	return res, nil
}

// PeekBits reads n bits without consuming them. The cursor is restored to its
// pre-call position whether the read succeeds or fails.
func (r *Reader) PeekBits(n int) (uint32, error) {
	saveByte, saveBit := r.byteIdx, r.bitOff
	res, err := r.ReadBits(n)
	r.byteIdx, r.bitOff = saveByte, saveBit
	return res, err
}

// ReadUE consumes one unsigned Exp-Golomb code: count L leading zero bits up
// to a one bit, read L literal bits, result = (1<<L) - 1 + literal.
func (r *Reader) ReadUE() (uint32, error) {
	zeros := 0
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			break
		}
		zeros++
		if zeros > maxLeadingZeros {
			return 0, ErrCodeOutOfRange
		}
	}
	if zeros == 0 {
		return 0, nil
	}
	literal, err := r.ReadBits(zeros)
	if err != nil {
		return 0, err
	}
	return (1 << uint(zeros)) - 1 + literal, nil
}

// ReadSE consumes one signed Exp-Golomb code, mapping codes 0,1,2,3,4 to
// values 0,1,-1,2,-2.
func (r *Reader) ReadSE() (int32, error) {
	k, err := r.ReadUE()
	if err != nil {
		return 0, err
	}
	if k&1 != 0 {
		return int32((k + 1) / 2), nil
	}
	return -int32(k / 2), nil
}

// SkipTrailingBits matches the rbsp_trailing_bits pattern: one stop bit set
// to 1 followed by zero bits up to the next byte boundary. On a match the
// advance is committed and true is returned; otherwise the cursor is restored
// and false is returned.
func (r *Reader) SkipTrailingBits() bool {
	saveByte, saveBit := r.byteIdx, r.bitOff
	bit, err := r.ReadBit()
	if err != nil || bit != 1 {
		r.byteIdx, r.bitOff = saveByte, saveBit
		return false
	}
	for !r.ByteAligned() {
		bit, err = r.ReadBit()
		if err != nil || bit != 0 {
			r.byteIdx, r.bitOff = saveByte, saveBit
			return false
		}
	}
	return true
}
