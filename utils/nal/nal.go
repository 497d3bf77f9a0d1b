// Package nal splits elementary-stream buffers into individual NAL units.
// It recognizes Annex B start-code framing (3- and 4-byte start codes) and
// AVCC/HVCC 4-byte length prefixes, falling back to treating the buffer as a
// single raw unit.
package nal

import "encoding/binary"

// Format identifies how NAL units were framed in the input buffer.
type Format int

const (
	FormatRaw    Format = iota // no framing detected, single unit
	FormatAVCC                 // 4-byte big-endian length prefixes
	FormatAnnexB               // 0x000001 / 0x00000001 start codes
)

// String returns the framing name.
func (f Format) String() string {
	switch f {
	case FormatAVCC:
		return "avcc"
	case FormatAnnexB:
		return "annexb"
	}
	return "raw"
}

// minUnitSize is the smallest buffer for which framing detection is
// attempted; an AVCC length prefix alone needs four bytes.
const minUnitSize = 4

// startCodeAt reports whether a 3- or 4-byte start code begins at pos and its
// length.
func startCodeAt(b []byte, pos int) (length int, found bool) {
	if pos+2 >= len(b) || b[pos] != 0 {
		return 0, false
	}
	if b[pos+1] == 0 && b[pos+2] == 1 {
		return 3, true
	}
	if b[pos+1] == 0 && b[pos+2] == 0 && pos+3 < len(b) && b[pos+3] == 1 {
		return 4, true
	}
	return 0, false
}

// splitAnnexB cuts b at every start code. The leading start code has already
// been located by Split.
func splitAnnexB(b []byte, firstLen int) [][]byte {
	var units [][]byte
	pos := firstLen
	start := pos
	for pos < len(b) {
		scLen, found := startCodeAt(b, pos)
		if !found {
			pos++
			continue
		}
		if pos > start {
			units = append(units, b[start:pos])
		}
		pos += scLen
		start = pos
	}
	if start < len(b) {
		units = append(units, b[start:])
	}
	return units
}

// splitAVCC cuts b at 4-byte big-endian length prefixes. Trailing partial
// units of corrupt streams are salvaged as-is rather than dropped.
func splitAVCC(b []byte) ([][]byte, bool) {
	var units [][]byte
	rest := b
	for len(rest) >= minUnitSize {
		size := binary.BigEndian.Uint32(rest)
		rest = rest[minUnitSize:]
		if size == 0 {
			continue
		}
		if uint64(size) > uint64(len(rest)) {
			if len(units) == 0 {
				return nil, false
			}
			if len(rest) > 0 {
				units = append(units, rest)
			}
			return units, true
		}
		units = append(units, rest[:size])
		rest = rest[size:]
	}
	if len(rest) > 0 && len(units) > 0 {
		units = append(units, rest)
	}
	return units, len(units) > 0
}

// Split cuts a buffer into NAL units and reports the framing it detected.
// Buffers shorter than a length prefix are returned unchanged as one raw
// unit.
func Split(b []byte) ([][]byte, Format) {
	if len(b) < minUnitSize {
		return [][]byte{b}, FormatRaw
	}

	if scLen, found := startCodeAt(b, 0); found {
		return splitAnnexB(b, scLen), FormatAnnexB
	}

	if binary.BigEndian.Uint32(b) <= uint32(len(b)) {
		if units, ok := splitAVCC(b); ok {
			return units, FormatAVCC
		}
	}

	return [][]byte{b}, FormatRaw
}
