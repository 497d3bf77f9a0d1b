// Package h264 decodes AVC / ITU-T H.264 elementary-stream syntax
// structures: NAL unit headers and sequence parameter sets with their nested
// VUI and HRD blocks, down to individual bitstream fields.
package h264

import "errors"

// NAL unit type codes from the nal_unit_type field.
const (
	NaluUnspecified   = 0
	NaluNonIDR        = 1
	NaluPartitionA    = 2
	NaluPartitionB    = 3
	NaluPartitionC    = 4
	NaluCodedIDR      = 5
	NaluSEI           = 6
	NaluSPS           = 7
	NaluPPS           = 8
	NaluAUD           = 9
	NaluEndOfSequence = 10
	NaluEndOfStream   = 11
	NaluFillerData    = 12
	NaluSPSExtension  = 13
	NaluPrefix        = 14
	NaluSubsetSPS     = 15
)

var (
	ErrIncorrectUnitSize = errors.New("h264parser: incorrect unit size")
	ErrIncorrectUnitType = errors.New("h264parser: incorrect unit type")
)

// NALUnitHeader is the one-byte header at the start of every AVC NAL unit.
type NALUnitHeader struct {
	ForbiddenZeroBit uint8 // observed, not enforced
	NalRefIdc        uint8 // 2-bit reference importance indicator
	NalUnitType      uint8 // 5-bit unit type code
}

// Decode extracts the header from the start of data and returns the
// remaining payload bytes.
func (h *NALUnitHeader) Decode(data []byte) (payload []byte, err error) {
	*h = NALUnitHeader{}
	if len(data) < 1 {
		return nil, ErrIncorrectUnitSize
	}
	h.ForbiddenZeroBit = data[0] >> 7 & 1
	h.NalRefIdc = data[0] >> 5 & 3
	h.NalUnitType = data[0] & 0x1f
	return data[1:], nil
}

// IsVCL reports whether the unit type carries coded slice data.
func (h *NALUnitHeader) IsVCL() bool {
	return h.NalUnitType >= NaluNonIDR && h.NalUnitType <= NaluCodedIDR
}
