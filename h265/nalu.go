// Package h265 decodes HEVC / ITU-T H.265 elementary-stream syntax
// structures: NAL unit headers and sequence parameter sets, including the
// profile-tier-level, scaling-list, short-term RPS, VUI and HRD blocks
// nested inside them.
package h265

import "errors"

// NAL unit type codes from the nal_unit_type field.
const (
	NaluTrailN     = 0
	NaluTrailR     = 1
	NaluTsaN       = 2
	NaluTsaR       = 3
	NaluStsaN      = 4
	NaluStsaR      = 5
	NaluRadlN      = 6
	NaluRadlR      = 7
	NaluRaslN      = 8
	NaluRaslR      = 9
	NaluBlaWLp     = 16
	NaluBlaWRadl   = 17
	NaluBlaNLp     = 18
	NaluIdrWRadl   = 19
	NaluIdrNLp     = 20
	NaluCra        = 21
	NaluVPS        = 32
	NaluSPS        = 33
	NaluPPS        = 34
	NaluAUD        = 35
	NaluEOS        = 36
	NaluEOB        = 37
	NaluFillerData = 38
	NaluPrefixSEI  = 39
	NaluSuffixSEI  = 40
)

var (
	ErrIncorrectUnitSize = errors.New("h265parser: incorrect unit size")
	ErrIncorrectUnitType = errors.New("h265parser: incorrect unit type")
)

// NALUnitHeader is the two-byte header at the start of every HEVC NAL unit.
type NALUnitHeader struct {
	ForbiddenZeroBit   uint8 // observed, not enforced
	NalUnitType        uint8 // 6-bit unit type code
	NuhLayerID         uint8 // 6 bits, split across the byte boundary
	NuhTemporalIDPlus1 uint8 // 3 bits
}

// Decode extracts the header from the start of data and returns the
// remaining payload bytes.
func (h *NALUnitHeader) Decode(data []byte) (payload []byte, err error) {
	*h = NALUnitHeader{}
	if len(data) < 2 {
		return nil, ErrIncorrectUnitSize
	}
	h.ForbiddenZeroBit = data[0] >> 7 & 1
	h.NalUnitType = data[0] >> 1 & 0x3f
	h.NuhLayerID = (data[0]&1)<<5 | data[1]>>3
	h.NuhTemporalIDPlus1 = data[1] & 7
	return data[2:], nil
}

// IsVCL reports whether the unit type carries coded slice data.
func (h *NALUnitHeader) IsVCL() bool {
	return h.NalUnitType < NaluVPS
}

// IsIRAP reports whether the unit starts an intra random access point.
func (h *NALUnitHeader) IsIRAP() bool {
	return h.NalUnitType >= NaluBlaWLp && h.NalUnitType <= NaluCra
}
