package h264

import (
	"github.com/ugparu/avparse"
	"github.com/ugparu/avparse/utils/logger"
)

// Attributes tracks the picture attributes advertised by the most recent
// valid SPS of an AVC stream. The zero value is ready to use.
type Attributes struct {
	sps   SPS
	valid bool
}

// NewAttributes returns an empty attribute tracker.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Feed offers one NAL unit to the tracker. Units that are not a sequence
// parameter set, or that fail to decode, leave the state untouched. It
// reports whether the visible attributes changed.
func (a *Attributes) Feed(accessUnit []byte) bool {
	if len(accessUnit) == 0 {
		return false
	}
	if accessUnit[0]&0x1f != NaluSPS {
		return false
	}

	var sps SPS
	if err := sps.DecodeBytes(accessUnit); err != nil {
		logger.Debugf(a, "dropping undecodable SPS: %v", err)
		return false
	}

	changed := !a.valid ||
		a.sps.Width() != sps.Width() ||
		a.sps.Height() != sps.Height() ||
		a.sps.ChromaFormat() != sps.ChromaFormat() ||
		a.sps.ProfileIdc != sps.ProfileIdc ||
		a.sps.LevelIdc != sps.LevelIdc
	a.sps = sps
	a.valid = true
	return changed
}

// Valid reports whether at least one SPS has been accepted.
func (a *Attributes) Valid() bool { return a.valid }

// Width returns the cropped frame width in luma samples, 0 before the first
// SPS.
func (a *Attributes) Width() uint {
	if !a.valid {
		return 0
	}
	return a.sps.Width()
}

// Height returns the cropped frame height in luma samples, 0 before the
// first SPS.
func (a *Attributes) Height() uint {
	if !a.valid {
		return 0
	}
	return a.sps.Height()
}

// Profile returns profile_idc from the last accepted SPS.
func (a *Attributes) Profile() uint8 {
	if !a.valid {
		return 0
	}
	return a.sps.ProfileIdc
}

// Level returns level_idc from the last accepted SPS.
func (a *Attributes) Level() uint8 {
	if !a.valid {
		return 0
	}
	return a.sps.LevelIdc
}

// Chroma returns the effective chroma format of the last accepted SPS.
func (a *Attributes) Chroma() avparse.ChromaFormat {
	if !a.valid {
		return avparse.ChromaMono
	}
	return a.sps.ChromaFormat()
}

// SPS returns a copy of the last accepted parameter set.
func (a *Attributes) SPS() SPS { return a.sps }

func (a *Attributes) String() string { return "h264Attributes" }
