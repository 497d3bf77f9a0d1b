package h265

import (
	"errors"

	"github.com/ugparu/avparse/utils/bits"
)

var errRange = errors.New("h265parser: field value out of range")

const maxSubLayers = 8

// SubLayerPTL is the per-sub-layer portion of a profile_tier_level block.
// Profile and level parts are present independently, each gated by its own
// flag read in the parent block.
type SubLayerPTL struct {
	ProfilePresentFlag bool
	LevelPresentFlag   bool

	ProfileSpace              uint8
	TierFlag                  bool
	ProfileIdc                uint8
	ProfileCompatibilityFlags uint32
	ProgressiveSourceFlag     bool
	InterlacedSourceFlag      bool
	NonPackedConstraintFlag   bool
	FrameOnlyConstraintFlag   bool
	ConstraintFlags           uint16 // the 10 format-range constraint bits
	ReservedZero33Bits        uint64
	InbldFlag                 bool

	LevelIdc uint8
}

// ProfileTierLevel is the profile_tier_level block of an HEVC parameter set.
type ProfileTierLevel struct {
	GeneralProfileSpace              uint8
	GeneralTierFlag                  bool
	GeneralProfileIdc                uint8
	GeneralProfileCompatibilityFlags uint32
	GeneralProgressiveSourceFlag     bool
	GeneralInterlacedSourceFlag      bool
	GeneralNonPackedConstraintFlag   bool
	GeneralFrameOnlyConstraintFlag   bool

	GeneralMax12BitConstraintFlag       bool
	GeneralMax10BitConstraintFlag       bool
	GeneralMax8BitConstraintFlag        bool
	GeneralMax422ChromaConstraintFlag   bool
	GeneralMax420ChromaConstraintFlag   bool
	GeneralMaxMonochromeConstraintFlag  bool
	GeneralIntraConstraintFlag          bool
	GeneralOnePictureOnlyConstraintFlag bool
	GeneralLowerBitRateConstraintFlag   bool
	GeneralMax14BitConstraintFlag       bool

	GeneralReservedZero33Bits uint64
	GeneralInbldFlag          bool
	GeneralLevelIdc           uint8

	SubLayers []SubLayerPTL
}

// Decode reads the profile_tier_level syntax from r. The sub-layer count is
// a side parameter taken from the enclosing parameter set, not from the
// bitstream.
func (ptl *ProfileTierLevel) Decode(r *bits.Reader, maxNumSubLayersMinus1 uint8) (err error) {
	*ptl = ProfileTierLevel{}
	if maxNumSubLayersMinus1 >= maxSubLayers {
		return errRange
	}

	if ptl.GeneralProfileSpace, err = readUint8(r, 2); err != nil {
		return err
	}
	if ptl.GeneralTierFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if ptl.GeneralProfileIdc, err = readUint8(r, 5); err != nil {
		return err
	}
	if ptl.GeneralProfileCompatibilityFlags, err = r.ReadBits(32); err != nil {
		return err
	}
	if ptl.GeneralProgressiveSourceFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if ptl.GeneralInterlacedSourceFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if ptl.GeneralNonPackedConstraintFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if ptl.GeneralFrameOnlyConstraintFlag, err = r.ReadFlag(); err != nil {
		return err
	}

	constraints, err := r.ReadBits(10)
	if err != nil {
		return err
	}
	ptl.GeneralMax12BitConstraintFlag = constraints>>9&1 != 0
	ptl.GeneralMax10BitConstraintFlag = constraints>>8&1 != 0
	ptl.GeneralMax8BitConstraintFlag = constraints>>7&1 != 0
	ptl.GeneralMax422ChromaConstraintFlag = constraints>>6&1 != 0
	ptl.GeneralMax420ChromaConstraintFlag = constraints>>5&1 != 0
	ptl.GeneralMaxMonochromeConstraintFlag = constraints>>4&1 != 0
	ptl.GeneralIntraConstraintFlag = constraints>>3&1 != 0
	ptl.GeneralOnePictureOnlyConstraintFlag = constraints>>2&1 != 0
	ptl.GeneralLowerBitRateConstraintFlag = constraints>>1&1 != 0
	ptl.GeneralMax14BitConstraintFlag = constraints&1 != 0

	if ptl.GeneralReservedZero33Bits, err = r.ReadBits64(33); err != nil {
		return err
	}
	if ptl.GeneralInbldFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if ptl.GeneralLevelIdc, err = readUint8(r, 8); err != nil {
		return err
	}

	if maxNumSubLayersMinus1 == 0 {
		return nil
	}

	ptl.SubLayers = make([]SubLayerPTL, maxNumSubLayersMinus1)
	for i := range ptl.SubLayers {
		if ptl.SubLayers[i].ProfilePresentFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if ptl.SubLayers[i].LevelPresentFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	// Alignment padding for unused sub-layer slots, present whenever any
	// sub-layer exists.
	for i := int(maxNumSubLayersMinus1); i < maxSubLayers; i++ {
		if _, err = r.ReadBits(2); err != nil {
			return err
		}
	}
	for i := range ptl.SubLayers {
		sub := &ptl.SubLayers[i]
		if sub.ProfilePresentFlag {
			if err = sub.decodeProfile(r); err != nil {
				return err
			}
		}
		if sub.LevelPresentFlag {
			if sub.LevelIdc, err = readUint8(r, 8); err != nil {
				return err
			}
		}
	}
	return nil
}

func (sub *SubLayerPTL) decodeProfile(r *bits.Reader) (err error) {
	if sub.ProfileSpace, err = readUint8(r, 2); err != nil {
		return err
	}
	if sub.TierFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sub.ProfileIdc, err = readUint8(r, 5); err != nil {
		return err
	}
	if sub.ProfileCompatibilityFlags, err = r.ReadBits(32); err != nil {
		return err
	}
	if sub.ProgressiveSourceFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sub.InterlacedSourceFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sub.NonPackedConstraintFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sub.FrameOnlyConstraintFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	c, err := r.ReadBits(10)
	if err != nil {
		return err
	}
	sub.ConstraintFlags = uint16(c)
	if sub.ReservedZero33Bits, err = r.ReadBits64(33); err != nil {
		return err
	}
	if sub.InbldFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	return nil
}

// CompatibilityFlag reports general_profile_compatibility_flag[idx]. Flags
// are stored in read order, index 0 in the most significant bit.
func (ptl *ProfileTierLevel) CompatibilityFlag(idx int) bool {
	if idx < 0 || idx > 31 {
		return false
	}
	return ptl.GeneralProfileCompatibilityFlags>>(31-idx)&1 != 0
}

// Profile returns the effective profile: the highest compatibility flag
// index strictly above general_profile_idc wins over the nominal value.
func (ptl *ProfileTierLevel) Profile() uint8 {
	profile := ptl.GeneralProfileIdc
	for idx := int(ptl.GeneralProfileIdc) + 1; idx <= 31; idx++ {
		if ptl.CompatibilityFlag(idx) {
			profile = uint8(idx)
		}
	}
	return profile
}

func readUint8(r *bits.Reader, n int) (uint8, error) {
	v, err := r.ReadBits(n)
	return uint8(v), err
}
