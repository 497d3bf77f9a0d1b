package h264

import (
	"errors"

	"github.com/ugparu/avparse"
	"github.com/ugparu/avparse/utils/bits"
)

var errRange = errors.New("h264parser: field value out of range")

// Profiles for which the SPS carries the chroma format / bit depth / scaling
// matrix block.
func hasChromaInfo(profileIdc uint8) bool {
	switch profileIdc {
	case 100, 110, 122, 244, 44, 83, 86, 118, 128, 138, 139, 134, 135:
		return true
	}
	return false
}

const (
	mbSize = 16

	maxOffsetsForRefFrame = 255
	maxCpbCnt             = 32
	monochromeProfileIdc  = 183
	extendedSarIdc        = 255
	scalingListCount4x4   = 6
	scalingListCountTotal = 12
	scalingMod            = 256
	defaultScale          = 8
)

// SPS is a decoded AVC sequence parameter set. All fields are populated in
// one pass by Decode; when Valid is false their content is unspecified.
type SPS struct {
	Valid             bool
	TrailingBitsValid bool
	LeftoverBits      int

	ProfileIdc         uint8
	ConstraintSet0Flag bool
	ConstraintSet1Flag bool
	ConstraintSet2Flag bool
	ConstraintSet3Flag bool
	ConstraintSet4Flag bool
	ConstraintSet5Flag bool
	ReservedZero2Bits  uint8
	LevelIdc           uint8
	SeqParameterSetID  uint32

	// Present only for profiles reported by hasChromaInfo; inferred
	// otherwise (chroma_format_idc = 1, or 0 for profile 183).
	ChromaFormatIdc                 uint8
	SeparateColourPlaneFlag         bool
	BitDepthLumaMinus8              uint32
	BitDepthChromaMinus8            uint32
	QpprimeYZeroTransformBypassFlag bool

	SeqScalingMatrixPresentFlag bool
	SeqScalingListPresentFlag   [scalingListCountTotal]bool
	UseDefaultScalingMatrixFlag [scalingListCountTotal]bool
	ScalingList4x4              [scalingListCount4x4][16]int32
	ScalingList8x8              [scalingListCount4x4][64]int32

	Log2MaxFrameNumMinus4 uint32

	PicOrderCntType uint32
	// pic_order_cnt_type == 0
	Log2MaxPicOrderCntLsbMinus4 uint32
	// pic_order_cnt_type == 1
	DeltaPicOrderAlwaysZeroFlag    bool
	OffsetForNonRefPic             int32
	OffsetForTopToBottomField      int32
	NumRefFramesInPicOrderCntCycle uint32
	OffsetForRefFrame              []int32

	MaxNumRefFrames                uint32
	GapsInFrameNumValueAllowedFlag bool
	PicWidthInMbsMinus1            uint32
	PicHeightInMapUnitsMinus1      uint32
	FrameMbsOnlyFlag               bool
	MbAdaptiveFrameFieldFlag       bool
	Direct8x8InferenceFlag         bool

	FrameCroppingFlag     bool
	FrameCropLeftOffset   uint32
	FrameCropRightOffset  uint32
	FrameCropTopOffset    uint32
	FrameCropBottomOffset uint32

	VuiParametersPresentFlag bool
	Vui                      *VUI
}

// DecodeBytes decodes one complete SPS NAL unit, header byte included, and
// performs the advisory trailing-bits check.
func (sps *SPS) DecodeBytes(nalu []byte) error {
	var header NALUnitHeader
	payload, err := header.Decode(nalu)
	if err != nil {
		*sps = SPS{}
		return err
	}
	if header.NalUnitType != NaluSPS {
		*sps = SPS{}
		return ErrIncorrectUnitType
	}

	r := bits.NewReader(payload)
	if err := sps.Decode(r); err != nil {
		return err
	}
	sps.TrailingBitsValid = r.SkipTrailingBits()
	sps.LeftoverBits = r.RemainingBits()
	return nil
}

// Decode reads the seq_parameter_set_data syntax from r. The record is fully
// reset first, so a re-decode never leaks fields from a previous attempt.
func (sps *SPS) Decode(r *bits.Reader) (err error) {
	*sps = SPS{}

	if sps.ProfileIdc, err = readUint8(r, 8); err != nil {
		return err
	}
	if sps.ConstraintSet0Flag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ConstraintSet1Flag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ConstraintSet2Flag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ConstraintSet3Flag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ConstraintSet4Flag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ConstraintSet5Flag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ReservedZero2Bits, err = readUint8(r, 2); err != nil {
		return err
	}
	if sps.LevelIdc, err = readUint8(r, 8); err != nil {
		return err
	}
	if sps.SeqParameterSetID, err = r.ReadUE(); err != nil {
		return err
	}

	if hasChromaInfo(sps.ProfileIdc) {
		if err = sps.decodeChromaInfo(r); err != nil {
			return err
		}
	} else {
		// chroma_format_idc is absent: inferred 4:2:0 except for the
		// monochrome-only profile.
		if sps.ProfileIdc == monochromeProfileIdc {
			sps.ChromaFormatIdc = 0
		} else {
			sps.ChromaFormatIdc = 1
		}
	}

	if sps.Log2MaxFrameNumMinus4, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.PicOrderCntType, err = r.ReadUE(); err != nil {
		return err
	}
	switch sps.PicOrderCntType {
	case 0:
		if sps.Log2MaxPicOrderCntLsbMinus4, err = r.ReadUE(); err != nil {
			return err
		}
	case 1:
		if sps.DeltaPicOrderAlwaysZeroFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if sps.OffsetForNonRefPic, err = r.ReadSE(); err != nil {
			return err
		}
		if sps.OffsetForTopToBottomField, err = r.ReadSE(); err != nil {
			return err
		}
		if sps.NumRefFramesInPicOrderCntCycle, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.NumRefFramesInPicOrderCntCycle > maxOffsetsForRefFrame {
			return errRange
		}
		sps.OffsetForRefFrame = make([]int32, sps.NumRefFramesInPicOrderCntCycle)
		for i := range sps.OffsetForRefFrame {
			if sps.OffsetForRefFrame[i], err = r.ReadSE(); err != nil {
				return err
			}
		}
	}

	if sps.MaxNumRefFrames, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.GapsInFrameNumValueAllowedFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.PicWidthInMbsMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.PicHeightInMapUnitsMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.FrameMbsOnlyFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if !sps.FrameMbsOnlyFlag {
		if sps.MbAdaptiveFrameFieldFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	if sps.Direct8x8InferenceFlag, err = r.ReadFlag(); err != nil {
		return err
	}

	if sps.FrameCroppingFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.FrameCroppingFlag {
		if sps.FrameCropLeftOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.FrameCropRightOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.FrameCropTopOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.FrameCropBottomOffset, err = r.ReadUE(); err != nil {
			return err
		}
	}

	if sps.VuiParametersPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.VuiParametersPresentFlag {
		sps.Vui = &VUI{}
		if err = sps.Vui.Decode(r); err != nil {
			return err
		}
	}

	sps.Valid = true
	return nil
}

func (sps *SPS) decodeChromaInfo(r *bits.Reader) (err error) {
	chroma, err := r.ReadUE()
	if err != nil {
		return err
	}
	if chroma > uint32(avparse.Chroma444) {
		return errRange
	}
	sps.ChromaFormatIdc = uint8(chroma)
	if sps.ChromaFormatIdc == uint8(avparse.Chroma444) {
		if sps.SeparateColourPlaneFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	if sps.BitDepthLumaMinus8, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.BitDepthChromaMinus8, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.QpprimeYZeroTransformBypassFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.SeqScalingMatrixPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if !sps.SeqScalingMatrixPresentFlag {
		return nil
	}

	count := 8
	if sps.ChromaFormatIdc == uint8(avparse.Chroma444) {
		count = scalingListCountTotal
	}
	for i := 0; i < count; i++ {
		if sps.SeqScalingListPresentFlag[i], err = r.ReadFlag(); err != nil {
			return err
		}
		if !sps.SeqScalingListPresentFlag[i] {
			continue
		}
		if i < scalingListCount4x4 {
			err = decodeScalingList(r, sps.ScalingList4x4[i][:], &sps.UseDefaultScalingMatrixFlag[i])
		} else {
			err = decodeScalingList(r, sps.ScalingList8x8[i-scalingListCount4x4][:], &sps.UseDefaultScalingMatrixFlag[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeScalingList runs the delta-coded scale recursion of 7.3.2.1.1.1,
// storing the reconstructed scale per coefficient position.
func decodeScalingList(r *bits.Reader, list []int32, useDefault *bool) error {
	lastScale := int32(defaultScale)
	nextScale := int32(defaultScale)
	for j := range list {
		if nextScale != 0 {
			delta, err := r.ReadSE()
			if err != nil {
				return err
			}
			nextScale = (lastScale + delta + scalingMod) % scalingMod
			if j == 0 && nextScale == 0 {
				*useDefault = true
			}
		}
		if nextScale == 0 {
			list[j] = lastScale
		} else {
			list[j] = nextScale
			lastScale = nextScale
		}
	}
	return nil
}

// ChromaFormat returns the effective chroma format, after the inference rules
// for profiles whose SPS omits chroma_format_idc.
func (sps *SPS) ChromaFormat() avparse.ChromaFormat {
	return avparse.ChromaFormat(sps.ChromaFormatIdc)
}

// chromaArrayType is 0 when the colour planes are coded separately, the
// chroma format code otherwise.
func (sps *SPS) chromaArrayType() uint8 {
	if sps.SeparateColourPlaneFlag {
		return 0
	}
	return sps.ChromaFormatIdc
}

// cropUnits returns the sample counts one cropping offset unit stands for.
func (sps *SPS) cropUnits() (x, y uint32) {
	x, y = 1, 1
	switch avparse.ChromaFormat(sps.chromaArrayType()) {
	case avparse.Chroma420:
		x, y = 2, 2
	case avparse.Chroma422:
		x, y = 2, 1
	}
	if !sps.FrameMbsOnlyFlag {
		y *= 2
	}
	return x, y
}

// Width returns the frame width in luma samples after cropping.
func (sps *SPS) Width() uint {
	ux, _ := sps.cropUnits()
	w := (sps.PicWidthInMbsMinus1 + 1) * mbSize
	crop := (sps.FrameCropLeftOffset + sps.FrameCropRightOffset) * ux
	if crop >= w {
		return 0
	}
	return uint(w - crop)
}

// Height returns the frame height in luma samples after cropping.
func (sps *SPS) Height() uint {
	_, uy := sps.cropUnits()
	frameHeightInMbs := sps.PicHeightInMapUnitsMinus1 + 1
	if !sps.FrameMbsOnlyFlag {
		frameHeightInMbs *= 2
	}
	h := frameHeightInMbs * mbSize
	crop := (sps.FrameCropTopOffset + sps.FrameCropBottomOffset) * uy
	if crop >= h {
		return 0
	}
	return uint(h - crop)
}

// FrameRate returns the frame rate derived from VUI timing information, or 0
// when timing is absent. An AVC tick covers a field, hence the division by
// two.
func (sps *SPS) FrameRate() float64 {
	if sps.Vui == nil || !sps.Vui.TimingInfoPresentFlag || sps.Vui.NumUnitsInTick == 0 {
		return 0
	}
	return float64(sps.Vui.TimeScale) / (2 * float64(sps.Vui.NumUnitsInTick))
}

func readUint8(r *bits.Reader, n int) (uint8, error) {
	v, err := r.ReadBits(n)
	return uint8(v), err
}
