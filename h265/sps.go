package h265

import (
	"github.com/ugparu/avparse"
	"github.com/ugparu/avparse/utils/bits"
)

const maxLongTermRefPics = 32

// SubLayerOrderingInfo is one sps_max_* triplet of the sub-layer ordering
// block.
type SubLayerOrderingInfo struct {
	MaxDecPicBufferingMinus1 uint32
	MaxNumReorderPics        uint32
	MaxLatencyIncreasePlus1  uint32
}

// LongTermRefPic is one entry of the optional long-term reference picture
// block.
type LongTermRefPic struct {
	PocLsbSps         uint32
	UsedByCurrPicFlag bool
}

// SPS is a decoded HEVC sequence parameter set. All fields are populated in
// one pass by Decode; when Valid is false their content is unspecified.
type SPS struct {
	Valid             bool
	TrailingBitsValid bool
	LeftoverBits      int

	SpsVideoParameterSetID   uint8
	SpsMaxSubLayersMinus1    uint8
	SpsTemporalIDNestingFlag bool
	ProfileTierLevel         ProfileTierLevel
	SpsSeqParameterSetID     uint32

	ChromaFormatIdc         uint8
	SeparateColourPlaneFlag bool
	PicWidthInLumaSamples   uint32
	PicHeightInLumaSamples  uint32

	ConformanceWindowFlag bool
	ConfWinLeftOffset     uint32
	ConfWinRightOffset    uint32
	ConfWinTopOffset      uint32
	ConfWinBottomOffset   uint32

	BitDepthLumaMinus8          uint32
	BitDepthChromaMinus8        uint32
	Log2MaxPicOrderCntLsbMinus4 uint32

	SpsSubLayerOrderingInfoPresentFlag bool
	SubLayerOrderingInfo               []SubLayerOrderingInfo

	Log2MinLumaCodingBlockSizeMinus3     uint32
	Log2DiffMaxMinLumaCodingBlockSize    uint32
	Log2MinLumaTransformBlockSizeMinus2  uint32
	Log2DiffMaxMinLumaTransformBlockSize uint32
	MaxTransformHierarchyDepthInter      uint32
	MaxTransformHierarchyDepthIntra      uint32

	ScalingListEnabledFlag        bool
	SpsScalingListDataPresentFlag bool
	ScalingListData               *ScalingListData

	AmpEnabledFlag                  bool
	SampleAdaptiveOffsetEnabledFlag bool

	PcmEnabledFlag                       bool
	PcmSampleBitDepthLumaMinus1          uint8
	PcmSampleBitDepthChromaMinus1        uint8
	Log2MinPcmLumaCodingBlockSizeMinus3  uint32
	Log2DiffMaxMinPcmLumaCodingBlockSize uint32
	PcmLoopFilterDisabledFlag            bool

	NumShortTermRefPicSets uint32
	ShortTermRefPicSets    ShortTermRPSList

	LongTermRefPicsPresentFlag bool
	LongTermRefPics            []LongTermRefPic

	SpsTemporalMvpEnabledFlag       bool
	StrongIntraSmoothingEnabledFlag bool

	VuiParametersPresentFlag bool
	Vui                      *VUI

	SpsExtensionPresentFlag    bool
	SpsRangeExtensionFlag      bool
	SpsMultilayerExtensionFlag bool
	Sps3dExtensionFlag         bool
	SpsSccExtensionFlag        bool
	SpsExtension4Bits          uint8
}

// DecodeBytes decodes one complete SPS NAL unit, header bytes included, and
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

// Decode reads the seq_parameter_set_rbsp syntax from r, extension payloads
// excluded. The record is fully reset first.
func (sps *SPS) Decode(r *bits.Reader) (err error) {
	*sps = SPS{}

	if sps.SpsVideoParameterSetID, err = readUint8(r, 4); err != nil {
		return err
	}
	if sps.SpsMaxSubLayersMinus1, err = readUint8(r, 3); err != nil {
		return err
	}
	if sps.SpsTemporalIDNestingFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if err = sps.ProfileTierLevel.Decode(r, sps.SpsMaxSubLayersMinus1); err != nil {
		return err
	}
	if sps.SpsSeqParameterSetID, err = r.ReadUE(); err != nil {
		return err
	}

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

	if sps.PicWidthInLumaSamples, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.PicHeightInLumaSamples, err = r.ReadUE(); err != nil {
		return err
	}

	if sps.ConformanceWindowFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ConformanceWindowFlag {
		if sps.ConfWinLeftOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.ConfWinRightOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.ConfWinTopOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.ConfWinBottomOffset, err = r.ReadUE(); err != nil {
			return err
		}
	}

	if sps.BitDepthLumaMinus8, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.BitDepthChromaMinus8, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.Log2MaxPicOrderCntLsbMinus4, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.Log2MaxPicOrderCntLsbMinus4 > 12 {
		return errRange
	}

	if sps.SpsSubLayerOrderingInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	start := int(sps.SpsMaxSubLayersMinus1)
	if sps.SpsSubLayerOrderingInfoPresentFlag {
		start = 0
	}
	sps.SubLayerOrderingInfo = make([]SubLayerOrderingInfo, 0, int(sps.SpsMaxSubLayersMinus1)+1-start)
	for i := start; i <= int(sps.SpsMaxSubLayersMinus1); i++ {
		var info SubLayerOrderingInfo
		if info.MaxDecPicBufferingMinus1, err = r.ReadUE(); err != nil {
			return err
		}
		if info.MaxNumReorderPics, err = r.ReadUE(); err != nil {
			return err
		}
		if info.MaxLatencyIncreasePlus1, err = r.ReadUE(); err != nil {
			return err
		}
		sps.SubLayerOrderingInfo = append(sps.SubLayerOrderingInfo, info)
	}

	if sps.Log2MinLumaCodingBlockSizeMinus3, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.Log2DiffMaxMinLumaCodingBlockSize, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.Log2MinLumaTransformBlockSizeMinus2, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.Log2DiffMaxMinLumaTransformBlockSize, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.MaxTransformHierarchyDepthInter, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.MaxTransformHierarchyDepthIntra, err = r.ReadUE(); err != nil {
		return err
	}

	if sps.ScalingListEnabledFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.ScalingListEnabledFlag {
		if sps.SpsScalingListDataPresentFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if sps.SpsScalingListDataPresentFlag {
			sps.ScalingListData = &ScalingListData{}
			if err = sps.ScalingListData.Decode(r); err != nil {
				return err
			}
		}
	}

	if sps.AmpEnabledFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.SampleAdaptiveOffsetEnabledFlag, err = r.ReadFlag(); err != nil {
		return err
	}

	if sps.PcmEnabledFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.PcmEnabledFlag {
		if sps.PcmSampleBitDepthLumaMinus1, err = readUint8(r, 4); err != nil {
			return err
		}
		if sps.PcmSampleBitDepthChromaMinus1, err = readUint8(r, 4); err != nil {
			return err
		}
		if sps.Log2MinPcmLumaCodingBlockSizeMinus3, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.Log2DiffMaxMinPcmLumaCodingBlockSize, err = r.ReadUE(); err != nil {
			return err
		}
		if sps.PcmLoopFilterDisabledFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}

	if sps.NumShortTermRefPicSets, err = r.ReadUE(); err != nil {
		return err
	}
	if sps.NumShortTermRefPicSets > maxShortTermRpsSets {
		return errRange
	}
	if err = sps.ShortTermRefPicSets.Decode(r, sps.NumShortTermRefPicSets); err != nil {
		return err
	}

	if sps.LongTermRefPicsPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.LongTermRefPicsPresentFlag {
		count, err := r.ReadUE()
		if err != nil {
			return err
		}
		if count > maxLongTermRefPics {
			return errRange
		}
		sps.LongTermRefPics = make([]LongTermRefPic, count)
		for i := range sps.LongTermRefPics {
			lsbLen := int(sps.Log2MaxPicOrderCntLsbMinus4) + 4
			if sps.LongTermRefPics[i].PocLsbSps, err = r.ReadBits(lsbLen); err != nil {
				return err
			}
			if sps.LongTermRefPics[i].UsedByCurrPicFlag, err = r.ReadFlag(); err != nil {
				return err
			}
		}
	}

	if sps.SpsTemporalMvpEnabledFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.StrongIntraSmoothingEnabledFlag, err = r.ReadFlag(); err != nil {
		return err
	}

	if sps.VuiParametersPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.VuiParametersPresentFlag {
		sps.Vui = &VUI{}
		if err = sps.Vui.Decode(r, sps.SpsMaxSubLayersMinus1); err != nil {
			return err
		}
	}

	if sps.SpsExtensionPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sps.SpsExtensionPresentFlag {
		if sps.SpsRangeExtensionFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if sps.SpsMultilayerExtensionFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if sps.Sps3dExtensionFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if sps.SpsSccExtensionFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if sps.SpsExtension4Bits, err = readUint8(r, 4); err != nil {
			return err
		}
		// Extension payloads themselves are not modeled; the trailing-bits
		// check reports them as leftover data.
	}

	sps.Valid = true
	return nil
}

// ChromaFormat returns the coded chroma format.
func (sps *SPS) ChromaFormat() avparse.ChromaFormat {
	return avparse.ChromaFormat(sps.ChromaFormatIdc)
}

// cropUnits returns the luma sample counts one conformance window offset
// unit stands for.
func (sps *SPS) cropUnits() (x, y uint32) {
	x, y = 1, 1
	if sps.SeparateColourPlaneFlag {
		return x, y
	}
	switch avparse.ChromaFormat(sps.ChromaFormatIdc) {
	case avparse.Chroma420:
		x, y = 2, 2
	case avparse.Chroma422:
		x, y = 2, 1
	}
	return x, y
}

// Width returns the frame width in luma samples after conformance window
// cropping.
func (sps *SPS) Width() uint {
	ux, _ := sps.cropUnits()
	crop := (sps.ConfWinLeftOffset + sps.ConfWinRightOffset) * ux
	if crop >= sps.PicWidthInLumaSamples {
		return 0
	}
	return uint(sps.PicWidthInLumaSamples - crop)
}

// Height returns the frame height in luma samples after conformance window
// cropping.
func (sps *SPS) Height() uint {
	_, uy := sps.cropUnits()
	crop := (sps.ConfWinTopOffset + sps.ConfWinBottomOffset) * uy
	if crop >= sps.PicHeightInLumaSamples {
		return 0
	}
	return uint(sps.PicHeightInLumaSamples - crop)
}

// CodedWidth returns the decoded picture width before conformance window
// cropping.
func (sps *SPS) CodedWidth() uint {
	return uint(sps.PicWidthInLumaSamples)
}

// CodedHeight returns the decoded picture height before conformance window
// cropping.
func (sps *SPS) CodedHeight() uint {
	return uint(sps.PicHeightInLumaSamples)
}

// FrameRate returns the frame rate derived from VUI timing information, or
// 0 when timing is absent. An HEVC tick covers a whole picture.
func (sps *SPS) FrameRate() float64 {
	if sps.Vui == nil || !sps.Vui.VuiTimingInfoPresentFlag || sps.Vui.VuiNumUnitsInTick == 0 {
		return 0
	}
	return float64(sps.Vui.VuiTimeScale) / float64(sps.Vui.VuiNumUnitsInTick)
}

// Profile returns the effective general profile after compatibility flag
// override.
func (sps *SPS) Profile() uint8 {
	return sps.ProfileTierLevel.Profile()
}

// Level returns the general level indicator (30 x the level number).
func (sps *SPS) Level() uint8 {
	return sps.ProfileTierLevel.GeneralLevelIdc
}
