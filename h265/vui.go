package h265

import "github.com/ugparu/avparse/utils/bits"

const extendedSarIdc = 255

// VUI is the vui_parameters syntax of an HEVC SPS (E.2.1). Colour fields
// with an inference rule carry their inferred value when absent.
type VUI struct {
	AspectRatioInfoPresentFlag bool
	AspectRatioIdc             uint8
	SarWidth                   uint16
	SarHeight                  uint16

	OverscanInfoPresentFlag bool
	OverscanAppropriateFlag bool

	VideoSignalTypePresentFlag   bool
	VideoFormat                  uint8
	VideoFullRangeFlag           bool
	ColourDescriptionPresentFlag bool
	ColourPrimaries              uint8
	TransferCharacteristics      uint8
	MatrixCoeffs                 uint8

	ChromaLocInfoPresentFlag       bool
	ChromaSampleLocTypeTopField    uint32
	ChromaSampleLocTypeBottomField uint32

	NeutralChromaIndicationFlag bool
	FieldSeqFlag                bool
	FrameFieldInfoPresentFlag   bool

	DefaultDisplayWindowFlag bool
	DefDispWinLeftOffset     uint32
	DefDispWinRightOffset    uint32
	DefDispWinTopOffset      uint32
	DefDispWinBottomOffset   uint32

	VuiTimingInfoPresentFlag       bool
	VuiNumUnitsInTick              uint32
	VuiTimeScale                   uint32
	VuiPocProportionalToTimingFlag bool
	VuiNumTicksPocDiffOneMinus1    uint32
	VuiHrdParametersPresentFlag    bool
	Hrd                            *HRD

	BitstreamRestrictionFlag         bool
	TilesFixedStructureFlag          bool
	MotionVectorsOverPicBoundaryFlag bool
	RestrictedRefPicListsFlag        bool
	MinSpatialSegmentationIdc        uint32
	MaxBytesPerPicDenom              uint32
	MaxBitsPerMinCuDenom             uint32
	Log2MaxMvLengthHorizontal        uint32
	Log2MaxMvLengthVertical          uint32
}

// Decode reads the vui_parameters syntax from r. The sub-layer count is a
// side parameter needed by the optional nested HRD block.
func (vui *VUI) Decode(r *bits.Reader, maxNumSubLayersMinus1 uint8) (err error) {
	*vui = VUI{
		VideoFormat:             5,
		ColourPrimaries:         2,
		TransferCharacteristics: 2,
		MatrixCoeffs:            2,
	}

	if vui.AspectRatioInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.AspectRatioInfoPresentFlag {
		if vui.AspectRatioIdc, err = readUint8(r, 8); err != nil {
			return err
		}
		if vui.AspectRatioIdc == extendedSarIdc {
			var v uint32
			if v, err = r.ReadBits(16); err != nil {
				return err
			}
			vui.SarWidth = uint16(v)
			if v, err = r.ReadBits(16); err != nil {
				return err
			}
			vui.SarHeight = uint16(v)
		}
	}

	if vui.OverscanInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.OverscanInfoPresentFlag {
		if vui.OverscanAppropriateFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}

	if vui.VideoSignalTypePresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.VideoSignalTypePresentFlag {
		if vui.VideoFormat, err = readUint8(r, 3); err != nil {
			return err
		}
		if vui.VideoFullRangeFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.ColourDescriptionPresentFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.ColourDescriptionPresentFlag {
			if vui.ColourPrimaries, err = readUint8(r, 8); err != nil {
				return err
			}
			if vui.TransferCharacteristics, err = readUint8(r, 8); err != nil {
				return err
			}
			if vui.MatrixCoeffs, err = readUint8(r, 8); err != nil {
				return err
			}
		}
	}

	if vui.ChromaLocInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.ChromaLocInfoPresentFlag {
		if vui.ChromaSampleLocTypeTopField, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.ChromaSampleLocTypeBottomField, err = r.ReadUE(); err != nil {
			return err
		}
	}

	if vui.NeutralChromaIndicationFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.FieldSeqFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.FrameFieldInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}

	if vui.DefaultDisplayWindowFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.DefaultDisplayWindowFlag {
		if vui.DefDispWinLeftOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.DefDispWinRightOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.DefDispWinTopOffset, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.DefDispWinBottomOffset, err = r.ReadUE(); err != nil {
			return err
		}
	}

	if vui.VuiTimingInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.VuiTimingInfoPresentFlag {
		if vui.VuiNumUnitsInTick, err = r.ReadBits(32); err != nil {
			return err
		}
		if vui.VuiTimeScale, err = r.ReadBits(32); err != nil {
			return err
		}
		if vui.VuiPocProportionalToTimingFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.VuiPocProportionalToTimingFlag {
			if vui.VuiNumTicksPocDiffOneMinus1, err = r.ReadUE(); err != nil {
				return err
			}
		}
		if vui.VuiHrdParametersPresentFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.VuiHrdParametersPresentFlag {
			vui.Hrd = &HRD{}
			if err = vui.Hrd.Decode(r, true, maxNumSubLayersMinus1); err != nil {
				return err
			}
		}
	}

	if vui.BitstreamRestrictionFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.BitstreamRestrictionFlag {
		if vui.TilesFixedStructureFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.MotionVectorsOverPicBoundaryFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.RestrictedRefPicListsFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.MinSpatialSegmentationIdc, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.MaxBytesPerPicDenom, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.MaxBitsPerMinCuDenom, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.Log2MaxMvLengthHorizontal, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.Log2MaxMvLengthVertical, err = r.ReadUE(); err != nil {
			return err
		}
	}
	return nil
}
