package h264

import (
	"github.com/ugparu/avparse/utils/bits"
)

// HRD holds AVC hypothetical reference decoder parameters (E.1.2).
type HRD struct {
	CpbCntMinus1 uint32
	BitRateScale uint8
	CpbSizeScale uint8

	BitRateValueMinus1 []uint32
	CpbSizeValueMinus1 []uint32
	CbrFlag            []bool

	InitialCpbRemovalDelayLengthMinus1 uint8
	CpbRemovalDelayLengthMinus1        uint8
	DpbOutputDelayLengthMinus1         uint8
	TimeOffsetLength                   uint8
}

func (hrd *HRD) Decode(r *bits.Reader) (err error) {
	*hrd = HRD{}

	if hrd.CpbCntMinus1, err = r.ReadUE(); err != nil {
		return err
	}
	if hrd.CpbCntMinus1 >= maxCpbCnt {
		return errRange
	}
	if hrd.BitRateScale, err = readUint8(r, 4); err != nil {
		return err
	}
	if hrd.CpbSizeScale, err = readUint8(r, 4); err != nil {
		return err
	}

	n := int(hrd.CpbCntMinus1) + 1
	hrd.BitRateValueMinus1 = make([]uint32, n)
	hrd.CpbSizeValueMinus1 = make([]uint32, n)
	hrd.CbrFlag = make([]bool, n)
	for i := 0; i < n; i++ {
		if hrd.BitRateValueMinus1[i], err = r.ReadUE(); err != nil {
			return err
		}
		if hrd.CpbSizeValueMinus1[i], err = r.ReadUE(); err != nil {
			return err
		}
		if hrd.CbrFlag[i], err = r.ReadFlag(); err != nil {
			return err
		}
	}

	if hrd.InitialCpbRemovalDelayLengthMinus1, err = readUint8(r, 5); err != nil {
		return err
	}
	if hrd.CpbRemovalDelayLengthMinus1, err = readUint8(r, 5); err != nil {
		return err
	}
	if hrd.DpbOutputDelayLengthMinus1, err = readUint8(r, 5); err != nil {
		return err
	}
	if hrd.TimeOffsetLength, err = readUint8(r, 5); err != nil {
		return err
	}
	return nil
}

// VUI holds AVC video usability information (E.1.1). Absent fields with a
// specified inference rule are set to their inferred value during Decode, so
// readers never need to consult the presence flag for them.
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
	MatrixCoefficients           uint8

	ChromaLocInfoPresentFlag       bool
	ChromaSampleLocTypeTopField    uint32
	ChromaSampleLocTypeBottomField uint32

	TimingInfoPresentFlag bool
	NumUnitsInTick        uint32
	TimeScale             uint32
	FixedFrameRateFlag    bool

	NalHrdParametersPresentFlag bool
	NalHrd                      *HRD
	VclHrdParametersPresentFlag bool
	VclHrd                      *HRD
	LowDelayHrdFlag             bool

	PicStructPresentFlag bool

	BitstreamRestrictionFlag         bool
	MotionVectorsOverPicBoundaryFlag bool
	MaxBytesPerPicDenom              uint32
	MaxBitsPerMbDenom                uint32
	Log2MaxMvLengthHorizontal        uint32
	Log2MaxMvLengthVertical          uint32
	MaxNumReorderFrames              uint32
	MaxDecFrameBuffering             uint32
}

func (vui *VUI) Decode(r *bits.Reader) (err error) {
	*vui = VUI{
		VideoFormat:             5,
		ColourPrimaries:         2,
		TransferCharacteristics: 2,
		MatrixCoefficients:      2,
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
			if vui.MatrixCoefficients, err = readUint8(r, 8); err != nil {
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

	if vui.TimingInfoPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.TimingInfoPresentFlag {
		if vui.NumUnitsInTick, err = r.ReadBits(32); err != nil {
			return err
		}
		if vui.TimeScale, err = r.ReadBits(32); err != nil {
			return err
		}
		if vui.FixedFrameRateFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}

	if vui.NalHrdParametersPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.NalHrdParametersPresentFlag {
		vui.NalHrd = &HRD{}
		if err = vui.NalHrd.Decode(r); err != nil {
			return err
		}
	}
	if vui.VclHrdParametersPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.VclHrdParametersPresentFlag {
		vui.VclHrd = &HRD{}
		if err = vui.VclHrd.Decode(r); err != nil {
			return err
		}
	}
	if vui.NalHrdParametersPresentFlag || vui.VclHrdParametersPresentFlag {
		if vui.LowDelayHrdFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	} else {
		// Inferred, not read: 1 - fixed_frame_rate_flag.
		vui.LowDelayHrdFlag = !vui.FixedFrameRateFlag
	}

	if vui.PicStructPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}

	if vui.BitstreamRestrictionFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if vui.BitstreamRestrictionFlag {
		if vui.MotionVectorsOverPicBoundaryFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if vui.MaxBytesPerPicDenom, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.MaxBitsPerMbDenom, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.Log2MaxMvLengthHorizontal, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.Log2MaxMvLengthVertical, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.MaxNumReorderFrames, err = r.ReadUE(); err != nil {
			return err
		}
		if vui.MaxDecFrameBuffering, err = r.ReadUE(); err != nil {
			return err
		}
	}
	return nil
}
