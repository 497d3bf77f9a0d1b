package h265

import "github.com/ugparu/avparse/utils/bits"

const maxHrdCpbCnt = 32

// SubPicHRD is the sub-picture timing block of hrd_parameters.
type SubPicHRD struct {
	TickDivisorMinus2                      uint8
	DuCpbRemovalDelayIncrementLengthMinus1 uint8
	SubPicCpbParamsInPicTimingSeiFlag      bool
	DpbOutputDelayDuLengthMinus1           uint8
	CpbSizeDuScale                         uint8
}

// CPB is one coded picture buffer sub-record of sub_layer_hrd_parameters.
// The DU fields are populated only when the sub-picture block is present.
type CPB struct {
	BitRateValueMinus1   uint32
	CpbSizeValueMinus1   uint32
	CpbSizeDuValueMinus1 uint32
	BitRateDuValueMinus1 uint32
	CbrFlag              bool
}

// HRDSubLayer is the per-sub-layer portion of hrd_parameters.
type HRDSubLayer struct {
	FixedPicRateGeneralFlag bool
	// Inferred true without being read when the general flag is set.
	FixedPicRateWithinCvsFlag   bool
	ElementalDurationInTcMinus1 uint32
	LowDelayHrdFlag             bool
	CpbCntMinus1                uint32

	NalCpb []CPB
	VclCpb []CPB
}

// HRD is the hrd_parameters syntax of an HEVC VUI. Whether the common
// information block is present is a side parameter from the caller, as is
// the sub-layer count.
type HRD struct {
	NalHrdParametersPresentFlag bool
	VclHrdParametersPresentFlag bool
	SubPic                      *SubPicHRD

	BitRateScale uint8
	CpbSizeScale uint8

	InitialCpbRemovalDelayLengthMinus1 uint8
	AuCpbRemovalDelayLengthMinus1      uint8
	DpbOutputDelayLengthMinus1         uint8

	SubLayers []HRDSubLayer
}

func (hrd *HRD) Decode(r *bits.Reader, commonInfPresent bool, maxNumSubLayersMinus1 uint8) (err error) {
	*hrd = HRD{}
	if maxNumSubLayersMinus1 >= maxSubLayers {
		return errRange
	}

	if commonInfPresent {
		if err = hrd.decodeCommonInf(r); err != nil {
			return err
		}
	}

	hrd.SubLayers = make([]HRDSubLayer, int(maxNumSubLayersMinus1)+1)
	for i := range hrd.SubLayers {
		if err = hrd.decodeSubLayer(r, &hrd.SubLayers[i]); err != nil {
			return err
		}
	}
	return nil
}

func (hrd *HRD) decodeCommonInf(r *bits.Reader) (err error) {
	if hrd.NalHrdParametersPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if hrd.VclHrdParametersPresentFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if !hrd.NalHrdParametersPresentFlag && !hrd.VclHrdParametersPresentFlag {
		return nil
	}

	subPicPresent, err := r.ReadFlag()
	if err != nil {
		return err
	}
	if subPicPresent {
		hrd.SubPic = &SubPicHRD{}
		if hrd.SubPic.TickDivisorMinus2, err = readUint8(r, 8); err != nil {
			return err
		}
		if hrd.SubPic.DuCpbRemovalDelayIncrementLengthMinus1, err = readUint8(r, 5); err != nil {
			return err
		}
		if hrd.SubPic.SubPicCpbParamsInPicTimingSeiFlag, err = r.ReadFlag(); err != nil {
			return err
		}
		if hrd.SubPic.DpbOutputDelayDuLengthMinus1, err = readUint8(r, 5); err != nil {
			return err
		}
	}

	if hrd.BitRateScale, err = readUint8(r, 4); err != nil {
		return err
	}
	if hrd.CpbSizeScale, err = readUint8(r, 4); err != nil {
		return err
	}
	if hrd.SubPic != nil {
		if hrd.SubPic.CpbSizeDuScale, err = readUint8(r, 4); err != nil {
			return err
		}
	}
	if hrd.InitialCpbRemovalDelayLengthMinus1, err = readUint8(r, 5); err != nil {
		return err
	}
	if hrd.AuCpbRemovalDelayLengthMinus1, err = readUint8(r, 5); err != nil {
		return err
	}
	if hrd.DpbOutputDelayLengthMinus1, err = readUint8(r, 5); err != nil {
		return err
	}
	return nil
}

func (hrd *HRD) decodeSubLayer(r *bits.Reader, sub *HRDSubLayer) (err error) {
	if sub.FixedPicRateGeneralFlag, err = r.ReadFlag(); err != nil {
		return err
	}
	if sub.FixedPicRateGeneralFlag {
		// Not coded at all in this case, the value is implied.
		sub.FixedPicRateWithinCvsFlag = true
	} else {
		if sub.FixedPicRateWithinCvsFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}

	if sub.FixedPicRateWithinCvsFlag {
		if sub.ElementalDurationInTcMinus1, err = r.ReadUE(); err != nil {
			return err
		}
	} else {
		if sub.LowDelayHrdFlag, err = r.ReadFlag(); err != nil {
			return err
		}
	}
	if !sub.LowDelayHrdFlag {
		if sub.CpbCntMinus1, err = r.ReadUE(); err != nil {
			return err
		}
		if sub.CpbCntMinus1 >= maxHrdCpbCnt {
			return errRange
		}
	}

	if hrd.NalHrdParametersPresentFlag {
		if sub.NalCpb, err = hrd.decodeCpbRecords(r, int(sub.CpbCntMinus1)+1); err != nil {
			return err
		}
	}
	if hrd.VclHrdParametersPresentFlag {
		if sub.VclCpb, err = hrd.decodeCpbRecords(r, int(sub.CpbCntMinus1)+1); err != nil {
			return err
		}
	}
	return nil
}

func (hrd *HRD) decodeCpbRecords(r *bits.Reader, count int) ([]CPB, error) {
	cpbs := make([]CPB, count)
	for i := range cpbs {
		var err error
		if cpbs[i].BitRateValueMinus1, err = r.ReadUE(); err != nil {
			return nil, err
		}
		if cpbs[i].CpbSizeValueMinus1, err = r.ReadUE(); err != nil {
			return nil, err
		}
		if hrd.SubPic != nil {
			if cpbs[i].CpbSizeDuValueMinus1, err = r.ReadUE(); err != nil {
				return nil, err
			}
			if cpbs[i].BitRateDuValueMinus1, err = r.ReadUE(); err != nil {
				return nil, err
			}
		}
		if cpbs[i].CbrFlag, err = r.ReadFlag(); err != nil {
			return nil, err
		}
	}
	return cpbs, nil
}
