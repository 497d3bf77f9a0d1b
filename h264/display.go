package h264

import (
	"fmt"
	"io"
)

func flag01(f bool) int {
	if f {
		return 1
	}
	return 0
}

// Display writes the decoded SPS as one syntax element per line, each
// prefixed with margin. The field order and presence mirror the decode:
// elements skipped by the bitstream are skipped here too.
func (sps *SPS) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("profile_idc", sps.ProfileIdc)
	p("constraint_set0_flag", flag01(sps.ConstraintSet0Flag))
	p("constraint_set1_flag", flag01(sps.ConstraintSet1Flag))
	p("constraint_set2_flag", flag01(sps.ConstraintSet2Flag))
	p("constraint_set3_flag", flag01(sps.ConstraintSet3Flag))
	p("constraint_set4_flag", flag01(sps.ConstraintSet4Flag))
	p("constraint_set5_flag", flag01(sps.ConstraintSet5Flag))
	p("reserved_zero_2bits", sps.ReservedZero2Bits)
	p("level_idc", sps.LevelIdc)
	p("seq_parameter_set_id", sps.SeqParameterSetID)

	if hasChromaInfo(sps.ProfileIdc) {
		p("chroma_format_idc", sps.ChromaFormatIdc)
		if sps.ChromaFormatIdc == 3 {
			p("separate_colour_plane_flag", flag01(sps.SeparateColourPlaneFlag))
		}
		p("bit_depth_luma_minus8", sps.BitDepthLumaMinus8)
		p("bit_depth_chroma_minus8", sps.BitDepthChromaMinus8)
		p("qpprime_y_zero_transform_bypass_flag", flag01(sps.QpprimeYZeroTransformBypassFlag))
		p("seq_scaling_matrix_present_flag", flag01(sps.SeqScalingMatrixPresentFlag))
		if sps.SeqScalingMatrixPresentFlag {
			count := 8
			if sps.ChromaFormatIdc == 3 {
				count = scalingListCountTotal
			}
			for i := 0; i < count; i++ {
				p(fmt.Sprintf("seq_scaling_list_present_flag[%d]", i), flag01(sps.SeqScalingListPresentFlag[i]))
				if !sps.SeqScalingListPresentFlag[i] {
					continue
				}
				p(fmt.Sprintf("use_default_scaling_matrix_flag[%d]", i), flag01(sps.UseDefaultScalingMatrixFlag[i]))
				if i < scalingListCount4x4 {
					p(fmt.Sprintf("scaling_list_4x4[%d]", i), sps.ScalingList4x4[i])
				} else {
					p(fmt.Sprintf("scaling_list_8x8[%d]", i-scalingListCount4x4), sps.ScalingList8x8[i-scalingListCount4x4])
				}
			}
		}
	}

	p("log2_max_frame_num_minus4", sps.Log2MaxFrameNumMinus4)
	p("pic_order_cnt_type", sps.PicOrderCntType)
	switch sps.PicOrderCntType {
	case 0:
		p("log2_max_pic_order_cnt_lsb_minus4", sps.Log2MaxPicOrderCntLsbMinus4)
	case 1:
		p("delta_pic_order_always_zero_flag", flag01(sps.DeltaPicOrderAlwaysZeroFlag))
		p("offset_for_non_ref_pic", sps.OffsetForNonRefPic)
		p("offset_for_top_to_bottom_field", sps.OffsetForTopToBottomField)
		p("num_ref_frames_in_pic_order_cnt_cycle", sps.NumRefFramesInPicOrderCntCycle)
		for i, off := range sps.OffsetForRefFrame {
			p(fmt.Sprintf("offset_for_ref_frame[%d]", i), off)
		}
	}

	p("max_num_ref_frames", sps.MaxNumRefFrames)
	p("gaps_in_frame_num_value_allowed_flag", flag01(sps.GapsInFrameNumValueAllowedFlag))
	p("pic_width_in_mbs_minus1", sps.PicWidthInMbsMinus1)
	p("pic_height_in_map_units_minus1", sps.PicHeightInMapUnitsMinus1)
	p("frame_mbs_only_flag", flag01(sps.FrameMbsOnlyFlag))
	if !sps.FrameMbsOnlyFlag {
		p("mb_adaptive_frame_field_flag", flag01(sps.MbAdaptiveFrameFieldFlag))
	}
	p("direct_8x8_inference_flag", flag01(sps.Direct8x8InferenceFlag))

	p("frame_cropping_flag", flag01(sps.FrameCroppingFlag))
	if sps.FrameCroppingFlag {
		p("frame_crop_left_offset", sps.FrameCropLeftOffset)
		p("frame_crop_right_offset", sps.FrameCropRightOffset)
		p("frame_crop_top_offset", sps.FrameCropTopOffset)
		p("frame_crop_bottom_offset", sps.FrameCropBottomOffset)
	}

	p("vui_parameters_present_flag", flag01(sps.VuiParametersPresentFlag))
	if sps.Vui != nil {
		sps.Vui.Display(w, margin+"vui.")
	}
}

// Display writes the VUI syntax elements, each prefixed with margin.
func (vui *VUI) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("aspect_ratio_info_present_flag", flag01(vui.AspectRatioInfoPresentFlag))
	if vui.AspectRatioInfoPresentFlag {
		p("aspect_ratio_idc", vui.AspectRatioIdc)
		if vui.AspectRatioIdc == extendedSarIdc {
			p("sar_width", vui.SarWidth)
			p("sar_height", vui.SarHeight)
		}
	}

	p("overscan_info_present_flag", flag01(vui.OverscanInfoPresentFlag))
	if vui.OverscanInfoPresentFlag {
		p("overscan_appropriate_flag", flag01(vui.OverscanAppropriateFlag))
	}

	p("video_signal_type_present_flag", flag01(vui.VideoSignalTypePresentFlag))
	if vui.VideoSignalTypePresentFlag {
		p("video_format", vui.VideoFormat)
		p("video_full_range_flag", flag01(vui.VideoFullRangeFlag))
		p("colour_description_present_flag", flag01(vui.ColourDescriptionPresentFlag))
		if vui.ColourDescriptionPresentFlag {
			p("colour_primaries", vui.ColourPrimaries)
			p("transfer_characteristics", vui.TransferCharacteristics)
			p("matrix_coefficients", vui.MatrixCoefficients)
		}
	}

	p("chroma_loc_info_present_flag", flag01(vui.ChromaLocInfoPresentFlag))
	if vui.ChromaLocInfoPresentFlag {
		p("chroma_sample_loc_type_top_field", vui.ChromaSampleLocTypeTopField)
		p("chroma_sample_loc_type_bottom_field", vui.ChromaSampleLocTypeBottomField)
	}

	p("timing_info_present_flag", flag01(vui.TimingInfoPresentFlag))
	if vui.TimingInfoPresentFlag {
		p("num_units_in_tick", vui.NumUnitsInTick)
		p("time_scale", vui.TimeScale)
		p("fixed_frame_rate_flag", flag01(vui.FixedFrameRateFlag))
	}

	p("nal_hrd_parameters_present_flag", flag01(vui.NalHrdParametersPresentFlag))
	if vui.NalHrd != nil {
		vui.NalHrd.Display(w, margin+"nal_hrd.")
	}
	p("vcl_hrd_parameters_present_flag", flag01(vui.VclHrdParametersPresentFlag))
	if vui.VclHrd != nil {
		vui.VclHrd.Display(w, margin+"vcl_hrd.")
	}
	p("low_delay_hrd_flag", flag01(vui.LowDelayHrdFlag))
	p("pic_struct_present_flag", flag01(vui.PicStructPresentFlag))

	p("bitstream_restriction_flag", flag01(vui.BitstreamRestrictionFlag))
	if vui.BitstreamRestrictionFlag {
		p("motion_vectors_over_pic_boundaries_flag", flag01(vui.MotionVectorsOverPicBoundaryFlag))
		p("max_bytes_per_pic_denom", vui.MaxBytesPerPicDenom)
		p("max_bits_per_mb_denom", vui.MaxBitsPerMbDenom)
		p("log2_max_mv_length_horizontal", vui.Log2MaxMvLengthHorizontal)
		p("log2_max_mv_length_vertical", vui.Log2MaxMvLengthVertical)
		p("max_num_reorder_frames", vui.MaxNumReorderFrames)
		p("max_dec_frame_buffering", vui.MaxDecFrameBuffering)
	}
}

// Display writes the HRD syntax elements, each prefixed with margin.
func (hrd *HRD) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("cpb_cnt_minus1", hrd.CpbCntMinus1)
	p("bit_rate_scale", hrd.BitRateScale)
	p("cpb_size_scale", hrd.CpbSizeScale)
	for i := range hrd.BitRateValueMinus1 {
		p(fmt.Sprintf("bit_rate_value_minus1[%d]", i), hrd.BitRateValueMinus1[i])
		p(fmt.Sprintf("cpb_size_value_minus1[%d]", i), hrd.CpbSizeValueMinus1[i])
		p(fmt.Sprintf("cbr_flag[%d]", i), flag01(hrd.CbrFlag[i]))
	}
	p("initial_cpb_removal_delay_length_minus1", hrd.InitialCpbRemovalDelayLengthMinus1)
	p("cpb_removal_delay_length_minus1", hrd.CpbRemovalDelayLengthMinus1)
	p("dpb_output_delay_length_minus1", hrd.DpbOutputDelayLengthMinus1)
	p("time_offset_length", hrd.TimeOffsetLength)
}
