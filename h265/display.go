package h265

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
// prefixed with margin. Elements skipped by the bitstream are skipped here
// too.
func (sps *SPS) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("sps_video_parameter_set_id", sps.SpsVideoParameterSetID)
	p("sps_max_sub_layers_minus1", sps.SpsMaxSubLayersMinus1)
	p("sps_temporal_id_nesting_flag", flag01(sps.SpsTemporalIDNestingFlag))
	sps.ProfileTierLevel.Display(w, margin+"ptl.")
	p("sps_seq_parameter_set_id", sps.SpsSeqParameterSetID)

	p("chroma_format_idc", sps.ChromaFormatIdc)
	if sps.ChromaFormatIdc == 3 {
		p("separate_colour_plane_flag", flag01(sps.SeparateColourPlaneFlag))
	}
	p("pic_width_in_luma_samples", sps.PicWidthInLumaSamples)
	p("pic_height_in_luma_samples", sps.PicHeightInLumaSamples)

	p("conformance_window_flag", flag01(sps.ConformanceWindowFlag))
	if sps.ConformanceWindowFlag {
		p("conf_win_left_offset", sps.ConfWinLeftOffset)
		p("conf_win_right_offset", sps.ConfWinRightOffset)
		p("conf_win_top_offset", sps.ConfWinTopOffset)
		p("conf_win_bottom_offset", sps.ConfWinBottomOffset)
	}

	p("bit_depth_luma_minus8", sps.BitDepthLumaMinus8)
	p("bit_depth_chroma_minus8", sps.BitDepthChromaMinus8)
	p("log2_max_pic_order_cnt_lsb_minus4", sps.Log2MaxPicOrderCntLsbMinus4)

	p("sps_sub_layer_ordering_info_present_flag", flag01(sps.SpsSubLayerOrderingInfoPresentFlag))
	for i, info := range sps.SubLayerOrderingInfo {
		idx := i
		if !sps.SpsSubLayerOrderingInfoPresentFlag {
			// Only the top layer is coded then, at its own index.
			idx = int(sps.SpsMaxSubLayersMinus1)
		}
		p(fmt.Sprintf("sps_max_dec_pic_buffering_minus1[%d]", idx), info.MaxDecPicBufferingMinus1)
		p(fmt.Sprintf("sps_max_num_reorder_pics[%d]", idx), info.MaxNumReorderPics)
		p(fmt.Sprintf("sps_max_latency_increase_plus1[%d]", idx), info.MaxLatencyIncreasePlus1)
	}

	p("log2_min_luma_coding_block_size_minus3", sps.Log2MinLumaCodingBlockSizeMinus3)
	p("log2_diff_max_min_luma_coding_block_size", sps.Log2DiffMaxMinLumaCodingBlockSize)
	p("log2_min_luma_transform_block_size_minus2", sps.Log2MinLumaTransformBlockSizeMinus2)
	p("log2_diff_max_min_luma_transform_block_size", sps.Log2DiffMaxMinLumaTransformBlockSize)
	p("max_transform_hierarchy_depth_inter", sps.MaxTransformHierarchyDepthInter)
	p("max_transform_hierarchy_depth_intra", sps.MaxTransformHierarchyDepthIntra)

	p("scaling_list_enabled_flag", flag01(sps.ScalingListEnabledFlag))
	if sps.ScalingListEnabledFlag {
		p("sps_scaling_list_data_present_flag", flag01(sps.SpsScalingListDataPresentFlag))
		if sps.ScalingListData != nil {
			sps.ScalingListData.Display(w, margin+"scaling_list.")
		}
	}

	p("amp_enabled_flag", flag01(sps.AmpEnabledFlag))
	p("sample_adaptive_offset_enabled_flag", flag01(sps.SampleAdaptiveOffsetEnabledFlag))

	p("pcm_enabled_flag", flag01(sps.PcmEnabledFlag))
	if sps.PcmEnabledFlag {
		p("pcm_sample_bit_depth_luma_minus1", sps.PcmSampleBitDepthLumaMinus1)
		p("pcm_sample_bit_depth_chroma_minus1", sps.PcmSampleBitDepthChromaMinus1)
		p("log2_min_pcm_luma_coding_block_size_minus3", sps.Log2MinPcmLumaCodingBlockSizeMinus3)
		p("log2_diff_max_min_pcm_luma_coding_block_size", sps.Log2DiffMaxMinPcmLumaCodingBlockSize)
		p("pcm_loop_filter_disabled_flag", flag01(sps.PcmLoopFilterDisabledFlag))
	}

	p("num_short_term_ref_pic_sets", sps.NumShortTermRefPicSets)
	for i := range sps.ShortTermRefPicSets.Sets {
		sps.ShortTermRefPicSets.Sets[i].Display(w, fmt.Sprintf("%sst_rps[%d].", margin, i))
	}

	p("long_term_ref_pics_present_flag", flag01(sps.LongTermRefPicsPresentFlag))
	if sps.LongTermRefPicsPresentFlag {
		p("num_long_term_ref_pics_sps", len(sps.LongTermRefPics))
		for i, lt := range sps.LongTermRefPics {
			p(fmt.Sprintf("lt_ref_pic_poc_lsb_sps[%d]", i), lt.PocLsbSps)
			p(fmt.Sprintf("used_by_curr_pic_lt_sps_flag[%d]", i), flag01(lt.UsedByCurrPicFlag))
		}
	}

	p("sps_temporal_mvp_enabled_flag", flag01(sps.SpsTemporalMvpEnabledFlag))
	p("strong_intra_smoothing_enabled_flag", flag01(sps.StrongIntraSmoothingEnabledFlag))

	p("vui_parameters_present_flag", flag01(sps.VuiParametersPresentFlag))
	if sps.Vui != nil {
		sps.Vui.Display(w, margin+"vui.")
	}

	p("sps_extension_present_flag", flag01(sps.SpsExtensionPresentFlag))
	if sps.SpsExtensionPresentFlag {
		p("sps_range_extension_flag", flag01(sps.SpsRangeExtensionFlag))
		p("sps_multilayer_extension_flag", flag01(sps.SpsMultilayerExtensionFlag))
		p("sps_3d_extension_flag", flag01(sps.Sps3dExtensionFlag))
		p("sps_scc_extension_flag", flag01(sps.SpsSccExtensionFlag))
		p("sps_extension_4bits", sps.SpsExtension4Bits)
	}
}

// Display writes the profile_tier_level fields, each prefixed with margin.
func (ptl *ProfileTierLevel) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("general_profile_space", ptl.GeneralProfileSpace)
	p("general_tier_flag", flag01(ptl.GeneralTierFlag))
	p("general_profile_idc", ptl.GeneralProfileIdc)
	p("general_profile_compatibility_flags", fmt.Sprintf("0x%08x", ptl.GeneralProfileCompatibilityFlags))
	p("general_progressive_source_flag", flag01(ptl.GeneralProgressiveSourceFlag))
	p("general_interlaced_source_flag", flag01(ptl.GeneralInterlacedSourceFlag))
	p("general_non_packed_constraint_flag", flag01(ptl.GeneralNonPackedConstraintFlag))
	p("general_frame_only_constraint_flag", flag01(ptl.GeneralFrameOnlyConstraintFlag))
	p("general_max_12bit_constraint_flag", flag01(ptl.GeneralMax12BitConstraintFlag))
	p("general_max_10bit_constraint_flag", flag01(ptl.GeneralMax10BitConstraintFlag))
	p("general_max_8bit_constraint_flag", flag01(ptl.GeneralMax8BitConstraintFlag))
	p("general_max_422chroma_constraint_flag", flag01(ptl.GeneralMax422ChromaConstraintFlag))
	p("general_max_420chroma_constraint_flag", flag01(ptl.GeneralMax420ChromaConstraintFlag))
	p("general_max_monochrome_constraint_flag", flag01(ptl.GeneralMaxMonochromeConstraintFlag))
	p("general_intra_constraint_flag", flag01(ptl.GeneralIntraConstraintFlag))
	p("general_one_picture_only_constraint_flag", flag01(ptl.GeneralOnePictureOnlyConstraintFlag))
	p("general_lower_bit_rate_constraint_flag", flag01(ptl.GeneralLowerBitRateConstraintFlag))
	p("general_max_14bit_constraint_flag", flag01(ptl.GeneralMax14BitConstraintFlag))
	p("general_reserved_zero_33bits", ptl.GeneralReservedZero33Bits)
	p("general_inbld_flag", flag01(ptl.GeneralInbldFlag))
	p("general_level_idc", ptl.GeneralLevelIdc)

	for i := range ptl.SubLayers {
		sub := &ptl.SubLayers[i]
		p(fmt.Sprintf("sub_layer_profile_present_flag[%d]", i), flag01(sub.ProfilePresentFlag))
		p(fmt.Sprintf("sub_layer_level_present_flag[%d]", i), flag01(sub.LevelPresentFlag))
		if sub.ProfilePresentFlag {
			p(fmt.Sprintf("sub_layer_profile_space[%d]", i), sub.ProfileSpace)
			p(fmt.Sprintf("sub_layer_tier_flag[%d]", i), flag01(sub.TierFlag))
			p(fmt.Sprintf("sub_layer_profile_idc[%d]", i), sub.ProfileIdc)
			p(fmt.Sprintf("sub_layer_profile_compatibility_flags[%d]", i), fmt.Sprintf("0x%08x", sub.ProfileCompatibilityFlags))
			p(fmt.Sprintf("sub_layer_progressive_source_flag[%d]", i), flag01(sub.ProgressiveSourceFlag))
			p(fmt.Sprintf("sub_layer_interlaced_source_flag[%d]", i), flag01(sub.InterlacedSourceFlag))
			p(fmt.Sprintf("sub_layer_non_packed_constraint_flag[%d]", i), flag01(sub.NonPackedConstraintFlag))
			p(fmt.Sprintf("sub_layer_frame_only_constraint_flag[%d]", i), flag01(sub.FrameOnlyConstraintFlag))
			p(fmt.Sprintf("sub_layer_constraint_flags[%d]", i), fmt.Sprintf("0x%03x", sub.ConstraintFlags))
			p(fmt.Sprintf("sub_layer_reserved_zero_33bits[%d]", i), sub.ReservedZero33Bits)
			p(fmt.Sprintf("sub_layer_inbld_flag[%d]", i), flag01(sub.InbldFlag))
		}
		if sub.LevelPresentFlag {
			p(fmt.Sprintf("sub_layer_level_idc[%d]", i), sub.LevelIdc)
		}
	}
}

// Display writes the visited scaling list entries, each prefixed with
// margin.
func (sl *ScalingListData) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	for _, entry := range scalingListEntries {
		sizeID, matrixID := entry[0], entry[1]
		suffix := fmt.Sprintf("[%d][%d]", sizeID, matrixID)
		p("scaling_list_pred_mode_flag"+suffix, flag01(sl.PredModeFlag[sizeID][matrixID]))
		if !sl.PredModeFlag[sizeID][matrixID] {
			p("scaling_list_pred_matrix_id_delta"+suffix, sl.PredMatrixIDDelta[sizeID][matrixID])
			continue
		}
		if sizeID > 1 {
			p("scaling_list_dc_coef_minus8"+suffix, sl.DcCoefMinus8[sizeID][matrixID])
		}
		for i, c := range sl.Coef[sizeID][matrixID] {
			p(fmt.Sprintf("scaling_list_delta_coef%s[%d]", suffix, i), c)
		}
	}
}

// Display writes the reconstructed short-term RPS fields, each prefixed
// with margin.
func (rps *ShortTermRPS) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("inter_ref_pic_set_prediction_flag", flag01(rps.InterRefPicSetPredictionFlag))
	if rps.InterRefPicSetPredictionFlag {
		p("delta_idx_minus1", rps.DeltaIdxMinus1)
		p("delta_rps_sign", flag01(rps.DeltaRpsSign))
		p("abs_delta_rps_minus1", rps.AbsDeltaRpsMinus1)
	}
	p("num_negative_pics", rps.NumNegativePics)
	p("num_positive_pics", rps.NumPositivePics)
	for i, d := range rps.DeltaPocS0 {
		p(fmt.Sprintf("delta_poc_s0[%d]", i), d)
		p(fmt.Sprintf("used_by_curr_pic_s0[%d]", i), flag01(rps.UsedByCurrPicS0[i]))
	}
	for i, d := range rps.DeltaPocS1 {
		p(fmt.Sprintf("delta_poc_s1[%d]", i), d)
		p(fmt.Sprintf("used_by_curr_pic_s1[%d]", i), flag01(rps.UsedByCurrPicS1[i]))
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
			p("matrix_coeffs", vui.MatrixCoeffs)
		}
	}

	p("chroma_loc_info_present_flag", flag01(vui.ChromaLocInfoPresentFlag))
	if vui.ChromaLocInfoPresentFlag {
		p("chroma_sample_loc_type_top_field", vui.ChromaSampleLocTypeTopField)
		p("chroma_sample_loc_type_bottom_field", vui.ChromaSampleLocTypeBottomField)
	}

	p("neutral_chroma_indication_flag", flag01(vui.NeutralChromaIndicationFlag))
	p("field_seq_flag", flag01(vui.FieldSeqFlag))
	p("frame_field_info_present_flag", flag01(vui.FrameFieldInfoPresentFlag))

	p("default_display_window_flag", flag01(vui.DefaultDisplayWindowFlag))
	if vui.DefaultDisplayWindowFlag {
		p("def_disp_win_left_offset", vui.DefDispWinLeftOffset)
		p("def_disp_win_right_offset", vui.DefDispWinRightOffset)
		p("def_disp_win_top_offset", vui.DefDispWinTopOffset)
		p("def_disp_win_bottom_offset", vui.DefDispWinBottomOffset)
	}

	p("vui_timing_info_present_flag", flag01(vui.VuiTimingInfoPresentFlag))
	if vui.VuiTimingInfoPresentFlag {
		p("vui_num_units_in_tick", vui.VuiNumUnitsInTick)
		p("vui_time_scale", vui.VuiTimeScale)
		p("vui_poc_proportional_to_timing_flag", flag01(vui.VuiPocProportionalToTimingFlag))
		if vui.VuiPocProportionalToTimingFlag {
			p("vui_num_ticks_poc_diff_one_minus1", vui.VuiNumTicksPocDiffOneMinus1)
		}
		p("vui_hrd_parameters_present_flag", flag01(vui.VuiHrdParametersPresentFlag))
		if vui.Hrd != nil {
			vui.Hrd.Display(w, margin+"hrd.")
		}
	}

	p("bitstream_restriction_flag", flag01(vui.BitstreamRestrictionFlag))
	if vui.BitstreamRestrictionFlag {
		p("tiles_fixed_structure_flag", flag01(vui.TilesFixedStructureFlag))
		p("motion_vectors_over_pic_boundaries_flag", flag01(vui.MotionVectorsOverPicBoundaryFlag))
		p("restricted_ref_pic_lists_flag", flag01(vui.RestrictedRefPicListsFlag))
		p("min_spatial_segmentation_idc", vui.MinSpatialSegmentationIdc)
		p("max_bytes_per_pic_denom", vui.MaxBytesPerPicDenom)
		p("max_bits_per_min_cu_denom", vui.MaxBitsPerMinCuDenom)
		p("log2_max_mv_length_horizontal", vui.Log2MaxMvLengthHorizontal)
		p("log2_max_mv_length_vertical", vui.Log2MaxMvLengthVertical)
	}
}

// Display writes the HRD syntax elements, each prefixed with margin.
func (hrd *HRD) Display(w io.Writer, margin string) {
	p := func(name string, v interface{}) {
		fmt.Fprintf(w, "%s%s: %v\n", margin, name, v)
	}

	p("nal_hrd_parameters_present_flag", flag01(hrd.NalHrdParametersPresentFlag))
	p("vcl_hrd_parameters_present_flag", flag01(hrd.VclHrdParametersPresentFlag))
	if hrd.SubPic != nil {
		p("tick_divisor_minus2", hrd.SubPic.TickDivisorMinus2)
		p("du_cpb_removal_delay_increment_length_minus1", hrd.SubPic.DuCpbRemovalDelayIncrementLengthMinus1)
		p("sub_pic_cpb_params_in_pic_timing_sei_flag", flag01(hrd.SubPic.SubPicCpbParamsInPicTimingSeiFlag))
		p("dpb_output_delay_du_length_minus1", hrd.SubPic.DpbOutputDelayDuLengthMinus1)
	}
	if hrd.NalHrdParametersPresentFlag || hrd.VclHrdParametersPresentFlag {
		p("bit_rate_scale", hrd.BitRateScale)
		p("cpb_size_scale", hrd.CpbSizeScale)
		if hrd.SubPic != nil {
			p("cpb_size_du_scale", hrd.SubPic.CpbSizeDuScale)
		}
		p("initial_cpb_removal_delay_length_minus1", hrd.InitialCpbRemovalDelayLengthMinus1)
		p("au_cpb_removal_delay_length_minus1", hrd.AuCpbRemovalDelayLengthMinus1)
		p("dpb_output_delay_length_minus1", hrd.DpbOutputDelayLengthMinus1)
	}

	for i := range hrd.SubLayers {
		sub := &hrd.SubLayers[i]
		prefix := fmt.Sprintf("sub_layer[%d].", i)
		p(prefix+"fixed_pic_rate_general_flag", flag01(sub.FixedPicRateGeneralFlag))
		p(prefix+"fixed_pic_rate_within_cvs_flag", flag01(sub.FixedPicRateWithinCvsFlag))
		if sub.FixedPicRateWithinCvsFlag {
			p(prefix+"elemental_duration_in_tc_minus1", sub.ElementalDurationInTcMinus1)
		} else {
			p(prefix+"low_delay_hrd_flag", flag01(sub.LowDelayHrdFlag))
		}
		if !sub.LowDelayHrdFlag {
			p(prefix+"cpb_cnt_minus1", sub.CpbCntMinus1)
		}
		for j, cpb := range sub.NalCpb {
			p(fmt.Sprintf("%snal_bit_rate_value_minus1[%d]", prefix, j), cpb.BitRateValueMinus1)
			p(fmt.Sprintf("%snal_cpb_size_value_minus1[%d]", prefix, j), cpb.CpbSizeValueMinus1)
			p(fmt.Sprintf("%snal_cbr_flag[%d]", prefix, j), flag01(cpb.CbrFlag))
		}
		for j, cpb := range sub.VclCpb {
			p(fmt.Sprintf("%svcl_bit_rate_value_minus1[%d]", prefix, j), cpb.BitRateValueMinus1)
			p(fmt.Sprintf("%svcl_cpb_size_value_minus1[%d]", prefix, j), cpb.CpbSizeValueMinus1)
			p(fmt.Sprintf("%svcl_cbr_flag[%d]", prefix, j), flag01(cpb.CbrFlag))
		}
	}
}
