package h264

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/avparse"
	"github.com/ugparu/avparse/utils/bits"
)

// Helper to assemble a complete SPS NAL unit: header byte, stuffed payload,
// trailing bits.
func buildSPSNal(body func(w *bits.Writer)) []byte {
	w := &bits.Writer{}
	body(w)
	w.WriteTrailingBits()
	return append([]byte{0x67}, bits.EmulationPrevention(w.Bytes())...)
}

func writeBaselineSPS(w *bits.Writer, widthMbsMinus1, heightMapUnitsMinus1 uint32) {
	w.WriteBits(66, 8)   // profile_idc
	w.WriteBits(0xc0, 8) // constraint_set0/1, reserved
	w.WriteBits(30, 8)   // level_idc
	w.WriteUE(0)         // seq_parameter_set_id
	w.WriteUE(0)         // log2_max_frame_num_minus4
	w.WriteUE(0)         // pic_order_cnt_type
	w.WriteUE(0)         // log2_max_pic_order_cnt_lsb_minus4
	w.WriteUE(1)         // max_num_ref_frames
	w.WriteFlag(false)   // gaps_in_frame_num_value_allowed_flag
	w.WriteUE(widthMbsMinus1)
	w.WriteUE(heightMapUnitsMinus1)
	w.WriteFlag(true)  // frame_mbs_only_flag
	w.WriteFlag(true)  // direct_8x8_inference_flag
	w.WriteFlag(false) // frame_cropping_flag
	w.WriteFlag(false) // vui_parameters_present_flag
}

func TestSPSDecode_Baseline(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeBaselineSPS(w, 10, 8)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.True(t, sps.Valid)
	require.True(t, sps.TrailingBitsValid)
	require.Zero(t, sps.LeftoverBits)

	require.EqualValues(t, 66, sps.ProfileIdc)
	require.True(t, sps.ConstraintSet0Flag)
	require.True(t, sps.ConstraintSet1Flag)
	require.False(t, sps.ConstraintSet2Flag)
	require.EqualValues(t, 30, sps.LevelIdc)

	require.EqualValues(t, 1, sps.ChromaFormatIdc) // inferred, profile 66 has no chroma block
	require.Equal(t, avparse.Chroma420, sps.ChromaFormat())
	require.EqualValues(t, 176, sps.Width())
	require.EqualValues(t, 144, sps.Height())
	require.Nil(t, sps.Vui)
	require.Zero(t, sps.FrameRate())
}

func TestSPSDecode_HighProfileScalingList(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		w.WriteBits(100, 8)
		w.WriteBits(0, 8)
		w.WriteBits(40, 8)
		w.WriteUE(0)       // seq_parameter_set_id
		w.WriteUE(1)       // chroma_format_idc
		w.WriteUE(0)       // bit_depth_luma_minus8
		w.WriteUE(0)       // bit_depth_chroma_minus8
		w.WriteFlag(false) // qpprime_y_zero_transform_bypass_flag
		w.WriteFlag(true)  // seq_scaling_matrix_present_flag
		w.WriteFlag(true)  // seq_scaling_list_present_flag[0]
		w.WriteSE(-8)      // first delta_scale: nextScale 0, default matrix
		for i := 1; i < 8; i++ {
			w.WriteFlag(false)
		}
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(4)
		w.WriteFlag(false)
		w.WriteUE(119) // 1920
		w.WriteUE(67)  // 1088
		w.WriteFlag(true)
		w.WriteFlag(true)
		w.WriteFlag(true) // frame_cropping_flag
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(4) // 8 luma rows off the bottom
		w.WriteFlag(false)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.True(t, sps.Valid)
	require.True(t, sps.SeqScalingMatrixPresentFlag)
	require.True(t, sps.SeqScalingListPresentFlag[0])
	require.True(t, sps.UseDefaultScalingMatrixFlag[0])
	for _, scale := range sps.ScalingList4x4[0] {
		require.EqualValues(t, 8, scale)
	}
	require.False(t, sps.SeqScalingListPresentFlag[1])

	require.EqualValues(t, 1920, sps.Width())
	require.EqualValues(t, 1080, sps.Height())
}

func TestSPSDecode_Cropping(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		w.WriteBits(66, 8)
		w.WriteBits(0, 8)
		w.WriteBits(30, 8)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(1)
		w.WriteFlag(false)
		w.WriteUE(10)
		w.WriteUE(8)
		w.WriteFlag(true)
		w.WriteFlag(true)
		w.WriteFlag(true) // frame_cropping_flag
		w.WriteUE(1)      // left
		w.WriteUE(1)      // right
		w.WriteUE(2)      // top
		w.WriteUE(2)      // bottom
		w.WriteFlag(false)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	// 4:2:0 frame coding: one crop unit is 2 luma columns and 2 luma rows.
	require.EqualValues(t, 172, sps.Width())
	require.EqualValues(t, 136, sps.Height())
}

func TestSPSDecode_PicOrderCntType1(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		w.WriteBits(66, 8)
		w.WriteBits(0, 8)
		w.WriteBits(30, 8)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(1)       // pic_order_cnt_type
		w.WriteFlag(false) // delta_pic_order_always_zero_flag
		w.WriteSE(-1)      // offset_for_non_ref_pic
		w.WriteSE(2)       // offset_for_top_to_bottom_field
		w.WriteUE(2)       // num_ref_frames_in_pic_order_cnt_cycle
		w.WriteSE(3)
		w.WriteSE(-3)
		w.WriteUE(1)
		w.WriteFlag(false)
		w.WriteUE(10)
		w.WriteUE(8)
		w.WriteFlag(true)
		w.WriteFlag(true)
		w.WriteFlag(false)
		w.WriteFlag(false)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.EqualValues(t, 1, sps.PicOrderCntType)
	require.False(t, sps.DeltaPicOrderAlwaysZeroFlag)
	require.EqualValues(t, -1, sps.OffsetForNonRefPic)
	require.EqualValues(t, 2, sps.OffsetForTopToBottomField)
	require.Equal(t, []int32{3, -3}, sps.OffsetForRefFrame)
}

func writeTimingVUI(w *bits.Writer, numUnitsInTick, timeScale uint32, fixed bool) {
	w.WriteFlag(false) // aspect_ratio_info_present_flag
	w.WriteFlag(false) // overscan_info_present_flag
	w.WriteFlag(false) // video_signal_type_present_flag
	w.WriteFlag(false) // chroma_loc_info_present_flag
	w.WriteFlag(true)  // timing_info_present_flag
	w.WriteBits(numUnitsInTick, 32)
	w.WriteBits(timeScale, 32)
	w.WriteFlag(fixed)
	w.WriteFlag(false) // nal_hrd_parameters_present_flag
	w.WriteFlag(false) // vcl_hrd_parameters_present_flag
	w.WriteFlag(false) // pic_struct_present_flag
	w.WriteFlag(false) // bitstream_restriction_flag
}

func TestSPSDecode_VUITiming(t *testing.T) {
	t.Parallel()

	raw := &bits.Writer{}
	writeBaselineSPS(raw, 10, 8)

	nalu := buildSPSNal(func(w *bits.Writer) {
		w.WriteBits(66, 8)
		w.WriteBits(0xc0, 8)
		w.WriteBits(30, 8)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(1)
		w.WriteFlag(false)
		w.WriteUE(10)
		w.WriteUE(8)
		w.WriteFlag(true)
		w.WriteFlag(true)
		w.WriteFlag(false)
		w.WriteFlag(true) // vui_parameters_present_flag
		writeTimingVUI(w, 1, 50, true)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.NotNil(t, sps.Vui)
	require.True(t, sps.Vui.TimingInfoPresentFlag)
	require.EqualValues(t, 1, sps.Vui.NumUnitsInTick)
	require.EqualValues(t, 50, sps.Vui.TimeScale)
	require.InDelta(t, 25.0, sps.FrameRate(), 1e-9)

	// Inferred defaults for absent syntax elements.
	require.EqualValues(t, 5, sps.Vui.VideoFormat)
	require.EqualValues(t, 2, sps.Vui.ColourPrimaries)
	require.False(t, sps.Vui.LowDelayHrdFlag) // 1 - fixed_frame_rate_flag

	// The 32-bit timing values force zero-byte runs, so the encoded form
	// must have gone through emulation prevention.
	var unstuffed bits.Writer
	unstuffed.WriteBits(1, 32)
	unstuffed.WriteBits(50, 32)
	require.Greater(t, len(nalu), len(raw.Bytes())+len(unstuffed.Bytes()))
}

func TestSPSDecode_HRD(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		w.WriteBits(66, 8)
		w.WriteBits(0, 8)
		w.WriteBits(30, 8)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(1)
		w.WriteFlag(false)
		w.WriteUE(10)
		w.WriteUE(8)
		w.WriteFlag(true)
		w.WriteFlag(true)
		w.WriteFlag(false)
		w.WriteFlag(true)  // vui_parameters_present_flag
		w.WriteFlag(false) // aspect_ratio_info_present_flag
		w.WriteFlag(false) // overscan_info_present_flag
		w.WriteFlag(false) // video_signal_type_present_flag
		w.WriteFlag(false) // chroma_loc_info_present_flag
		w.WriteFlag(false) // timing_info_present_flag
		w.WriteFlag(true)  // nal_hrd_parameters_present_flag
		w.WriteUE(1)       // cpb_cnt_minus1
		w.WriteBits(2, 4)  // bit_rate_scale
		w.WriteBits(3, 4)  // cpb_size_scale
		w.WriteUE(1000)    // bit_rate_value_minus1[0]
		w.WriteUE(2000)    // cpb_size_value_minus1[0]
		w.WriteFlag(true)  // cbr_flag[0]
		w.WriteUE(1500)
		w.WriteUE(2500)
		w.WriteFlag(false)
		w.WriteBits(23, 5) // initial_cpb_removal_delay_length_minus1
		w.WriteBits(15, 5) // cpb_removal_delay_length_minus1
		w.WriteBits(5, 5)  // dpb_output_delay_length_minus1
		w.WriteBits(24, 5) // time_offset_length
		w.WriteFlag(false) // vcl_hrd_parameters_present_flag
		w.WriteFlag(true)  // low_delay_hrd_flag
		w.WriteFlag(false) // pic_struct_present_flag
		w.WriteFlag(false) // bitstream_restriction_flag
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.NotNil(t, sps.Vui)
	hrd := sps.Vui.NalHrd
	require.NotNil(t, hrd)
	require.EqualValues(t, 1, hrd.CpbCntMinus1)
	require.EqualValues(t, 2, hrd.BitRateScale)
	require.EqualValues(t, 3, hrd.CpbSizeScale)
	require.Equal(t, []uint32{1000, 1500}, hrd.BitRateValueMinus1)
	require.Equal(t, []uint32{2000, 2500}, hrd.CpbSizeValueMinus1)
	require.Equal(t, []bool{true, false}, hrd.CbrFlag)
	require.EqualValues(t, 23, hrd.InitialCpbRemovalDelayLengthMinus1)
	require.EqualValues(t, 24, hrd.TimeOffsetLength)
	require.Nil(t, sps.Vui.VclHrd)
	require.True(t, sps.Vui.LowDelayHrdFlag)
}

func TestSPSDecode_TrailingBits(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeBaselineSPS(w, 10, 8)
	})

	t.Run("extra_byte_after_trailing", func(t *testing.T) {
		t.Parallel()

		padded := append(append([]byte{}, nalu...), 0x00)
		var sps SPS
		require.NoError(t, sps.DecodeBytes(padded))
		require.True(t, sps.Valid)
		require.True(t, sps.TrailingBitsValid)
		require.Equal(t, 8, sps.LeftoverBits)
	})

	t.Run("missing_stop_bit", func(t *testing.T) {
		t.Parallel()

		// Zero padding instead of rbsp_trailing_bits. Decoding still
		// succeeds, only the advisory check fails.
		w := &bits.Writer{}
		writeBaselineSPS(w, 10, 8)
		for w.BitLen()%8 != 0 {
			w.WriteBit(0)
		}
		raw := append([]byte{0x67}, bits.EmulationPrevention(w.Bytes())...)

		var sps SPS
		require.NoError(t, sps.DecodeBytes(raw))
		require.True(t, sps.Valid)
		require.False(t, sps.TrailingBitsValid)
	})
}

func TestSPSDecode_TruncationIsDeterministic(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeBaselineSPS(w, 10, 8)
	})

	for cut := 0; cut < len(nalu); cut++ {
		var first, second SPS
		err1 := first.DecodeBytes(nalu[:cut])
		err2 := second.DecodeBytes(nalu[:cut])

		require.Equal(t, err1, err2, "prefix length %d", cut)
		require.Equal(t, first, second, "prefix length %d", cut)
		if err1 != nil {
			require.False(t, first.Valid, "prefix length %d", cut)
		}
	}
}

func TestSPSDecodeBytes_Errors(t *testing.T) {
	t.Parallel()

	var sps SPS
	require.ErrorIs(t, sps.DecodeBytes(nil), ErrIncorrectUnitSize)
	require.ErrorIs(t, sps.DecodeBytes([]byte{0x68, 0x00}), ErrIncorrectUnitType)
}

func TestSPSDisplay(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		w.WriteBits(66, 8)
		w.WriteBits(0xc0, 8)
		w.WriteBits(30, 8)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(0)
		w.WriteUE(1)
		w.WriteFlag(false)
		w.WriteUE(10)
		w.WriteUE(8)
		w.WriteFlag(true)
		w.WriteFlag(true)
		w.WriteFlag(false)
		w.WriteFlag(true)
		writeTimingVUI(w, 1, 50, true)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	buf := &bytes.Buffer{}
	sps.Display(buf, "  ")
	out := buf.String()

	require.Contains(t, out, "  profile_idc: 66\n")
	require.Contains(t, out, "  reserved_zero_2bits: 0\n")
	require.Contains(t, out, "  pic_width_in_mbs_minus1: 10\n")
	require.Contains(t, out, "  vui.timing_info_present_flag: 1\n")
	require.Contains(t, out, "  vui.time_scale: 50\n")
	// Absent elements stay absent.
	require.NotContains(t, out, "frame_crop_left_offset")
	require.NotContains(t, out, "sar_width")
}

func TestSPSDisplay_ScalingLists(t *testing.T) {
	t.Parallel()

	sps := SPS{
		ProfileIdc:                  100,
		ChromaFormatIdc:             1,
		SeqScalingMatrixPresentFlag: true,
	}
	sps.SeqScalingListPresentFlag[0] = true
	sps.UseDefaultScalingMatrixFlag[0] = true
	for i := range sps.ScalingList4x4[0] {
		sps.ScalingList4x4[0][i] = 8
	}
	sps.SeqScalingListPresentFlag[7] = true
	sps.ScalingList8x8[1][0] = 16

	buf := &bytes.Buffer{}
	sps.Display(buf, "")
	out := buf.String()

	require.Contains(t, out, "seq_scaling_list_present_flag[0]: 1\n")
	require.Contains(t, out, "use_default_scaling_matrix_flag[0]: 1\n")
	require.Contains(t, out, "scaling_list_4x4[0]: ")
	require.Contains(t, out, "scaling_list_8x8[1]: ")
	// Lists the bitstream never carried stay out of the dump.
	require.NotContains(t, out, "scaling_list_4x4[1]")
}

func TestAttributesFeed(t *testing.T) {
	t.Parallel()

	cif := buildSPSNal(func(w *bits.Writer) { writeBaselineSPS(w, 10, 8) })
	vga := buildSPSNal(func(w *bits.Writer) { writeBaselineSPS(w, 39, 29) })

	attrs := NewAttributes()
	require.False(t, attrs.Valid())
	require.Zero(t, attrs.Width())

	// Non-SPS units and garbage never touch the state.
	require.False(t, attrs.Feed(nil))
	require.False(t, attrs.Feed([]byte{0x65, 0x88, 0x80})) // IDR slice
	require.False(t, attrs.Valid())

	require.True(t, attrs.Feed(cif))
	require.True(t, attrs.Valid())
	require.EqualValues(t, 176, attrs.Width())
	require.EqualValues(t, 144, attrs.Height())
	require.EqualValues(t, 66, attrs.Profile())
	require.EqualValues(t, 30, attrs.Level())
	require.Equal(t, avparse.Chroma420, attrs.Chroma())

	// Same parameters again: no change reported.
	require.False(t, attrs.Feed(cif))

	// A truncated SPS is rejected and the previous state survives.
	require.False(t, attrs.Feed(cif[:4]))
	require.True(t, attrs.Valid())
	require.EqualValues(t, 176, attrs.Width())

	// New dimensions are a change.
	require.True(t, attrs.Feed(vga))
	require.EqualValues(t, 640, attrs.Width())
	require.EqualValues(t, 480, attrs.Height())
}
