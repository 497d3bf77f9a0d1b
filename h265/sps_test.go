package h265

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/avparse"
	"github.com/ugparu/avparse/utils/bits"
)

// buildSPSNal assembles a complete SPS NAL unit: two header bytes, stuffed
// payload, trailing bits.
func buildSPSNal(body func(w *bits.Writer)) []byte {
	w := &bits.Writer{}
	body(w)
	w.WriteTrailingBits()
	return append([]byte{0x42, 0x01}, bits.EmulationPrevention(w.Bytes())...)
}

// writeMinimalSPS emits a single-layer Main profile SPS. conf, when not
// nil, is the conformance window as left, right, top, bottom offsets.
func writeMinimalSPS(w *bits.Writer, width, height uint32, conf *[4]uint32, vui func(w *bits.Writer)) {
	w.WriteBits(0, 4)  // sps_video_parameter_set_id
	w.WriteBits(0, 3)  // sps_max_sub_layers_minus1
	w.WriteFlag(true)  // sps_temporal_id_nesting_flag
	writePTL(w, 1, compatBit(1), 120)
	w.WriteUE(0) // sps_seq_parameter_set_id
	w.WriteUE(1) // chroma_format_idc
	w.WriteUE(width)
	w.WriteUE(height)
	w.WriteFlag(conf != nil)
	if conf != nil {
		for _, off := range conf {
			w.WriteUE(off)
		}
	}
	w.WriteUE(0)      // bit_depth_luma_minus8
	w.WriteUE(0)      // bit_depth_chroma_minus8
	w.WriteUE(4)      // log2_max_pic_order_cnt_lsb_minus4
	w.WriteFlag(true) // sps_sub_layer_ordering_info_present_flag
	w.WriteUE(4)      // sps_max_dec_pic_buffering_minus1
	w.WriteUE(2)      // sps_max_num_reorder_pics
	w.WriteUE(0)      // sps_max_latency_increase_plus1
	w.WriteUE(0)      // log2_min_luma_coding_block_size_minus3
	w.WriteUE(2)      // log2_diff_max_min_luma_coding_block_size
	w.WriteUE(0)      // log2_min_luma_transform_block_size_minus2
	w.WriteUE(2)      // log2_diff_max_min_luma_transform_block_size
	w.WriteUE(0)      // max_transform_hierarchy_depth_inter
	w.WriteUE(0)      // max_transform_hierarchy_depth_intra
	w.WriteFlag(false) // scaling_list_enabled_flag
	w.WriteFlag(true)  // amp_enabled_flag
	w.WriteFlag(true)  // sample_adaptive_offset_enabled_flag
	w.WriteFlag(false) // pcm_enabled_flag
	w.WriteUE(0)       // num_short_term_ref_pic_sets
	w.WriteFlag(false) // long_term_ref_pics_present_flag
	w.WriteFlag(true)  // sps_temporal_mvp_enabled_flag
	w.WriteFlag(true)  // strong_intra_smoothing_enabled_flag
	w.WriteFlag(vui != nil)
	if vui != nil {
		vui(w)
	}
	w.WriteFlag(false) // sps_extension_present_flag
}

func writeTimingVUI(w *bits.Writer, numUnitsInTick, timeScale uint32) {
	w.WriteFlag(false) // aspect_ratio_info_present_flag
	w.WriteFlag(false) // overscan_info_present_flag
	w.WriteFlag(false) // video_signal_type_present_flag
	w.WriteFlag(false) // chroma_loc_info_present_flag
	w.WriteFlag(false) // neutral_chroma_indication_flag
	w.WriteFlag(false) // field_seq_flag
	w.WriteFlag(false) // frame_field_info_present_flag
	w.WriteFlag(false) // default_display_window_flag
	w.WriteFlag(true)  // vui_timing_info_present_flag
	w.WriteBits(numUnitsInTick, 32)
	w.WriteBits(timeScale, 32)
	w.WriteFlag(false) // vui_poc_proportional_to_timing_flag
	w.WriteFlag(false) // vui_hrd_parameters_present_flag
	w.WriteFlag(false) // bitstream_restriction_flag
}

func TestSPSDecode_Minimal(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeMinimalSPS(w, 1920, 1080, nil, nil)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.True(t, sps.Valid)
	require.True(t, sps.TrailingBitsValid)
	require.Zero(t, sps.LeftoverBits)

	require.EqualValues(t, 0, sps.SpsMaxSubLayersMinus1)
	require.EqualValues(t, 1, sps.ProfileTierLevel.GeneralProfileIdc)
	require.EqualValues(t, 1, sps.Profile())
	require.EqualValues(t, 120, sps.ProfileTierLevel.GeneralLevelIdc)
	require.Equal(t, avparse.Chroma420, sps.ChromaFormat())
	require.EqualValues(t, 1920, sps.Width())
	require.EqualValues(t, 1080, sps.Height())
	require.Len(t, sps.SubLayerOrderingInfo, 1)
	require.EqualValues(t, 4, sps.SubLayerOrderingInfo[0].MaxDecPicBufferingMinus1)
	require.Nil(t, sps.Vui)
	require.Zero(t, sps.FrameRate())
}

func TestSPSDecode_ConformanceWindow(t *testing.T) {
	t.Parallel()

	// 4:2:0: one window offset unit covers two luma samples.
	nalu := buildSPSNal(func(w *bits.Writer) {
		writeMinimalSPS(w, 1928, 1088, &[4]uint32{0, 4, 0, 4}, nil)
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.EqualValues(t, 1928, sps.PicWidthInLumaSamples)
	require.EqualValues(t, 1920, sps.Width())
	require.EqualValues(t, 1080, sps.Height())
}

func TestSPSDecode_VUITiming(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeMinimalSPS(w, 1280, 720, nil, func(w *bits.Writer) {
			writeTimingVUI(w, 1, 30)
		})
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	require.NotNil(t, sps.Vui)
	require.True(t, sps.Vui.VuiTimingInfoPresentFlag)
	// Unlike AVC there is no field tick halving.
	require.InDelta(t, 30.0, sps.FrameRate(), 1e-9)
	require.EqualValues(t, 5, sps.Vui.VideoFormat) // inferred
}

func TestSPSDecode_TruncationIsDeterministic(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeMinimalSPS(w, 1920, 1080, nil, func(w *bits.Writer) {
			writeTimingVUI(w, 1, 30)
		})
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
	require.ErrorIs(t, sps.DecodeBytes([]byte{0x42}), ErrIncorrectUnitSize)
	require.ErrorIs(t, sps.DecodeBytes([]byte{0x44, 0x01, 0x00}), ErrIncorrectUnitType) // PPS
}

func TestSPSDisplay(t *testing.T) {
	t.Parallel()

	nalu := buildSPSNal(func(w *bits.Writer) {
		writeMinimalSPS(w, 1920, 1080, nil, func(w *bits.Writer) {
			writeTimingVUI(w, 1, 30)
		})
	})

	var sps SPS
	require.NoError(t, sps.DecodeBytes(nalu))

	buf := &bytes.Buffer{}
	sps.Display(buf, "  ")
	out := buf.String()

	require.Contains(t, out, "  pic_width_in_luma_samples: 1920\n")
	require.Contains(t, out, "  ptl.general_profile_idc: 1\n")
	require.Contains(t, out, "  ptl.general_max_12bit_constraint_flag: 0\n")
	require.Contains(t, out, "  ptl.general_reserved_zero_33bits: 0\n")
	require.Contains(t, out, "  ptl.general_inbld_flag: 0\n")
	require.Contains(t, out, "  vui.vui_time_scale: 30\n")
	// Absent elements stay absent.
	require.NotContains(t, out, "conf_win_left_offset")
	require.NotContains(t, out, "pcm_sample_bit_depth_luma_minus1")
}

func TestSPSDisplay_TopLayerOrderingIndex(t *testing.T) {
	t.Parallel()

	// When the ordering info is coded for the top layer only, the dump must
	// index the triplet by the real layer, not by slice position.
	sps := SPS{
		SpsMaxSubLayersMinus1: 2,
		SubLayerOrderingInfo: []SubLayerOrderingInfo{
			{MaxDecPicBufferingMinus1: 4, MaxNumReorderPics: 2},
		},
	}

	buf := &bytes.Buffer{}
	sps.Display(buf, "")
	out := buf.String()

	require.Contains(t, out, "sps_max_dec_pic_buffering_minus1[2]: 4\n")
	require.NotContains(t, out, "sps_max_dec_pic_buffering_minus1[0]")
}

func TestAttributesFeed(t *testing.T) {
	t.Parallel()

	fullHD := buildSPSNal(func(w *bits.Writer) { writeMinimalSPS(w, 1920, 1080, nil, nil) })
	hd := buildSPSNal(func(w *bits.Writer) { writeMinimalSPS(w, 1280, 720, nil, nil) })

	attrs := NewAttributes()
	require.False(t, attrs.Valid())

	require.False(t, attrs.Feed(nil))
	require.False(t, attrs.Feed([]byte{0x26, 0x01, 0xaf})) // IDR slice
	require.False(t, attrs.Valid())

	require.True(t, attrs.Feed(fullHD))
	require.True(t, attrs.Valid())
	require.EqualValues(t, 1920, attrs.Width())
	require.EqualValues(t, 1080, attrs.Height())
	require.EqualValues(t, 1, attrs.Profile())
	require.EqualValues(t, 120, attrs.Level())
	require.Equal(t, avparse.Chroma420, attrs.Chroma())

	require.False(t, attrs.Feed(fullHD))

	// A truncated SPS is rejected and the previous state survives.
	require.False(t, attrs.Feed(fullHD[:6]))
	require.True(t, attrs.Valid())
	require.EqualValues(t, 1920, attrs.Width())

	require.True(t, attrs.Feed(hd))
	require.EqualValues(t, 1280, attrs.Width())
	require.EqualValues(t, 720, attrs.Height())
}
