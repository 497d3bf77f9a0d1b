package h264

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNALUnitHeaderDecode(t *testing.T) {
	t.Parallel()

	var h NALUnitHeader
	payload, err := h.Decode([]byte{0x67, 0x42, 0x00})
	require.NoError(t, err)
	require.EqualValues(t, 0, h.ForbiddenZeroBit)
	require.EqualValues(t, 3, h.NalRefIdc)
	require.EqualValues(t, NaluSPS, h.NalUnitType)
	require.False(t, h.IsVCL())
	require.Equal(t, []byte{0x42, 0x00}, payload)

	_, err = h.Decode([]byte{0x65})
	require.NoError(t, err)
	require.EqualValues(t, NaluCodedIDR, h.NalUnitType)
	require.True(t, h.IsVCL())

	_, err = h.Decode(nil)
	require.ErrorIs(t, err, ErrIncorrectUnitSize)
}
