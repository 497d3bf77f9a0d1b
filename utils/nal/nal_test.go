package nal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitAnnexB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		want  [][]byte
	}{
		{
			name:  "three_byte_start_codes",
			input: []byte{0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x00, 0x01, 0x68, 0xce},
			want:  [][]byte{{0x67, 0x42}, {0x68, 0xce}},
		},
		{
			name:  "four_byte_start_codes",
			input: []byte{0x00, 0x00, 0x00, 0x01, 0x65, 0x88, 0x00, 0x00, 0x00, 0x01, 0x41, 0x9a},
			want:  [][]byte{{0x65, 0x88}, {0x41, 0x9a}},
		},
		{
			name:  "mixed_start_codes",
			input: []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0x00, 0x00, 0x01, 0x68},
			want:  [][]byte{{0x67}, {0x68}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			units, format := Split(tc.input)
			require.Equal(t, FormatAnnexB, format)
			require.Equal(t, tc.want, units)
		})
	}
}

func TestSplitAVCC(t *testing.T) {
	t.Parallel()

	input := []byte{
		0x00, 0x00, 0x00, 0x02, 0x67, 0x42,
		0x00, 0x00, 0x00, 0x03, 0x68, 0xce, 0x38,
	}
	units, format := Split(input)
	require.Equal(t, FormatAVCC, format)
	require.Equal(t, [][]byte{{0x67, 0x42}, {0x68, 0xce, 0x38}}, units)
}

func TestSplitAVCCTruncated(t *testing.T) {
	t.Parallel()

	// Second length field claims more data than remains; the tail is
	// salvaged instead of dropped.
	input := []byte{
		0x00, 0x00, 0x00, 0x02, 0x67, 0x42,
		0x00, 0x00, 0x00, 0x09, 0x68, 0xce,
	}
	units, format := Split(input)
	require.Equal(t, FormatAVCC, format)
	require.Equal(t, [][]byte{{0x67, 0x42}, {0x68, 0xce}}, units)
}

func TestSplitRaw(t *testing.T) {
	t.Parallel()

	units, format := Split([]byte{0x67, 0x42, 0xc0, 0x1e, 0xd9})
	require.Equal(t, FormatRaw, format)
	require.Len(t, units, 1)

	units, format = Split([]byte{0x67})
	require.Equal(t, FormatRaw, format)
	require.Equal(t, [][]byte{{0x67}}, units)
}
