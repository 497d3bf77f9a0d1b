// Package avparse extracts syntax structures from AVC/H.264 and HEVC/H.265
// elementary streams: NAL unit headers, sequence parameter sets and the
// structures nested inside them, down to individual bitstream fields.
//
// The codec-specific parsers live in the h264 and h265 sub-packages; this
// package holds the types shared between them.
package avparse

// CodecType identifies a supported video codec family.
type CodecType uint8

const (
	H264 CodecType = iota + 1 // AVC / ITU-T H.264
	H265                      // HEVC / ITU-T H.265
)

// String returns the conventional codec name.
func (t CodecType) String() string {
	switch t {
	case H264:
		return "H264"
	case H265:
		return "H265"
	}
	return "UNKNOWN"
}

// ChromaFormat is the chroma_format_idc code shared by both codec families.
type ChromaFormat uint8

const (
	ChromaMono ChromaFormat = iota // monochrome
	Chroma420                      // 4:2:0
	Chroma422                      // 4:2:2
	Chroma444                      // 4:4:4
)

// String returns the usual subsampling notation.
func (c ChromaFormat) String() string {
	switch c {
	case ChromaMono:
		return "monochrome"
	case Chroma420:
		return "4:2:0"
	case Chroma422:
		return "4:2:2"
	case Chroma444:
		return "4:4:4"
	}
	return "unknown"
}

// VideoAttributes tracks the currently visible picture attributes of an
// elementary stream. Both h264.Attributes and h265.Attributes implement it.
type VideoAttributes interface {
	Valid() bool                 // A sequence parameter set has been seen.
	Width() uint                 // Frame width in luma samples, after cropping.
	Height() uint                // Frame height in luma samples, after cropping.
	Profile() uint8              // Profile identifier from the last SPS.
	Level() uint8                // Level identifier from the last SPS.
	Chroma() ChromaFormat        // Effective chroma format.
	Feed(accessUnit []byte) bool // Feed one access unit; reports whether the attributes changed.
}
