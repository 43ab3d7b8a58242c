// If you are AI: This file defines FLV container constants shared by the demuxer and the writer.

package flv

import "math"

// FLV file signature
const FLVSignature = "FLV"

// FLV version
const FLVVersion = 1

// FLV header size, also the minimum legal value of the header's data offset field
const FLVHeaderSize = 9

// Tag header size (type + data size + timestamp + extension + stream id)
const TagHeaderSize = 11

// Size of the "previous tag size" field that follows the header and every tag
const PreviousTagSizeLength = 4

// Header flag bits
const (
	FileFlagVideo = 0x01
	FileFlagAudio = 0x04
)

// Tag types
const (
	TagTypeAudio  = 8
	TagTypeVideo  = 9
	TagTypeScript = 18
)

// Tag type byte layout
const (
	tagTypeReservedMask = 0xc0
	tagTypeEncrypted    = 0x20
	tagTypeKindMask     = 0x1f
)

// Audio format constants
const (
	AudioFormatAAC = 10
)

// AudioFormat returns the sound format nibble of an audio header byte.
func AudioFormat(header byte) uint8 {
	return header >> 4
}

// Video codec constants
const (
	VideoCodecAVC = 7
)

// Video frame types
const (
	VideoFrameKeyFrame        = 1
	VideoFrameInterFrame      = 2
	VideoFrameDisposableInter = 3
	VideoFrameGeneratedKey    = 4
	VideoFrameInfoCommand     = 5
)

// AVCPacketType constants
const (
	AVCPacketTypeSequenceHeader = 0
	AVCPacketTypeNALU           = 1
	AVCPacketTypeEndOfSequence  = 2
)

// AACPacketType constants
const (
	AACPacketTypeSequenceHeader = 0
	AACPacketTypeRaw            = 1
)

// NoTimestamp marks a sample whose decode or presentation time is unknown.
const NoTimestamp int64 = math.MinInt64 + 1

// maxTimestampSkew is the largest |dts - pts| accepted before both are dropped (15 minutes in ms).
const maxTimestampSkew = 15 * 60 * 1000

// DefaultCacheSize is the stream cache capacity used when no option overrides it.
const DefaultCacheSize = 8 * 1024 * 1024

// IsVideoKeyframe returns true if the FLV video tag body represents a keyframe.
// byte[0] upper nibble = frame type (1=keyframe).
func IsVideoKeyframe(payload []byte) bool {
	return len(payload) >= 1 && (payload[0]>>4) == VideoFrameKeyFrame
}
