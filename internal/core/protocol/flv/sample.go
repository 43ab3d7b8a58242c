// If you are AI: This file defines the Sample values the demuxer hands to its SampleHandler.
// Samples are ephemeral: the payload is borrowed from the stream cache.

package flv

// SampleKind identifies what a Sample carries.
// The numeric values match the data type codes used by players fed from this demuxer.
type SampleKind uint8

const (
	// SampleMediaFlags carries the raw header flag byte in Flags.
	SampleMediaFlags SampleKind = 1
	// SampleVideoParameters carries an AVCDecoderConfigurationRecord.
	SampleVideoParameters SampleKind = 2
	// SampleVideoPacket carries one or more length-prefixed NAL units.
	SampleVideoPacket SampleKind = 3
	// SampleAudioParameters carries an audio configuration record (AudioSpecificConfig for AAC).
	SampleAudioParameters SampleKind = 4
	// SampleAudioPacket carries one codec-native audio frame.
	SampleAudioPacket SampleKind = 5
)

// FlagKeyframe is set in Sample.Flags for video packets whose frame type is key.
const FlagKeyframe uint32 = 1

// Sample is one unit emitted by the demuxer.
// Ownership: Payload aliases the demuxer's cache and is valid only for the
// duration of HandleSample. Handlers must copy anything they keep.
type Sample struct {
	Kind      SampleKind
	Payload   []byte
	PTS       int64
	DTS       int64
	Flags     uint32 // keyframe bit, codec id for video parameters, audio header byte, or file flags
	Encrypted bool   // tag carried the encryption bit; payload is passed through untouched
}

// IsKeyframe returns true for video packets flagged as keyframes.
func (s *Sample) IsKeyframe() bool {
	return s.Kind == SampleVideoPacket && s.Flags&FlagKeyframe != 0
}

// SampleHandler receives samples synchronously from Feed.
type SampleHandler interface {
	HandleSample(s Sample)
}

// HandlerFunc adapts a function to SampleHandler.
type HandlerFunc func(s Sample)

// HandleSample calls f(s).
func (f HandlerFunc) HandleSample(s Sample) {
	f(s)
}

// String returns a human-readable name for the kind.
func (k SampleKind) String() string {
	switch k {
	case SampleMediaFlags:
		return "media_flags"
	case SampleVideoParameters:
		return "video_parameters"
	case SampleVideoPacket:
		return "video_packet"
	case SampleAudioParameters:
		return "audio_parameters"
	case SampleAudioPacket:
		return "audio_packet"
	default:
		return "unknown"
	}
}
