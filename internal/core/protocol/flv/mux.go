// If you are AI: This file builds audio and video tag bodies and whole FLV streams.
// Bodies follow the layout the demuxer decodes: AAC (2-byte prefix) and AVC (5-byte prefix).

package flv

import (
	"io"
)

// DefaultAACHeader is the audio header byte for AAC, 44 kHz, 16-bit, stereo.
const DefaultAACHeader = AudioFormatAAC<<4 | 0x0f

// MuxAudio builds an AAC audio tag. packetType 0 is the AudioSpecificConfig.
func MuxAudio(packetType byte, timestamp uint32, data []byte) *Tag {
	return MuxAudioHeader(DefaultAACHeader, packetType, timestamp, data)
}

// MuxAudioHeader builds an audio tag with an explicit header byte
// (format, rate, size and channel bits).
func MuxAudioHeader(header, packetType byte, timestamp uint32, data []byte) *Tag {
	body := make([]byte, 2+len(data))
	body[0] = header
	body[1] = packetType
	copy(body[2:], data)
	return NewTag(TagTypeAudio, timestamp, body)
}

// MuxVideo builds a video tag with the given frame type, codec id, AVC packet
// type and composition offset.
func MuxVideo(frameType, codecID, packetType byte, cts int32, timestamp uint32, data []byte) *Tag {
	body := make([]byte, 5+len(data))
	body[0] = frameType<<4 | codecID&0x0f
	body[1] = packetType
	body[2] = byte(cts >> 16)
	body[3] = byte(cts >> 8)
	body[4] = byte(cts)
	copy(body[5:], data)
	return NewTag(TagTypeVideo, timestamp, body)
}

// MuxAVC builds an AVC video tag; keyframe selects frame type 1 over 2.
func MuxAVC(keyframe bool, packetType byte, cts int32, timestamp uint32, data []byte) *Tag {
	frameType := byte(VideoFrameInterFrame)
	if keyframe {
		frameType = VideoFrameKeyFrame
	}
	return MuxVideo(frameType, VideoCodecAVC, packetType, cts, timestamp, data)
}

// WriteStream writes a header and the given tags to w.
func WriteStream(w io.Writer, header *Header, tags ...*Tag) error {
	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := w.Write(tag.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
