// If you are AI: This file converts demuxed bus messages back into FLV tags for one viewer.
// Frames before the first video keyframe are dropped and timestamps are rebased to start at zero.

package egress

import (
	"flvstream/internal/core/bus"
	"flvstream/internal/core/protocol/flv"
)

// Remuxer holds the per-viewer gating and rebasing state.
// Not safe for concurrent use.
type Remuxer struct {
	gotKeyframe bool
	baseSet     bool
	base        int64
	last        uint32
}

// Tag converts msg into an FLV tag. It returns nil when the message is dropped.
// The tag body is a fresh copy; msg may be released afterwards.
func (r *Remuxer) Tag(msg *bus.MediaMessage) *flv.Tag {
	var tag *flv.Tag
	switch msg.Type {
	case bus.MessageTypeVideoConfig:
		tag = flv.MuxAVC(true, flv.AVCPacketTypeSequenceHeader, 0, 0, msg.Payload)
	case bus.MessageTypeAudioConfig:
		if !isAAC(msg) {
			return nil
		}
		tag = flv.MuxAudioHeader(byte(msg.Flags), flv.AACPacketTypeSequenceHeader, 0, msg.Payload)
	case bus.MessageTypeVideo:
		if !r.gotKeyframe {
			if !msg.Keyframe {
				return nil
			}
			r.gotKeyframe = true
		}
		tag = flv.MuxAVC(msg.Keyframe, flv.AVCPacketTypeNALU, compositionOffset(msg), r.rebase(msg.DTS), msg.Payload)
	case bus.MessageTypeAudio:
		if !r.gotKeyframe || !isAAC(msg) {
			return nil
		}
		tag = flv.MuxAudioHeader(byte(msg.Flags), flv.AACPacketTypeRaw, r.rebase(msg.DTS), msg.Payload)
	default:
		return nil
	}
	tag.Encrypted = msg.Encrypted
	return tag
}

// Started reports whether the first keyframe has been forwarded.
func (r *Remuxer) Started() bool {
	return r.gotKeyframe
}

// rebase maps a decode timestamp onto the viewer's timeline.
// Unknown timestamps repeat the previous value.
func (r *Remuxer) rebase(dts int64) uint32 {
	if dts == flv.NoTimestamp {
		return r.last
	}
	if !r.baseSet {
		r.base = dts
		r.baseSet = true
	}
	if dts < r.base {
		r.last = 0
	} else {
		r.last = uint32(dts - r.base)
	}
	return r.last
}

// isAAC reports whether an audio message came from an AAC tag. The output
// writes an AAC packet type byte, so other formats cannot be carried.
func isAAC(msg *bus.MediaMessage) bool {
	return flv.AudioFormat(byte(msg.Flags)) == flv.AudioFormatAAC
}

func compositionOffset(msg *bus.MediaMessage) int32 {
	if msg.PTS == flv.NoTimestamp || msg.DTS == flv.NoTimestamp {
		return 0
	}
	return int32(msg.PTS - msg.DTS)
}
