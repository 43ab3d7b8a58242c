// If you are AI: This file decodes one fully buffered audio tag body into samples.
// Byte 0 (sound format/rate/size/type) is passed over; byte 1 is the packet type.

package flv

// decodeAudio emits AudioParameters or AudioPacket for one audio tag body.
func (d *Demuxer) decodeAudio(body []byte) error {
	if len(body) < 2 {
		return decodeError("audio tag of %d bytes is too small", len(body))
	}
	packetType := body[1]
	if len(body) == 2 {
		return nil
	}
	if d.skipFrames {
		return nil
	}

	kind := SampleAudioParameters
	if packetType != AACPacketTypeSequenceHeader {
		// Audio cannot resynchronize on its own, so it waits for the video keyframe.
		if d.seekToNextKeyframe {
			return nil
		}
		kind = SampleAudioPacket
	}

	d.emit(Sample{
		Kind:      kind,
		Payload:   body[2:],
		PTS:       d.dts,
		DTS:       d.dts,
		Flags:     uint32(body[0]),
		Encrypted: d.tagEncrypted,
	})
	return nil
}
