// If you are AI: This file decodes one fully buffered AVC video tag body into samples.
// It reconciles timestamps from the composition offset and applies the skip/seek controls.

package flv

// decodeVideo emits VideoParameters or VideoPacket for one video tag body.
func (d *Demuxer) decodeVideo(body []byte) error {
	if len(body) < 5 {
		return decodeError("video tag of %d bytes is too small", len(body))
	}

	frameType := body[0] >> 4
	codecID := body[0] & 0x0f
	if codecID != VideoCodecAVC {
		return decodeError("unsupported video codec %d", codecID)
	}
	if frameType == VideoFrameInfoCommand {
		return nil
	}

	packetType := body[1]
	cts := compositionOffset(body[2:5])
	d.pts = d.dts + int64(cts)
	if cts < 0 {
		if !d.wrongDTS {
			d.wrongDTS = true
			d.log.Warn().Int32("cts", cts).Int64("dts", d.dts).Msg("negative composition offset, dts may be wrong")
		}
	} else if abs64(d.dts-d.pts) > maxTimestampSkew {
		d.dts = NoTimestamp
		d.pts = NoTimestamp
	}

	if len(body) == 5 {
		return nil
	}
	payload := body[5:]

	switch packetType {
	case AVCPacketTypeSequenceHeader:
		if d.skipFrames {
			return nil
		}
		d.emit(Sample{
			Kind:      SampleVideoParameters,
			Payload:   payload,
			PTS:       d.pts,
			DTS:       d.dts,
			Flags:     uint32(codecID),
			Encrypted: d.tagEncrypted,
		})
	case AVCPacketTypeNALU:
		d.frameCount++
		if d.skipFrames {
			return nil
		}
		keyframe := IsVideoKeyframe(body)
		if d.seekToNextKeyframe {
			if !keyframe {
				return nil
			}
			d.seekToNextKeyframe = false
			d.log.Debug().Uint64("frame", d.frameCount).Msg("keyframe reached, seek complete")
		}
		var flags uint32
		if keyframe {
			flags = FlagKeyframe
		}
		d.emit(Sample{
			Kind:      SampleVideoPacket,
			Payload:   payload,
			PTS:       d.pts,
			DTS:       d.dts,
			Flags:     flags,
			Encrypted: d.tagEncrypted,
		})
	case AVCPacketTypeEndOfSequence:
		return nil
	default:
		return decodeError("unknown avc packet type %d", packetType)
	}
	return nil
}

// compositionOffset sign-extends a big-endian 24-bit value.
func compositionOffset(b []byte) int32 {
	v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	return v << 8 >> 8
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
