// If you are AI: This file implements the resumable parse state machine.
// Each state is a point where parsing may suspend for lack of data. A state that
// cannot get its bytes returns parseSuspended without moving the cache cursor, and
// the next pass re-enters the same state. Values read by a state that later states
// need live on the Demuxer, never on the stack.

package flv

import (
	"bytes"

	"flvstream/internal/core/protocol/amf0"
)

// parseState is the resume label of the state machine.
type parseState uint8

const (
	stateProbe parseState = iota
	stateHeaderFlags
	stateHeaderSize
	stateHeaderSkip
	statePreTag
	stateTagType
	stateTagSize
	stateTagSkip
	stateTagTimestamp
	stateTagStreamID
	stateTagBody
	stateTagTrailer
	stateDone
)

// parseResult is the outcome of one parse pass.
type parseResult uint8

const (
	parseSuspended parseResult = iota
	parseFailed
	parseDone
)

// parse runs the state machine until it suspends, fails or finishes.
func (d *Demuxer) parse() (parseResult, error) {
	c := d.cache
	for {
		switch d.resume {
		case stateProbe:
			d.readState = ReadStateProbe
			if !c.need(4) {
				return parseSuspended, nil
			}
			sig := c.peek(4)
			if !bytes.Equal(sig[:3], []byte(FLVSignature)) {
				d.log.Debug().Hex("head", sig).Msg("no flv signature")
				return parseFailed, formatError(d.readState, "bad signature")
			}
			if sig[3] != FLVVersion {
				return parseFailed, formatError(d.readState, "unsupported version")
			}
			c.discard(4)
			d.resume = stateHeaderFlags

		case stateHeaderFlags:
			d.readState = ReadStateHeader
			if !c.need(1) {
				return parseSuspended, nil
			}
			d.fileFlags = c.u8()
			d.log.Debug().
				Bool("audio", d.HasAudio()).
				Bool("video", d.HasVideo()).
				Msg("file flags read")
			d.resume = stateHeaderSize
			d.emit(Sample{
				Kind:  SampleMediaFlags,
				PTS:   NoTimestamp,
				DTS:   NoTimestamp,
				Flags: uint32(d.fileFlags),
			})

		case stateHeaderSize:
			if !c.need(4) {
				return parseSuspended, nil
			}
			d.headerSize = c.u32()
			if d.headerSize < FLVHeaderSize {
				return parseFailed, formatError(d.readState, "header size less than 9")
			}
			d.skipRemaining = int64(d.headerSize) - FLVHeaderSize
			d.resume = stateHeaderSkip

		case stateHeaderSkip:
			d.skipRemaining -= c.discard(d.skipRemaining)
			if d.skipRemaining > 0 {
				return parseSuspended, nil
			}
			d.resume = statePreTag

		case statePreTag:
			d.readState = ReadStatePreTag
			if !c.need(4) {
				return parseSuspended, nil
			}
			if c.u32() != 0 {
				return parseFailed, formatError(d.readState, "prev tag size not zero")
			}
			d.resume = stateTagType

		case stateTagType:
			if !d.running {
				d.resume = stateDone
				continue
			}
			d.readState = ReadStateNewTag
			if !c.need(1) {
				return parseSuspended, nil
			}
			t := c.u8()
			if t&tagTypeReservedMask != 0 {
				return parseFailed, formatError(d.readState, "reserved bits set")
			}
			d.tagEncrypted = t&tagTypeEncrypted != 0
			d.tagType = t & tagTypeKindMask
			d.resume = stateTagSize

		case stateTagSize:
			if !c.need(3) {
				return parseSuspended, nil
			}
			d.tagSize = c.u24()
			switch d.tagType {
			case TagTypeAudio, TagTypeVideo, TagTypeScript:
				d.resume = stateTagTimestamp
			default:
				d.log.Debug().Uint8("tag_type", d.tagType).Uint32("tag_size", d.tagSize).Msg("skipping unsupported tag")
				d.skipRemaining = int64(d.tagSize) + TagHeaderSize - 4 + PreviousTagSizeLength
				d.resume = stateTagSkip
			}

		case stateTagSkip:
			d.skipRemaining -= c.discard(d.skipRemaining)
			if d.skipRemaining > 0 {
				return parseSuspended, nil
			}
			d.resume = stateTagType

		case stateTagTimestamp:
			d.readState = ReadStateTagHeader
			if !c.need(4) {
				return parseSuspended, nil
			}
			ts := c.u24()
			ts |= uint32(c.u8()) << 24
			d.dts = int64(ts)
			d.resume = stateTagStreamID

		case stateTagStreamID:
			if !c.need(3) {
				return parseSuspended, nil
			}
			if id := c.u24(); id != 0 {
				d.log.Warn().Uint32("stream_id", id).Msg("stream id is not zero")
			}
			d.resume = stateTagBody

		case stateTagBody:
			d.readState = ReadStateTagBody
			if !c.need(int(d.tagSize)) {
				return parseSuspended, nil
			}
			d.tagStart = c.pos
			d.tagPos = c.absolute(c.pos)
			d.dispatchTag(c.peek(int(d.tagSize)))
			c.pos = d.tagStart + int(d.tagSize)
			d.resume = stateTagTrailer

		case stateTagTrailer:
			if !c.need(PreviousTagSizeLength) {
				return parseSuspended, nil
			}
			if prev := c.u32(); prev != TagHeaderSize+d.tagSize {
				d.log.Warn().
					Uint32("prev_tag_size", prev).
					Uint32("expected", TagHeaderSize+d.tagSize).
					Int64("tag_offset", d.tagPos).
					Msg("invalid previous tag size")
			}
			d.resume = stateTagType

		case stateDone:
			return parseDone, nil
		}
	}
}

// dispatchTag hands a fully buffered tag body to its decoder.
// Decoder failures are logged and never stop the state machine.
func (d *Demuxer) dispatchTag(body []byte) {
	var err error
	switch d.tagType {
	case TagTypeAudio:
		err = d.decodeAudio(body)
	case TagTypeVideo:
		err = d.decodeVideo(body)
	case TagTypeScript:
		ev := d.log.Warn().Uint32("tag_size", d.tagSize)
		if ev.Enabled() {
			if name, value, scriptErr := amf0.DecodeScriptData(bytes.NewReader(body)); scriptErr == nil {
				ev = ev.Str("name", name)
				if meta, ok := value.(amf0.Object); ok {
					ev = ev.Int("fields", len(meta))
				}
			}
		}
		ev.Msg("skipping script data")
	}
	if err != nil {
		d.log.Warn().Err(err).
			Uint8("tag_type", d.tagType).
			Int64("tag_offset", d.tagPos).
			Msg("tag decode failed")
	}
}
