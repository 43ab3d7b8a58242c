// If you are AI: This file implements the Demuxer: its state, construction, controls and the Feed loop.
// Feed appends input to the stream cache, runs one parse pass, compacts and repeats.
// The Demuxer is not safe for concurrent use; callers serialize every method call.

package flv

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ReadState is the coarse parse phase, reported in errors and logs.
type ReadState uint8

const (
	ReadStateInit ReadState = iota
	ReadStateProbe
	ReadStateHeader
	ReadStatePreTag
	ReadStateNewTag
	ReadStateTagHeader
	ReadStateTagBody
)

// String returns a human-readable name for the state.
func (s ReadState) String() string {
	switch s {
	case ReadStateInit:
		return "init"
	case ReadStateProbe:
		return "probe"
	case ReadStateHeader:
		return "header"
	case ReadStatePreTag:
		return "pre_tag"
	case ReadStateNewTag:
		return "new_tag"
	case ReadStateTagHeader:
		return "tag_header"
	case ReadStateTagBody:
		return "tag_body"
	default:
		return "unknown"
	}
}

// Demuxer incrementally splits an FLV byte stream into samples.
// Lock expectations: none. One goroutine owns the Demuxer.
// Allocation: The cache is allocated once; samples borrow from it.
type Demuxer struct {
	handler SampleHandler
	log     zerolog.Logger

	running bool
	closed  bool

	cache     *streamCache
	resume    parseState
	readState ReadState

	fileFlags  uint8
	headerSize uint32

	dts      int64
	pts      int64
	firstDTS int64 // reserved for origin rebasing; never applied
	wrongDTS bool

	frameCount         uint64
	skipFrames         bool
	seekToNextKeyframe bool

	// current tag, valid between stateTagType and stateTagTrailer
	tagType       uint8
	tagSize       uint32
	tagEncrypted  bool
	tagStart      int
	tagPos        int64
	skipRemaining int64
}

// Option configures a Demuxer.
type Option func(*Demuxer)

// WithCacheSize sets the stream cache capacity in bytes.
// The largest audio or video tag plus its 11-byte header must fit.
func WithCacheSize(size int) Option {
	return func(d *Demuxer) {
		if size > 0 {
			d.cache = newStreamCache(size)
		}
	}
}

// WithLogger sets the logger used for warnings and fatal errors.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Demuxer) {
		d.log = log
	}
}

// NewDemuxer creates a demuxer that delivers samples to h.
func NewDemuxer(h SampleHandler, opts ...Option) *Demuxer {
	d := &Demuxer{
		handler:   h,
		log:       zerolog.Nop(),
		running:   true,
		resume:    stateProbe,
		readState: ReadStateInit,
		dts:       NoTimestamp,
		pts:       NoTimestamp,
		firstDTS:  NoTimestamp,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.cache == nil {
		d.cache = newStreamCache(DefaultCacheSize)
	}
	return d
}

// Feed consumes one chunk of the stream, emitting samples synchronously.
// A nil error means the demuxer can take more input (or finished gracefully).
// Any error is fatal: the demuxer is stopped and later calls fail immediately.
func (d *Demuxer) Feed(data []byte) error {
	if d.closed {
		return ErrClosed
	}
	if !d.running {
		return ErrStopped
	}

	c := d.cache
	for {
		if c.free() == 0 {
			d.running = false
			d.log.Error().Int("cache_size", c.capacity()).Msg("stream cache too small")
			return fmt.Errorf("%w: cache of %d bytes is full (state %s)", ErrCacheOverflow, c.capacity(), d.readState)
		}

		n := c.append(data)

		result, err := d.parse()
		switch result {
		case parseFailed:
			d.running = false
			d.log.Error().Err(err).Int64("offset", c.absolute(c.pos)).Msg("demux failed")
			return err
		case parseDone:
			d.running = false
			d.log.Debug().Msg("demux finished")
			return nil
		}

		if c.pos == 0 && len(data) > n {
			d.running = false
			d.log.Error().Int("cache_size", c.capacity()).Msg("stream cache too small for one tag")
			return fmt.Errorf("%w: tag of %d bytes exceeds cache of %d bytes (state %s)",
				ErrCacheOverflow, d.tagSize, c.capacity(), d.readState)
		}

		c.compact()

		data = data[n:]
		if len(data) == 0 {
			return nil
		}
	}
}

// Close releases the cache. The demuxer must not be fed afterwards.
// Close must not be called from inside HandleSample; use Stop there.
func (d *Demuxer) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.running = false
	d.cache.release()
	d.handler = nil
}

// Stop ends parsing gracefully at the next tag boundary.
// It may be called from inside HandleSample.
func (d *Demuxer) Stop() {
	d.running = false
}

// SeekToNextKeyframe drops audio and video packets until the next keyframe.
func (d *Demuxer) SeekToNextKeyframe() {
	d.seekToNextKeyframe = true
}

// SetSkipFrames toggles parsing without emitting audio or video samples.
func (d *Demuxer) SetSkipFrames(enabled bool) {
	d.skipFrames = enabled
}

// Running returns true while the demuxer accepts input.
func (d *Demuxer) Running() bool {
	return d.running
}

// State returns the current parse phase.
func (d *Demuxer) State() ReadState {
	return d.readState
}

// FileFlags returns the raw header flag byte (zero before the header is parsed).
func (d *Demuxer) FileFlags() uint8 {
	return d.fileFlags
}

// HasAudio reports the header's audio flag.
func (d *Demuxer) HasAudio() bool {
	return d.fileFlags&FileFlagAudio != 0
}

// HasVideo reports the header's video flag.
func (d *Demuxer) HasVideo() bool {
	return d.fileFlags&FileFlagVideo != 0
}

// FrameCount returns the number of video access units parsed so far, emitted or not.
func (d *Demuxer) FrameCount() uint64 {
	return d.frameCount
}

// WrongDTS reports whether a negative composition offset has been seen.
func (d *Demuxer) WrongDTS() bool {
	return d.wrongDTS
}

// SeekingKeyframe reports whether a keyframe seek is pending.
func (d *Demuxer) SeekingKeyframe() bool {
	return d.seekToNextKeyframe
}

// StreamOffsets returns the absolute offsets of the first unreleased byte and the end of input.
func (d *Demuxer) StreamOffsets() (start, end int64) {
	return d.cache.start, d.cache.end
}

// LastTagOffset returns the absolute offset of the most recent tag body.
func (d *Demuxer) LastTagOffset() int64 {
	return d.tagPos
}

// emit delivers one sample to the handler.
func (d *Demuxer) emit(s Sample) {
	if d.handler != nil {
		d.handler.HandleSample(s)
	}
}
