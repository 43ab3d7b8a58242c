// If you are AI: This file implements the ingest Task: one configured source read into a fresh
// Demuxer per session and published onto the bus. Only the Run goroutine touches the Demuxer;
// controls from other goroutines are queued and applied between Feed calls.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"flvstream/internal/config"
	"flvstream/internal/core/bus"
	"flvstream/internal/core/protocol/flv"
)

var (
	// ErrStreamBusy is returned when another session already publishes the stream.
	ErrStreamBusy = errors.New("stream already has a publisher")
	// ErrControlQueueFull is returned when controls arrive faster than the task applies them.
	ErrControlQueueFull = errors.New("control queue full")
	// ErrSourceStopped is returned for controls sent after Run has returned.
	ErrSourceStopped = errors.New("source is not running")
)

const controlQueueSize = 16

type controlKind uint8

const (
	controlSeek controlKind = iota + 1
	controlSkip
)

type control struct {
	kind    controlKind
	enabled bool
}

// Info is a point-in-time view of a task.
type Info struct {
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	Running    bool              `json:"running"`
	Session    string            `json:"session,omitempty"`
	Sessions   int               `json:"sessions"`
	BytesRead  int64             `json:"bytes_read"`
	Samples    map[string]uint64 `json:"samples"`
	FrameCount uint64            `json:"frame_count"`
	WrongDTS   bool              `json:"wrong_dts"`
	State      string            `json:"state"`
	SkipFrames bool              `json:"skip_frames"`
	Seeking    bool              `json:"seeking"`
	LastError  string            `json:"last_error,omitempty"`
}

// Task ingests one source.
type Task struct {
	cfg      config.SourceConfig
	demux    config.DemuxConfig
	registry *bus.Registry
	client   *http.Client
	log      zerolog.Logger
	controls chan control

	mu      sync.Mutex
	info    Info
	stopped bool
}

// NewTask creates a task for one source. It does nothing until Run.
func NewTask(cfg config.SourceConfig, demux config.DemuxConfig, registry *bus.Registry, client *http.Client, log zerolog.Logger) *Task {
	if client == nil {
		client = &http.Client{}
	}
	return &Task{
		cfg:      cfg,
		demux:    demux,
		registry: registry,
		client:   client,
		log:      log.With().Str("source", cfg.Name).Logger(),
		controls: make(chan control, controlQueueSize),
		info: Info{
			Name:       cfg.Name,
			URL:        cfg.URL,
			Samples:    make(map[string]uint64),
			State:      flv.ReadStateInit.String(),
			SkipFrames: cfg.SkipFrames,
		},
	}
}

// Name returns the source name.
func (t *Task) Name() string {
	return t.cfg.Name
}

// Run ingests sessions until ctx is cancelled, the source ends without
// reconnect, or a session fails without reconnect.
func (t *Task) Run(ctx context.Context) error {
	defer t.stop()
	for {
		err := t.runSession(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			t.log.Warn().Err(err).Msg("session ended with error")
			t.setError(err)
		} else {
			t.log.Info().Msg("session ended")
		}
		if !t.cfg.Reconnect {
			return err
		}

		select {
		case <-time.After(t.cfg.ReconnectDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

// SeekToNextKeyframe asks the running session to drop media until the next keyframe.
func (t *Task) SeekToNextKeyframe() error {
	return t.enqueue(control{kind: controlSeek})
}

// SetSkipFrames toggles frame emission for this and later sessions.
func (t *Task) SetSkipFrames(enabled bool) error {
	return t.enqueue(control{kind: controlSkip, enabled: enabled})
}

func (t *Task) enqueue(c control) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return ErrSourceStopped
	}
	select {
	case t.controls <- c:
		return nil
	default:
		return ErrControlQueueFull
	}
}

// stop rejects further controls and discards queued ones.
func (t *Task) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for {
		select {
		case <-t.controls:
		default:
			return
		}
	}
}

// Info returns a snapshot of the task state.
func (t *Task) Info() Info {
	t.mu.Lock()
	defer t.mu.Unlock()

	info := t.info
	info.Samples = make(map[string]uint64, len(t.info.Samples))
	for k, v := range t.info.Samples {
		info.Samples[k] = v
	}
	return info
}

func (t *Task) runSession(ctx context.Context) error {
	id := uuid.NewString()
	log := t.log.With().Str("session", id).Logger()

	r, err := Open(ctx, t.client, t.cfg.URL)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer r.Close()

	stream, _ := t.registry.GetOrCreate(t.cfg.Name)
	if !stream.AttachPublisher(id) {
		return fmt.Errorf("%w: %s", ErrStreamBusy, stream.Publisher())
	}
	defer stream.DetachPublisher(id)

	s := &session{stream: stream}
	d := flv.NewDemuxer(s, flv.WithCacheSize(t.demux.CacheSize), flv.WithLogger(log))
	defer d.Close()

	t.mu.Lock()
	d.SetSkipFrames(t.info.SkipFrames)
	t.info.Running = true
	t.info.Session = id
	t.info.Sessions++
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.info.Running = false
		t.mu.Unlock()
	}()

	log.Info().Str("url", t.cfg.URL).Msg("session started")

	buf := make([]byte, t.demux.ReadChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.applyControls(d)

		n, readErr := r.Read(buf)
		if n > 0 {
			feedErr := d.Feed(buf[:n])
			t.record(d, s, n)
			if feedErr != nil {
				return fmt.Errorf("demux: %w", feedErr)
			}
			if !d.Running() {
				return nil
			}
		}
		if errors.Is(readErr, io.EOF) {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read source: %w", readErr)
		}
	}
}

// applyControls drains queued controls into the demuxer.
func (t *Task) applyControls(d *flv.Demuxer) {
	for {
		select {
		case c := <-t.controls:
			switch c.kind {
			case controlSeek:
				d.SeekToNextKeyframe()
				t.log.Debug().Msg("seeking to next keyframe")
			case controlSkip:
				d.SetSkipFrames(c.enabled)
				t.mu.Lock()
				t.info.SkipFrames = c.enabled
				t.mu.Unlock()
				t.log.Debug().Bool("enabled", c.enabled).Msg("skip frames toggled")
			}
		default:
			return
		}
	}
}

// record copies demuxer and session counters into the snapshot.
func (t *Task) record(d *flv.Demuxer, s *session, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.info.BytesRead += int64(n)
	t.info.FrameCount = d.FrameCount()
	t.info.WrongDTS = d.WrongDTS()
	t.info.State = d.State().String()
	t.info.Seeking = d.SeekingKeyframe()
	for kind, count := range s.counts {
		if count > 0 {
			t.info.Samples[flv.SampleKind(kind).String()] += count
			s.counts[kind] = 0
		}
	}
}

func (t *Task) setError(err error) {
	t.mu.Lock()
	t.info.LastError = err.Error()
	t.mu.Unlock()
}

// session converts demuxer samples into bus messages.
type session struct {
	stream *bus.Stream
	counts [6]uint64 // indexed by SampleKind
}

// HandleSample copies the borrowed payload into a pooled message and publishes it.
func (s *session) HandleSample(sample flv.Sample) {
	msg := bus.AcquireMessage()
	msg.Type = messageType(sample.Kind)
	msg.PTS = sample.PTS
	msg.DTS = sample.DTS
	msg.Flags = sample.Flags
	msg.Keyframe = sample.IsKeyframe()
	msg.Encrypted = sample.Encrypted
	if len(sample.Payload) > 0 {
		msg.SetPayload(sample.Payload)
	}
	s.stream.Publish(msg)
	msg.Release()

	if int(sample.Kind) < len(s.counts) {
		s.counts[sample.Kind]++
	}
}

func messageType(kind flv.SampleKind) bus.MessageType {
	switch kind {
	case flv.SampleMediaFlags:
		return bus.MessageTypeMediaFlags
	case flv.SampleVideoParameters:
		return bus.MessageTypeVideoConfig
	case flv.SampleVideoPacket:
		return bus.MessageTypeVideo
	case flv.SampleAudioParameters:
		return bus.MessageTypeAudioConfig
	case flv.SampleAudioPacket:
		return bus.MessageTypeAudio
	default:
		return 0
	}
}
