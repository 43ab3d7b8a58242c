// If you are AI: This file implements the Inspector, a bus subscriber per source that decodes
// configuration records and keeps running media statistics. Poll is the only reader of the
// subscriber buffers; Info may be called from any goroutine.

package inspect

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"flvstream/internal/core/bus"
	"flvstream/internal/core/codec"
	"flvstream/internal/core/protocol/flv"
)

// VideoInfo describes the most recent AVC configuration record.
type VideoInfo struct {
	Codec          string `json:"codec"`
	Profile        uint8  `json:"profile"`
	Level          uint8  `json:"level"`
	NALULengthSize int    `json:"nalu_length_size"`
	SPSCount       int    `json:"sps_count"`
	PPSCount       int    `json:"pps_count"`
}

// AudioInfo describes the most recent AudioSpecificConfig.
type AudioInfo struct {
	codec.AudioConfig
	Profile string `json:"profile"`
}

// MediaInfo is the inspected state of one source.
type MediaInfo struct {
	HasAudio     bool       `json:"has_audio"`
	HasVideo     bool       `json:"has_video"`
	Video        *VideoInfo `json:"video,omitempty"`
	Audio        *AudioInfo `json:"audio,omitempty"`
	VideoPackets uint64     `json:"video_packets"`
	Keyframes    uint64     `json:"keyframes"`
	AudioPackets uint64     `json:"audio_packets"`
	Encrypted    uint64     `json:"encrypted"`
	LastVideoPTS int64      `json:"last_video_pts"`
	LastAudioPTS int64      `json:"last_audio_pts"`
	ConfigErrors uint64     `json:"config_errors"`
	Dropped      uint64     `json:"dropped"`
}

type watched struct {
	stream *bus.Stream
	sub    *bus.Subscriber
}

// Inspector watches a fixed set of bus streams.
type Inspector struct {
	log     zerolog.Logger
	watched map[string]watched

	mu    sync.Mutex
	infos map[string]*MediaInfo
}

// New attaches one subscriber per name, creating the streams if needed.
func New(registry *bus.Registry, names []string, buffer uint32, log zerolog.Logger) *Inspector {
	i := &Inspector{
		log:     log,
		watched: make(map[string]watched, len(names)),
		infos:   make(map[string]*MediaInfo, len(names)),
	}
	for _, name := range names {
		name := name
		stream, _ := registry.GetOrCreate(name)
		sub := stream.AttachSubscriber(buffer, bus.BackpressureDropOldest)
		sub.SetMessageHandler(func(m *bus.MediaMessage) {
			i.observe(name, m)
		})
		i.watched[name] = watched{stream: stream, sub: sub}
		i.infos[name] = &MediaInfo{LastVideoPTS: flv.NoTimestamp, LastAudioPTS: flv.NoTimestamp}
	}
	return i
}

// Run polls every interval until ctx is cancelled, then detaches its subscribers.
func (i *Inspector) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer i.detach()

	for {
		select {
		case <-ctx.Done():
			i.Poll()
			return nil
		case <-ticker.C:
			i.Poll()
		}
	}
}

// Poll drains every subscriber once and returns the number of messages handled.
func (i *Inspector) Poll() int {
	total := 0
	for name, w := range i.watched {
		total += w.sub.Process(int(w.sub.Buffer().Len()))
		i.mu.Lock()
		i.infos[name].Dropped = w.sub.Dropped()
		i.mu.Unlock()
	}
	return total
}

// Info returns a snapshot for name.
func (i *Inspector) Info(name string) (MediaInfo, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, ok := i.infos[name]
	if !ok {
		return MediaInfo{}, false
	}
	out := *info
	if info.Video != nil {
		v := *info.Video
		out.Video = &v
	}
	if info.Audio != nil {
		a := *info.Audio
		out.Audio = &a
	}
	return out, true
}

func (i *Inspector) detach() {
	for _, w := range i.watched {
		w.stream.DetachSubscriber(w.sub.ID())
	}
}

func (i *Inspector) observe(name string, m *bus.MediaMessage) {
	i.mu.Lock()
	defer i.mu.Unlock()

	info := i.infos[name]
	if m.Encrypted {
		info.Encrypted++
	}

	switch m.Type {
	case bus.MessageTypeMediaFlags:
		info.HasAudio = m.Flags&flv.FileFlagAudio != 0
		info.HasVideo = m.Flags&flv.FileFlagVideo != 0
	case bus.MessageTypeVideoConfig:
		cfg, err := codec.ParseAVCDecoderConfigurationRecord(m.Payload)
		if err != nil {
			info.ConfigErrors++
			i.log.Warn().Err(err).Str("source", name).Msg("bad video configuration record")
			return
		}
		info.Video = &VideoInfo{
			Codec:          cfg.Codec(),
			Profile:        cfg.Profile,
			Level:          cfg.Level,
			NALULengthSize: cfg.NALULengthSize,
			SPSCount:       len(cfg.SPS),
			PPSCount:       len(cfg.PPS),
		}
		i.log.Info().Str("source", name).Str("codec", info.Video.Codec).Msg("video configuration")
	case bus.MessageTypeAudioConfig:
		cfg, err := codec.ParseAudioSpecificConfig(m.Payload)
		if err != nil {
			info.ConfigErrors++
			i.log.Warn().Err(err).Str("source", name).Msg("bad audio configuration")
			return
		}
		info.Audio = &AudioInfo{AudioConfig: cfg, Profile: cfg.Profile()}
		i.log.Info().
			Str("source", name).
			Str("profile", info.Audio.Profile).
			Int("sample_rate", cfg.SampleRate).
			Int("channels", cfg.Channels).
			Msg("audio configuration")
	case bus.MessageTypeVideo:
		info.VideoPackets++
		if m.Keyframe {
			info.Keyframes++
		}
		info.LastVideoPTS = m.PTS
	case bus.MessageTypeAudio:
		info.AudioPackets++
		info.LastAudioPTS = m.PTS
	}
}
