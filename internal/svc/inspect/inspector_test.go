// If you are AI: This file contains tests for the Inspector.

package inspect

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"flvstream/internal/core/bus"
	"flvstream/internal/core/protocol/flv"
)

func publish(stream *bus.Stream, typ bus.MessageType, pts int64, keyframe bool, payload []byte) {
	msg := bus.AcquireMessage()
	msg.Type = typ
	msg.PTS = pts
	msg.DTS = pts
	msg.Keyframe = keyframe
	if typ == bus.MessageTypeMediaFlags {
		msg.Flags = flv.FileFlagAudio | flv.FileFlagVideo
	}
	if payload != nil {
		msg.SetPayload(payload)
	}
	stream.Publish(msg)
	msg.Release()
}

func TestInspectorObserves(t *testing.T) {
	registry := bus.NewRegistry()
	insp := New(registry, []string{"cam1"}, 64, zerolog.Nop())
	stream := registry.Get("cam1")
	if stream == nil || stream.SubscriberCount() != 1 {
		t.Fatal("Inspector should subscribe to its stream")
	}

	publish(stream, bus.MessageTypeMediaFlags, flv.NoTimestamp, false, nil)
	publish(stream, bus.MessageTypeVideoConfig, 0, false, []byte{
		0x01, 0x64, 0x00, 0x1f, 0xff, 0xe1, 0x00, 0x02, 0x67, 0x64, 0x01, 0x00, 0x02, 0x68, 0xee,
	})
	publish(stream, bus.MessageTypeAudioConfig, 0, false, []byte{0x12, 0x10})
	publish(stream, bus.MessageTypeVideo, 40, true, []byte{1})
	publish(stream, bus.MessageTypeVideo, 80, false, []byte{2})
	publish(stream, bus.MessageTypeAudio, 46, false, []byte{3})

	if n := insp.Poll(); n != 6 {
		t.Fatalf("Expected 6 messages polled, got %d", n)
	}

	info, ok := insp.Info("cam1")
	if !ok {
		t.Fatal("Info should exist for watched source")
	}
	if !info.HasAudio || !info.HasVideo {
		t.Error("Media flags not applied")
	}
	if info.Video == nil || info.Video.Codec != "avc1.64001f" || info.Video.SPSCount != 1 {
		t.Errorf("Unexpected video info %+v", info.Video)
	}
	if info.Audio == nil || info.Audio.SampleRate != 44100 || info.Audio.Profile != "AAC-LC" {
		t.Errorf("Unexpected audio info %+v", info.Audio)
	}
	if info.VideoPackets != 2 || info.Keyframes != 1 || info.AudioPackets != 1 {
		t.Errorf("Unexpected counters %+v", info)
	}
	if info.LastVideoPTS != 80 || info.LastAudioPTS != 46 {
		t.Errorf("Unexpected last pts %d/%d", info.LastVideoPTS, info.LastAudioPTS)
	}

	if _, ok := insp.Info("missing"); ok {
		t.Error("Info should report unknown sources")
	}
}

func TestInspectorCountsBadConfig(t *testing.T) {
	registry := bus.NewRegistry()
	insp := New(registry, []string{"cam1"}, 8, zerolog.Nop())
	stream := registry.Get("cam1")

	publish(stream, bus.MessageTypeVideoConfig, 0, false, []byte{2, 0, 0})
	publish(stream, bus.MessageTypeAudioConfig, 0, false, []byte{0x0a, 0x10})
	insp.Poll()

	info, _ := insp.Info("cam1")
	if info.ConfigErrors != 2 || info.Video != nil || info.Audio != nil {
		t.Errorf("Expected 2 config errors and no codec info, got %+v", info)
	}
}

func TestInspectorRunDetaches(t *testing.T) {
	registry := bus.NewRegistry()
	insp := New(registry, []string{"cam1"}, 8, zerolog.Nop())
	stream := registry.Get("cam1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- insp.Run(ctx, time.Millisecond) }()

	publish(stream, bus.MessageTypeVideo, 40, true, []byte{1})
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	if stream.SubscriberCount() != 0 {
		t.Error("Run should detach its subscriber on exit")
	}
	if info, _ := insp.Info("cam1"); info.VideoPackets != 1 {
		t.Errorf("Final poll should observe the packet, got %d", info.VideoPackets)
	}
}
