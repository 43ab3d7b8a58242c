// If you are AI: This file contains unit tests for the AAC and AVC configuration record parsers.

package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseAudioSpecificConfig(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want AudioConfig
	}{
		{"lc 44.1k stereo", []byte{0x12, 0x10}, AudioConfig{ObjectType: 2, SampleRate: 44100, Channels: 2, SamplesPerFrame: 1024}},
		{"lc 48k mono 960", []byte{0x11, 0x8c}, AudioConfig{ObjectType: 2, SampleRate: 48000, Channels: 1, SamplesPerFrame: 960}},
		{"he-aac 24k stereo", []byte{0x2b, 0x10}, AudioConfig{ObjectType: 5, SampleRate: 24000, Channels: 2, SamplesPerFrame: 1024}},
		{"explicit frequency", []byte{0x17, 0x80, 0x01, 0xf4, 0x10}, AudioConfig{ObjectType: 2, SampleRate: 1000, Channels: 2, SamplesPerFrame: 1024}},
		{"implicit sbr stereo", []byte{0x13, 0x90}, AudioConfig{ObjectType: 5, SampleRate: 44100, Channels: 2, SamplesPerFrame: 2048, ImplicitSBR: true}},
		{"implicit sbr mono is ps", []byte{0x13, 0x88}, AudioConfig{ObjectType: 29, SampleRate: 44100, Channels: 2, SamplesPerFrame: 2048, ImplicitSBR: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAudioSpecificConfig(tt.data)
			if err != nil {
				t.Fatalf("ParseAudioSpecificConfig failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseAudioSpecificConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte{0x12}, ErrShortConfig},
		{"aac main", []byte{0x0a, 0x10}, ErrUnsupportedObjectType},
		{"escaped object type", []byte{0xf8, 0x00, 0x00}, ErrUnsupportedObjectType},
		{"reserved frequency", []byte{0x16, 0x90}, ErrInvalidSampleRate},
		{"truncated explicit frequency", []byte{0x17, 0x80, 0x03}, ErrShortConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAudioSpecificConfig(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAudioConfigProfile(t *testing.T) {
	if got := (AudioConfig{ObjectType: ObjectTypePS}).Profile(); got != "HE-AACv2" {
		t.Errorf("Expected HE-AACv2, got %s", got)
	}
}

func avcRecord() []byte {
	return []byte{
		0x01, 0x64, 0x00, 0x1f, 0xff, 0xe1,
		0x00, 0x04, 0x67, 0x64, 0x00, 0x1f,
		0x01,
		0x00, 0x03, 0x68, 0xee, 0x3c,
	}
}

func TestParseAVCDecoderConfigurationRecord(t *testing.T) {
	cfg, err := ParseAVCDecoderConfigurationRecord(avcRecord())
	if err != nil {
		t.Fatalf("ParseAVCDecoderConfigurationRecord failed: %v", err)
	}

	if cfg.Profile != 0x64 || cfg.Level != 0x1f {
		t.Errorf("Expected profile 100 level 31, got %d/%d", cfg.Profile, cfg.Level)
	}
	if cfg.NALULengthSize != 4 {
		t.Errorf("Expected NALU length size 4, got %d", cfg.NALULengthSize)
	}
	if len(cfg.SPS) != 1 || !bytes.Equal(cfg.SPS[0], []byte{0x67, 0x64, 0x00, 0x1f}) {
		t.Errorf("Unexpected SPS %x", cfg.SPS)
	}
	if len(cfg.PPS) != 1 || !bytes.Equal(cfg.PPS[0], []byte{0x68, 0xee, 0x3c}) {
		t.Errorf("Unexpected PPS %x", cfg.PPS)
	}
	if cfg.Codec() != "avc1.64001f" {
		t.Errorf("Expected codec avc1.64001f, got %s", cfg.Codec())
	}
}

func TestParseAVCDecoderConfigurationRecordErrors(t *testing.T) {
	valid := avcRecord()

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), valid...))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"too short", valid[:6]},
		{"bad version", mutate(func(b []byte) []byte { b[0] = 2; return b })},
		{"reserved bits", mutate(func(b []byte) []byte { b[4] = 0x03; return b })},
		{"sps overruns", mutate(func(b []byte) []byte { b[7] = 0x40; return b })},
		{"pps truncated", valid[:len(valid)-1]},
		{"missing pps count", valid[:12]},
		{"no sps", []byte{0x01, 0x64, 0x00, 0x1f, 0xff, 0xe0, 0x01, 0x00, 0x01, 0x68}},
		{"no pps", append(append([]byte(nil), valid[:12]...), 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAVCDecoderConfigurationRecord(tt.data)
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("Expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}
