// If you are AI: This file parses the MPEG-4 AudioSpecificConfig carried by AAC sequence headers.
// Only the leading fields needed to describe the stream are decoded.

package codec

import (
	"errors"
	"fmt"

	"flvstream/internal/core/bitstream"
)

var (
	ErrUnsupportedObjectType = errors.New("unsupported audio object type")
	ErrInvalidSampleRate     = errors.New("invalid sampling frequency index")
	ErrShortConfig           = errors.New("configuration record too short")
)

// Audio object types accepted by ParseAudioSpecificConfig.
const (
	ObjectTypeAACLC = 2
	ObjectTypeSBR   = 5
	ObjectTypePS    = 29
)

// implicitSBRCoreRate is the core sampling rate treated as implicitly signalled SBR.
const implicitSBRCoreRate = 22050

// Sampling frequencies indexed by the 4-bit frequency index; 13 and 14 are reserved.
var sampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000,
	22050, 16000, 12000, 11025, 8000, 7350,
}

// AudioConfig describes an AAC stream.
type AudioConfig struct {
	ObjectType      uint8 `json:"object_type"`
	SampleRate      int   `json:"sample_rate"`
	Channels        int   `json:"channels"`
	SamplesPerFrame int   `json:"samples_per_frame"`
	ImplicitSBR     bool  `json:"implicit_sbr,omitempty"`
}

// Profile returns the marketing name for the object type.
func (c AudioConfig) Profile() string {
	switch c.ObjectType {
	case ObjectTypeAACLC:
		return "AAC-LC"
	case ObjectTypeSBR:
		return "HE-AAC"
	case ObjectTypePS:
		return "HE-AACv2"
	default:
		return "unknown"
	}
}

// ParseAudioSpecificConfig decodes the object type, sampling rate, channel
// configuration and frame length of an AudioSpecificConfig.
func ParseAudioSpecificConfig(data []byte) (AudioConfig, error) {
	var cfg AudioConfig
	if len(data) < 2 {
		return cfg, fmt.Errorf("%w: %d bytes", ErrShortConfig, len(data))
	}
	r := bitstream.NewReader(data)

	objectType := r.ReadUint(5)
	if objectType == 31 {
		objectType = 32 + r.ReadUint(6)
	}
	switch objectType {
	case ObjectTypeAACLC, ObjectTypeSBR, ObjectTypePS:
	default:
		return cfg, fmt.Errorf("%w: %d", ErrUnsupportedObjectType, objectType)
	}
	cfg.ObjectType = uint8(objectType)

	index := r.ReadUint(4)
	switch {
	case index == 15:
		if r.BitsLeft() < 24+4+1 {
			return cfg, fmt.Errorf("%w: explicit frequency truncated", ErrShortConfig)
		}
		cfg.SampleRate = int(r.ReadUint(24))
	case int(index) < len(sampleRates):
		cfg.SampleRate = sampleRates[index]
	default:
		return cfg, fmt.Errorf("%w: %d", ErrInvalidSampleRate, index)
	}

	cfg.Channels = int(r.ReadUint(4))

	cfg.SamplesPerFrame = 1024
	if r.ReadBit() == 1 {
		cfg.SamplesPerFrame = 960
	}

	// A 22050 Hz core is signalled SBR: output runs at twice the rate, and a
	// mono core carries parametric stereo.
	if cfg.SampleRate == implicitSBRCoreRate {
		cfg.ImplicitSBR = true
		cfg.SampleRate *= 2
		cfg.SamplesPerFrame *= 2
		if cfg.Channels == 1 {
			cfg.Channels = 2
			cfg.ObjectType = ObjectTypePS
		} else {
			cfg.ObjectType = ObjectTypeSBR
		}
	}
	return cfg, nil
}
