// If you are AI: This file parses the AVCDecoderConfigurationRecord carried by AVC sequence headers.
// Every length is checked against the record before slicing.

package codec

import (
	"errors"
	"fmt"
)

var ErrInvalidRecord = errors.New("invalid AVC decoder configuration record")

// AVCConfig is a decoded AVCDecoderConfigurationRecord.
// SPS and PPS alias the input record.
type AVCConfig struct {
	Version        uint8
	Profile        uint8
	Compatibility  uint8
	Level          uint8
	NALULengthSize int
	SPS            [][]byte
	PPS            [][]byte
}

// Codec returns the RFC 6381 codec string, e.g. "avc1.64001f".
func (c AVCConfig) Codec() string {
	return fmt.Sprintf("avc1.%02x%02x%02x", c.Profile, c.Compatibility, c.Level)
}

// ParseAVCDecoderConfigurationRecord decodes the record header and every
// parameter set. At least one SPS and one PPS are required.
func ParseAVCDecoderConfigurationRecord(data []byte) (AVCConfig, error) {
	var cfg AVCConfig
	if len(data) < 7 {
		return cfg, fmt.Errorf("%w: %d bytes", ErrInvalidRecord, len(data))
	}
	if data[0] != 1 {
		return cfg, fmt.Errorf("%w: version %d", ErrInvalidRecord, data[0])
	}
	if data[4]&0xfc != 0xfc || data[5]&0xe0 != 0xe0 {
		return cfg, fmt.Errorf("%w: reserved bits not set", ErrInvalidRecord)
	}

	cfg.Version = data[0]
	cfg.Profile = data[1]
	cfg.Compatibility = data[2]
	cfg.Level = data[3]
	cfg.NALULengthSize = int(data[4]&0x03) + 1

	pos := 5
	sets, pos, err := readParameterSets(data, pos, int(data[pos]&0x1f))
	if err != nil {
		return cfg, fmt.Errorf("sps: %w", err)
	}
	cfg.SPS = sets

	if pos >= len(data) {
		return cfg, fmt.Errorf("%w: missing pps count", ErrInvalidRecord)
	}
	sets, _, err = readParameterSets(data, pos, int(data[pos]))
	if err != nil {
		return cfg, fmt.Errorf("pps: %w", err)
	}
	cfg.PPS = sets

	if len(cfg.SPS) == 0 || len(cfg.PPS) == 0 {
		return cfg, fmt.Errorf("%w: %d sps, %d pps", ErrInvalidRecord, len(cfg.SPS), len(cfg.PPS))
	}
	return cfg, nil
}

// readParameterSets reads count 16-bit length-prefixed units after the count byte at pos.
func readParameterSets(data []byte, pos, count int) ([][]byte, int, error) {
	pos++
	sets := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		if pos+2 > len(data) {
			return nil, pos, fmt.Errorf("%w: truncated length", ErrInvalidRecord)
		}
		n := int(data[pos])<<8 | int(data[pos+1])
		pos += 2
		if pos+n > len(data) {
			return nil, pos, fmt.Errorf("%w: unit of %d bytes overruns record", ErrInvalidRecord, n)
		}
		sets = append(sets, data[pos:pos+n])
		pos += n
	}
	return sets, pos, nil
}
