// If you are AI: This file implements AMF0 decoding for FLV script data tags.
// A script tag body is a name string (e.g. "onMetaData") followed by one value.

package amf0

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var (
	ErrUnexpectedType = errors.New("unexpected AMF0 type")
	ErrInvalidData    = errors.New("invalid AMF0 data")
	ErrTooDeep        = errors.New("AMF0 value nested too deeply")
)

// Decode reads and decodes a single AMF0 value from the reader.
func Decode(r io.Reader) (Value, error) {
	return decodeValue(r, 0)
}

// DecodeString reads an AMF0 string value.
func DecodeString(r io.Reader) (string, error) {
	marker, err := readByte(r)
	if err != nil {
		return "", err
	}
	if marker != TypeString {
		return "", ErrUnexpectedType
	}
	return decodeString(r)
}

// DecodeScriptData decodes an FLV script tag body into its name and value.
// Metadata values (onMetaData) decode to an Object.
func DecodeScriptData(r io.Reader) (string, Value, error) {
	name, err := DecodeString(r)
	if err != nil {
		return "", nil, err
	}
	value, err := Decode(r)
	if err != nil {
		return name, nil, err
	}
	return name, value, nil
}

// decodeValue decodes one value, tracking nesting depth.
func decodeValue(r io.Reader, depth int) (Value, error) {
	if depth > maxDepth {
		return nil, ErrTooDeep
	}
	marker, err := readByte(r)
	if err != nil {
		return nil, err
	}

	switch marker {
	case TypeNumber:
		return decodeNumber(r)
	case TypeBoolean:
		b, err := readByte(r)
		return b != 0, err
	case TypeString:
		return decodeString(r)
	case TypeLongString:
		return decodeLongString(r)
	case TypeNull, TypeUndefined:
		return nil, nil
	case TypeObject:
		return decodeObject(r, depth)
	case TypeECMAArray:
		// The count is advisory; entries end with the object end marker
		var count uint32
		if err := binary.Read(r, binary.BigEndian, &count); err != nil {
			return nil, err
		}
		return decodeObject(r, depth)
	case TypeStrictArray:
		return decodeStrictArray(r, depth)
	case TypeDate:
		// Milliseconds since epoch followed by a 16-bit timezone
		ms, err := decodeNumber(r)
		if err != nil {
			return nil, err
		}
		var tz uint16
		if err := binary.Read(r, binary.BigEndian, &tz); err != nil {
			return nil, err
		}
		return ms, nil
	default:
		return nil, ErrUnexpectedType
	}
}

// decodeNumber decodes an AMF0 number (double precision float64).
func decodeNumber(r io.Reader) (float64, error) {
	var bits uint64
	if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// decodeString decodes an AMF0 string (16-bit length).
func decodeString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	return readString(r, int(length))
}

// decodeLongString decodes an AMF0 long string (32-bit length).
func decodeLongString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	return readString(r, int(length))
}

// decodeObject decodes key-value pairs up to the object end marker.
func decodeObject(r io.Reader, depth int) (Object, error) {
	obj := make(Object)
	for {
		key, err := decodeString(r)
		if err != nil {
			return nil, err
		}
		if key == "" {
			end, err := readByte(r)
			if err != nil {
				return nil, err
			}
			if end != TypeObjectEnd {
				return nil, ErrInvalidData
			}
			return obj, nil
		}
		value, err := decodeValue(r, depth+1)
		if err != nil {
			return nil, err
		}
		obj[key] = value
	}
}

// decodeStrictArray decodes a counted list of values.
func decodeStrictArray(r io.Reader, depth int) (Array, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	arr := make(Array, 0, min(int(count), 64))
	for i := uint32(0); i < count; i++ {
		value, err := decodeValue(r, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
	return arr, nil
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readString(r io.Reader, length int) (string, error) {
	if length == 0 {
		return "", nil
	}
	if lr, ok := r.(interface{ Len() int }); ok && length > lr.Len() {
		return "", io.ErrUnexpectedEOF
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
