package wire

import (
	"encoding/binary"
	"math"
)

// Size constants for fixed-width primitives.
const (
	Fixed32Size = 4
	Fixed64Size = 8
	Float32Size = 4
	Float64Size = 8
)

// AppendFixed32 appends a 32-bit value in little-endian order.
func AppendFixed32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// AppendFixed64 appends a 64-bit value in little-endian order.
func AppendFixed64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
	)
}

// DecodeFixed32 decodes a little-endian 32-bit value.
func DecodeFixed32(data []byte) (uint32, error) {
	if len(data) < Fixed32Size {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint32(data), nil
}

// DecodeFixed64 decodes a little-endian 64-bit value.
func DecodeFixed64(data []byte) (uint64, error) {
	if len(data) < Fixed64Size {
		return 0, ErrTruncated
	}
	return binary.LittleEndian.Uint64(data), nil
}

// PutFixed32 writes a 32-bit value in little-endian order into buf, which
// must have at least Fixed32Size bytes of capacity.
func PutFixed32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// PutFixed64 writes a 64-bit value in little-endian order into buf, which
// must have at least Fixed64Size bytes of capacity.
func PutFixed64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// AppendFloat32 appends a float32 in little-endian IEEE-754 format.
func AppendFloat32(buf []byte, v float32) []byte {
	return AppendFixed32(buf, math.Float32bits(v))
}

// DecodeFloat32 decodes a float32 from little-endian IEEE-754 bytes.
func DecodeFloat32(data []byte) (float32, error) {
	bits, err := DecodeFixed32(data)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// AppendFloat64 appends a float64 in little-endian IEEE-754 format.
func AppendFloat64(buf []byte, v float64) []byte {
	return AppendFixed64(buf, math.Float64bits(v))
}

// DecodeFloat64 decodes a float64 from little-endian IEEE-754 bytes.
func DecodeFloat64(data []byte) (float64, error) {
	bits, err := DecodeFixed64(data)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
