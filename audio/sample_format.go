// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"

	"github.com/ik5/pcmdown/utils"
)

// SampleFormat is the in-memory encoding of decoded samples. All multi-byte
// formats are little-endian.
type SampleFormat int

const (
	UnknownFormat SampleFormat = iota
	U8
	S16
	S24 // 3-byte packed
	S32
	F32
	F64
	U8P
	S16P
	S32P
	F32P
	F64P
)

var formatNames = map[SampleFormat]string{
	U8: "u8", S16: "s16", S24: "s24", S32: "s32", F32: "flt", F64: "dbl",
	U8P: "u8p", S16P: "s16p", S32P: "s32p", F32P: "fltp", F64P: "dblp",
}

func (f SampleFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// BytesPerSample returns the size of one sample, or 0 for unknown formats.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case U8, U8P:
		return 1
	case S16, S16P:
		return 2
	case S24:
		return 3
	case S32, S32P, F32, F32P:
		return 4
	case F64, F64P:
		return 8
	default:
		return 0
	}
}

func (f SampleFormat) IsPlanar() bool {
	switch f {
	case U8P, S16P, S32P, F32P, F64P:
		return true
	default:
		return false
	}
}

// Packed returns the interleaved counterpart of a planar format.
func (f SampleFormat) Packed() SampleFormat {
	switch f {
	case U8P:
		return U8
	case S16P:
		return S16
	case S32P:
		return S32
	case F32P:
		return F32
	case F64P:
		return F64
	default:
		return f
	}
}

// toS16 decodes the sample at the start of b.
func (f SampleFormat) toS16(b []byte) int16 {
	switch f.Packed() {
	case U8:
		return utils.Uint8ToInt16(b[0])
	case S16:
		return int16(binary.LittleEndian.Uint16(b))
	case S24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return utils.Int24ToInt16(v)
	case S32:
		return utils.Int32ToInt16(int32(binary.LittleEndian.Uint32(b)))
	case F32:
		return utils.Float32ToInt16(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case F64:
		return utils.Float64ToInt16(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	default:
		return 0
	}
}

// EncodeInts appends integer samples to dst in the integer format f.
// Values are expected in the native range of f; U8 is unsigned.
func EncodeInts(dst []byte, samples []int, f SampleFormat) []byte {
	for _, v := range samples {
		switch f.Packed() {
		case U8:
			dst = append(dst, byte(v))
		case S16:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(int16(v)))
		case S24:
			dst = append(dst, byte(v), byte(v>>8), byte(v>>16))
		case S32:
			dst = binary.LittleEndian.AppendUint32(dst, uint32(int32(v)))
		}
	}

	return dst
}

// EncodeFloat32s appends samples to dst as F32.
func EncodeFloat32s(dst []byte, samples []float32) []byte {
	for _, v := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}

	return dst
}
