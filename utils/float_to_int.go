// SPDX-License-Identifier: EPL-2.0

package utils

func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

func Float64ToInt16(x float64) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// Uint8ToInt16 converts offset-binary 8-bit PCM (silence at 128).
func Uint8ToInt16(v uint8) int16 {
	return int16(int(v)-128) << 8
}

// Int24ToInt16 keeps the 16 most significant bits of a sign-extended 24-bit sample.
func Int24ToInt16(v int32) int16 {
	return int16(v >> 8)
}

// Int32ToInt16 keeps the 16 most significant bits.
func Int32ToInt16(v int32) int16 {
	return int16(v >> 16)
}

// ClampInt16 rounds x to the nearest integer and saturates it to the int16 range.
func ClampInt16(x float64) int16 {
	switch {
	case x >= 32767:
		return 32767
	case x <= -32768:
		return -32768
	case x >= 0:
		return int16(x + 0.5)
	default:
		return int16(x - 0.5)
	}
}
