// SPDX-License-Identifier: EPL-2.0

// Package utils provides small, allocation-free numeric helpers shared by
// the ADPCM codec and its callers.
package utils

import "math"

// SaturateInt16 clamps a wider integer accumulator to the signed 16-bit
// range. The encoder and decoder keep their accumulators in float64 and
// use SaturateInt16Float instead.
func SaturateInt16(x int32) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}

// Int16ToFloat32 scales a signed 16-bit PCM sample into the [-1, 1] range
// used by ReadF32.
func Int16ToFloat32(x int16) float32 {
	return float32(x) / 32768.0
}

// SaturateInt16Float clamps a floating-point accumulator to the signed
// 16-bit range. Used where the predictor history is kept in float64, as it
// is pre-saturation, so intermediate values can exceed int32 range before
// clamping.
func SaturateInt16Float(x float64) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}
