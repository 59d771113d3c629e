package adpcm

import (
	"math"

	"github.com/ik5/vagcodec/utils"
)

// nibbleMin and nibbleMax bound the signed 4-bit quantized residual that
// fits in one ADPCM nibble.
const (
	nibbleMin = -8
	nibbleMax = 7
)

// encoding is one trial (filter, shift) pair's result over a 28-sample
// block: the nibbles it packs to, the predictor state after the block, and
// the mean squared reconstruction error against the original samples.
type encoding struct {
	filter  int
	shift   int
	nibbles [SamplesPerFrame]int32
	next    PredictorState
	mse     float64
}

// encodeBlock quantizes block (which must have length SamplesPerFrame)
// against the given filter and shift, starting from state, without
// mutating state. The reconstruction formula mirrors DecodeFrame exactly:
// the same pre-saturation history feeds forward so that decoding the
// emitted frame reproduces the predictor state computed here.
func encodeBlock(block []int16, filter, shift int, state PredictorState) encoding {
	c := filterTable[filter]
	h1, h2 := state.Prev1, state.Prev2

	scale := 1 << uint(shiftRange-shift)

	var result encoding
	result.filter = filter
	result.shift = shift

	for i, s16 := range block {
		s := float64(s16)
		pred := h1*c.c0 + h2*c.c1
		residual := s - pred

		nibble := int32(round(residual / float64(scale)))
		if nibble > nibbleMax {
			nibble = nibbleMax
		} else if nibble < nibbleMin {
			nibble = nibbleMin
		}
		result.nibbles[i] = nibble

		recon := pred + float64(nibble*int32(scale))
		h2 = h1
		h1 = recon

		out := float64(utils.SaturateInt16Float(recon))
		diff := out - s
		result.mse += diff * diff
	}

	result.next = PredictorState{Prev1: h1, Prev2: h2}
	result.mse /= float64(len(block))

	return result
}

// residualRange runs the unquantized prediction pass used by the
// minimal-shift heuristic: it chains the filter across the block using the
// original samples as history (no quantization feedback) and returns the
// smallest and largest residual encountered.
func residualRange(block []int16, filter int, state PredictorState) (min, max float64) {
	c := filterTable[filter]
	h1, h2 := state.Prev1, state.Prev2

	min = math.Inf(1)
	max = math.Inf(-1)

	for _, s16 := range block {
		s := float64(s16)
		pred := h1*c.c0 + h2*c.c1
		residual := s - pred

		if residual < min {
			min = residual
		}
		if residual > max {
			max = residual
		}

		h2 = h1
		h1 = s
	}

	return min, max
}

// minimalShift advances a right-shift count until the residual extremes
// both fit within a signed 4-bit nibble (nibbleMin..nibbleMax), then returns the
// shiftRange-relative shift that achieves that.
func minimalShift(min, max float64) int {
	minI := int64(round(min))
	maxI := int64(round(max))

	rshift := 0
	for rshift <= shiftRange {
		if maxI>>uint(rshift) <= nibbleMax && minI>>uint(rshift) >= nibbleMin {
			break
		}
		rshift++
	}

	shift := shiftRange - rshift
	if shift < 0 {
		shift = 0
	}
	if shift > shiftRange {
		shift = shiftRange
	}

	return shift
}

// candidateShifts returns the distinct, clamped shifts to trial-encode
// around a candidate: candidate-1, candidate, candidate+1.
func candidateShifts(candidate int) []int {
	raw := [3]int{candidate - 1, candidate, candidate + 1}

	out := make([]int, 0, 3)
	for _, s := range raw {
		if s < 0 {
			s = 0
		}
		if s > shiftRange {
			s = shiftRange
		}

		dup := false
		for _, existing := range out {
			if existing == s {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}

	return out
}

// searchBestEncoding tries every filter in 0..NumFilters-1 and, for each,
// the shifts around its minimal-shift candidate, keeping the (filter,
// shift) pair with the lowest MSE. Ties go to whichever was encountered
// first, i.e. the lowest filter index and, within a filter, the lowest
// shift. A winner whose nibbles are all zero is reported with shift 0,
// since the shift then has no effect on decoding (silence encodes to an
// all-zero frame).
func searchBestEncoding(block []int16, state PredictorState) encoding {
	var best encoding
	haveBest := false

	for filter := range NumFilters {
		min, max := residualRange(block, filter, state)
		candidate := minimalShift(min, max)

		for _, shift := range candidateShifts(candidate) {
			trial := encodeBlock(block, filter, shift, state)
			if !haveBest || trial.mse < best.mse {
				best = trial
				haveBest = true
			}
		}
	}

	allZero := true
	for _, n := range best.nibbles {
		if n != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		best.shift = 0
	}

	return best
}

// EncodeFrame picks the (filter, shift) pair minimizing reconstruction
// error for block (which must have length SamplesPerFrame), updates state
// to the predictor history after this frame, and returns the encoded
// FrameSize-byte frame with flags stamped into byte 1.
func EncodeFrame(block []int16, state *PredictorState, flags byte) []byte {
	best := searchBestEncoding(block, *state)

	frame := make([]byte, FrameSize)
	frame[0] = byte(best.shift&0x0f) | byte(best.filter<<4)
	frame[1] = flags

	for i := 0; i < SamplesPerFrame; i += 2 {
		lo := byte(best.nibbles[i]) & 0x0f
		hi := byte(best.nibbles[i+1]) & 0x0f
		frame[2+i/2] = lo | (hi << 4)
	}

	*state = best.next

	return frame
}
