package adpcm

import "github.com/ik5/vagcodec/utils"

// FlagEnd marks the final frame of a channel. The Reader stops decoding
// after a frame whose low two flag bits are exactly FlagEnd; FlagEnd
// combined with FlagRepeat does not end decoding.
const FlagEnd byte = 0x01

// FlagRepeat tells the hardware to jump to the loop address after this
// frame; it never affects decoded PCM, only downstream hardware
// interpretation.
const FlagRepeat byte = 0x02

// PredictorState is the per-channel history a frame decode or encode reads
// and updates. It must be reset to its zero value at stream start and
// never shared between channels.
//
// The two previous values are kept pre-saturation, matching what the real
// SPU ADPCM core feeds back internally: only the sample handed to the
// caller is clamped to int16, never the history used for prediction.
type PredictorState struct {
	Prev1 float64
	Prev2 float64
}

// Reset zeroes the predictor history, as happens at the start of a stream
// or channel.
func (p *PredictorState) Reset() {
	p.Prev1 = 0
	p.Prev2 = 0
}

// DecodeFrame decodes one FrameSize-byte ADPCM frame into out, which must
// have length SamplesPerFrame. It returns the frame's flag byte (frame[1])
// unmodified so the caller can inspect the end/repeat bits. state is
// updated in place.
//
// Out-of-range header nibbles are coerced rather than rejected: a filter
// index above 5 is treated as 0, a shift above 12 as 9. This tolerates the
// malformed headers real-world VAG files occasionally carry.
func DecodeFrame(frame []byte, state *PredictorState, out []int16) byte {
	_ = frame[FrameSize-1]
	_ = out[SamplesPerFrame-1]

	header := frame[0]
	flags := frame[1]

	coefIndex := header >> 4
	if coefIndex > 5 {
		coefIndex = 0
	}

	shift := header & 0x0f
	if shift > 12 {
		shift = 9
	}

	filter := filterTable[coefIndex]
	h1, h2 := state.Prev1, state.Prev2

	for i := range SamplesPerFrame {
		b := frame[2+i/2]

		var nibble int16
		if i%2 == 0 {
			nibble = int16(b&0x0f) << 12
		} else {
			nibble = int16(b&0xf0) << 8
		}

		sample := float64(nibble >> shift)
		sample += h1*filter.c0 + h2*filter.c1

		h2 = h1
		h1 = sample

		out[i] = utils.SaturateInt16Float(round(sample))
	}

	state.Prev1, state.Prev2 = h1, h2

	return flags
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x + 0.5))
	}
	return float64(int64(x - 0.5))
}
