package vag

import (
	"fmt"
	"io"
	"time"

	"github.com/ik5/vagcodec/adpcm"
	"github.com/ik5/vagcodec/header"
	"github.com/ik5/vagcodec/utils"
)

// internalReadFrames is the non-interleaved stream's internal buffered-read
// granularity: header.Alignment bytes, the same 2048-byte unit the header
// itself pads to. It never appears on the wire; interleaved streams use
// their own header-declared chunk size instead.
const internalReadFrames = header.Alignment / adpcm.FrameSize

// Reader decodes a VAG stream's payload into PCM, one internal chunk at a
// time. It maintains per-channel predictor state across chunks and a
// single-chunk scratch buffer with a read cursor, refilled on exhaustion.
type Reader struct {
	r         io.Reader
	leaveOpen bool

	h        header.Header
	channels int

	framesPerChunk  int
	samplesPerChunk int

	totalSamplesPerChannel uint32

	states []adpcm.PredictorState

	scratch []int16 // interleaved PCM for the current chunk
	cursor  int
	valid   int

	eof bool
}

// NewReader parses the header from r and returns a Reader positioned at
// the start of the payload.
func NewReader(r io.Reader, leaveOpen bool) (*Reader, error) {
	h, err := header.Parse(r)
	if err != nil {
		return nil, err
	}

	channels := 1
	framesPerChunk := internalReadFrames
	var totalSamplesPerChannel uint32

	if h.Interleaved {
		channels = int(h.Channels)
		framesPerChunk = adpcm.FramesPerChunk(int(h.ChunkSize))
		if h.ChunkSize > 0 {
			totalChunks := h.DataLength / h.ChunkSize
			totalSamplesPerChannel = totalChunks * uint32(framesPerChunk*adpcm.SamplesPerFrame)
		}
	} else {
		totalFrames := h.DataLength / adpcm.FrameSize
		totalSamplesPerChannel = totalFrames * adpcm.SamplesPerFrame
	}

	return &Reader{
		r:                      r,
		leaveOpen:              leaveOpen,
		h:                      h,
		channels:               channels,
		framesPerChunk:         framesPerChunk,
		samplesPerChunk:        framesPerChunk * adpcm.SamplesPerFrame,
		totalSamplesPerChannel: totalSamplesPerChannel,
		states:                 make([]adpcm.PredictorState, channels),
	}, nil
}

// SampleRate is the stream's declared sample rate.
func (rd *Reader) SampleRate() uint32 { return rd.h.SampleRate }

// Channels is the stream's channel count (always 1 for non-interleaved
// streams).
func (rd *Reader) Channels() int { return rd.channels }

// Interleaved reports whether the stream is VAGi framed.
func (rd *Reader) Interleaved() bool { return rd.h.Interleaved }

// ChunkSize is the interleaved chunk size in bytes, or 0 for a
// non-interleaved stream.
func (rd *Reader) ChunkSize() uint32 { return rd.h.ChunkSize }

// TotalSamplesPerChannel is the declared per-channel sample count, derived
// from the header's data-length field.
func (rd *Reader) TotalSamplesPerChannel() uint32 { return rd.totalSamplesPerChannel }

// Duration is the stream's declared length, derived from
// TotalSamplesPerChannel and SampleRate.
func (rd *Reader) Duration() time.Duration {
	if rd.h.SampleRate == 0 {
		return 0
	}
	seconds := float64(rd.totalSamplesPerChannel) / float64(rd.h.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// ReadI16 decodes interleaved PCM samples into dst and returns how many
// were written. A short count with a nil error only happens at end of
// stream; 0, nil signals exhaustion.
func (rd *Reader) ReadI16(dst []int16) (int, error) {
	n := 0

	for n < len(dst) {
		if rd.cursor >= rd.valid {
			if rd.eof {
				break
			}
			if err := rd.fillChunk(); err != nil {
				return n, err
			}
			if rd.valid == 0 {
				break
			}
		}

		copied := copy(dst[n:], rd.scratch[rd.cursor:rd.valid])
		rd.cursor += copied
		n += copied
	}

	return n, nil
}

// ReadF32 decodes like ReadI16 but scales samples into the [-1, 1] range.
func (rd *Reader) ReadF32(dst []float32) (int, error) {
	buf := make([]int16, len(dst))
	n, err := rd.ReadI16(buf)
	for i := 0; i < n; i++ {
		dst[i] = utils.Int16ToFloat32(buf[i])
	}
	return n, err
}

// ReadBytes decodes like ReadI16 but packs samples as little-endian 16-bit
// PCM, two bytes per sample. len(dst) must be even; like ReadI16 and
// ReadF32, it returns the number of samples written, not the byte count.
func (rd *Reader) ReadBytes(dst []byte) (int, error) {
	samples := make([]int16, len(dst)/2)
	n, err := rd.ReadI16(samples)
	for i := 0; i < n; i++ {
		v := uint16(samples[i])
		dst[2*i] = byte(v)
		dst[2*i+1] = byte(v >> 8)
	}
	return n, err
}

// Reset seeks r back to the start of the payload and clears all decode
// state, including predictor history. r must implement io.Seeker.
func (rd *Reader) Reset() error {
	seeker, ok := rd.r.(io.Seeker)
	if !ok {
		return fmt.Errorf("vag: Reset requires a seekable reader")
	}

	if _, err := seeker.Seek(header.PayloadStart, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}

	for i := range rd.states {
		rd.states[i].Reset()
	}
	rd.cursor = 0
	rd.valid = 0
	rd.eof = false

	return nil
}

// Close releases the underlying reader if this Reader owns it.
func (rd *Reader) Close() error {
	if rd.leaveOpen {
		return nil
	}
	if c, ok := rd.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// fillChunk decodes the next internal chunk into rd.scratch, resetting the
// cursor. It sets rd.eof once no further chunks are available.
func (rd *Reader) fillChunk() error {
	if rd.h.Interleaved {
		return rd.fillInterleavedChunk()
	}
	return rd.fillNonInterleavedChunk()
}

func (rd *Reader) fillNonInterleavedChunk() error {
	raw := make([]byte, rd.framesPerChunk*adpcm.FrameSize)
	n, err := io.ReadFull(rd.r, raw)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("%w", err)
	}

	frameCount := n / adpcm.FrameSize
	rd.scratch = make([]int16, frameCount*adpcm.SamplesPerFrame)
	rd.cursor = 0
	rd.valid = 0

	lastFrame := false
	for f := 0; f < frameCount && !lastFrame; f++ {
		frame := raw[f*adpcm.FrameSize : (f+1)*adpcm.FrameSize]
		out := rd.scratch[f*adpcm.SamplesPerFrame : (f+1)*adpcm.SamplesPerFrame]

		flags := adpcm.DecodeFrame(frame, &rd.states[0], out)
		rd.valid += adpcm.SamplesPerFrame

		if flags&0x03 == adpcm.FlagEnd {
			lastFrame = true
		}
	}

	if lastFrame || n < len(raw) {
		rd.eof = true
	}

	return nil
}

func (rd *Reader) fillInterleavedChunk() error {
	channels := rd.channels
	perChannel := make([][]int16, channels)

	// Every channel occupies the same fixed framesPerChunk*FrameSize span
	// in this chunk regardless of what any other channel's frames carry,
	// so each channel is read in full before eof is decided.
	atEOF := false
	for ch := 0; ch < channels; ch++ {
		raw := make([]byte, rd.framesPerChunk*adpcm.FrameSize)
		n, err := io.ReadFull(rd.r, raw)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return fmt.Errorf("%w", err)
		}

		frameCount := n / adpcm.FrameSize
		chanSamples := make([]int16, frameCount*adpcm.SamplesPerFrame)

		lastFrame := false
		for f := 0; f < frameCount && !lastFrame; f++ {
			frame := raw[f*adpcm.FrameSize : (f+1)*adpcm.FrameSize]
			out := chanSamples[f*adpcm.SamplesPerFrame : (f+1)*adpcm.SamplesPerFrame]

			flags := adpcm.DecodeFrame(frame, &rd.states[ch], out)
			if flags&0x03 == adpcm.FlagEnd {
				lastFrame = true
				chanSamples = chanSamples[:(f+1)*adpcm.SamplesPerFrame]
			}
		}

		perChannel[ch] = chanSamples

		if lastFrame || n < len(raw) {
			atEOF = true
		}
	}

	maxSamples := 0
	for _, cs := range perChannel {
		if len(cs) > maxSamples {
			maxSamples = len(cs)
		}
	}

	rd.scratch = make([]int16, maxSamples*channels)
	rd.cursor = 0
	rd.valid = 0

	for i := 0; i < maxSamples; i++ {
		anyPresent := false
		for ch := 0; ch < channels; ch++ {
			if i < len(perChannel[ch]) {
				rd.scratch[i*channels+ch] = perChannel[ch][i]
				anyPresent = true
			}
		}
		if anyPresent {
			rd.valid += channels
		}
	}

	if atEOF {
		rd.eof = true
	}

	return nil
}
