package vag

import (
	"fmt"
	"io"

	"github.com/ik5/vagcodec/adpcm"
	"github.com/ik5/vagcodec/header"
)

// WriterConfig selects the framing a Writer emits.
type WriterConfig struct {
	// Interleaved selects VAGi framing. When false, Channels must be 1
	// and ChunkSize is ignored.
	Interleaved bool
	// ChunkSize is the interleaved chunk size in bytes; required (> 0 and
	// a multiple of header.Alignment, 2048) when Interleaved is true.
	ChunkSize uint32
	// StreamingLoopFlags, when set, stamps the repeat+end flag combo on
	// every chunk-terminal frame instead of only the stream's last one,
	// matching a file authored for hardware loop-point streaming.
	StreamingLoopFlags bool
	SampleRate         uint32
	Channels           uint16
}

// Writer buffers PCM samples per channel and, on Finalize, encodes and
// emits the whole stream in one pass: it does not stream chunk-by-chunk
// while samples are still arriving, since the overall data length must be
// known before the header can be patched.
type Writer struct {
	w         io.WriteSeeker
	leaveOpen bool
	cfg       WriterConfig
	channels  [][]int16
	finalized bool
}

// NewWriter is a convenience constructor for a single-channel,
// non-interleaved (VAGp) writer.
func NewWriter(sampleRate uint32, w io.WriteSeeker, leaveOpen bool) (*Writer, error) {
	return NewWriterConfig(WriterConfig{
		Interleaved: false,
		SampleRate:  sampleRate,
		Channels:    1,
	}, w, leaveOpen)
}

// NewWriterConfig validates cfg, emits the stream header (with DataLength
// zeroed, to be patched on Finalize), and returns a Writer ready to accept
// samples via AppendI16.
func NewWriterConfig(cfg WriterConfig, w io.WriteSeeker, leaveOpen bool) (*Writer, error) {
	if cfg.Channels == 0 {
		return nil, fmt.Errorf("%w: channel count must be positive", ErrInvalidWriterConfig)
	}
	if cfg.SampleRate == 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", ErrInvalidWriterConfig)
	}
	if cfg.Interleaved {
		if cfg.ChunkSize == 0 || cfg.ChunkSize%header.Alignment != 0 {
			return nil, fmt.Errorf("%w: interleaved chunk size must be a positive multiple of %d", ErrInvalidWriterConfig, header.Alignment)
		}
	} else if cfg.Channels != 1 {
		return nil, fmt.Errorf("%w: non-interleaved streams carry exactly one channel", ErrInvalidWriterConfig)
	}

	wireChunkSize := uint32(0)
	if cfg.Interleaved {
		wireChunkSize = cfg.ChunkSize
	}

	if err := header.Write(w, header.Header{
		Interleaved: cfg.Interleaved,
		ChunkSize:   wireChunkSize,
		SampleRate:  cfg.SampleRate,
		Channels:    cfg.Channels,
	}); err != nil {
		return nil, fmt.Errorf("vag: writing header: %w", err)
	}

	return &Writer{
		w:         w,
		leaveOpen: leaveOpen,
		cfg:       cfg,
		channels:  make([][]int16, cfg.Channels),
	}, nil
}

// AppendI16 de-interleaves samples (L,R,L,R,... for multi-channel
// interleaved streams, or a flat mono stream) and appends them to each
// channel's pending buffer. len(samples) must be a multiple of the
// configured channel count.
func (wr *Writer) AppendI16(samples []int16) error {
	if wr.finalized {
		return ErrWriteAfterFinalize
	}

	channels := int(wr.cfg.Channels)
	if len(samples)%channels != 0 {
		return ErrChannelMismatch
	}

	for i, s := range samples {
		ch := i % channels
		wr.channels[ch] = append(wr.channels[ch], s)
	}

	return nil
}

// Finalize encodes every buffered sample into frames, writes them, and
// patches the header's data-length field. It is an error to call Finalize
// more than once, or to call AppendI16 afterward.
func (wr *Writer) Finalize() error {
	if wr.finalized {
		return ErrWriteAfterFinalize
	}
	wr.finalized = true

	var dataLength uint32
	var err error
	if wr.cfg.Interleaved {
		dataLength, err = wr.finalizeInterleaved()
	} else {
		dataLength, err = wr.finalizeNonInterleaved()
	}
	if err != nil {
		return err
	}

	if err := header.PatchDataLength(wr.w, dataLength); err != nil {
		return fmt.Errorf("vag: patching data length: %w", err)
	}

	if !wr.leaveOpen {
		if c, ok := wr.w.(io.Closer); ok {
			if err := c.Close(); err != nil {
				return fmt.Errorf("%w", err)
			}
		}
	}

	return nil
}

func (wr *Writer) finalizeNonInterleaved() (uint32, error) {
	samples := wr.channels[0]

	var state adpcm.PredictorState
	totalFrames := adpcm.FrameCount(len(samples))

	for f := 0; f < totalFrames; f++ {
		block := blockWindow(samples, f*adpcm.SamplesPerFrame)
		flags := adpcm.TerminalFlags(f == totalFrames-1, false)

		frame := adpcm.EncodeFrame(block, &state, flags)
		if _, err := wr.w.Write(frame); err != nil {
			return 0, fmt.Errorf("%w", err)
		}
	}

	return uint32(totalFrames) * adpcm.FrameSize, nil
}

func (wr *Writer) finalizeInterleaved() (uint32, error) {
	channels := int(wr.cfg.Channels)
	framesPerChunk := adpcm.FramesPerChunk(int(wr.cfg.ChunkSize))
	samplesPerChunk := framesPerChunk * adpcm.SamplesPerFrame

	n := len(wr.channels[0])
	totalChunks := adpcm.ChunkCount(n, samplesPerChunk)

	states := make([]adpcm.PredictorState, channels)

	for chunkIdx := 0; chunkIdx < totalChunks; chunkIdx++ {
		isLastChunk := chunkIdx == totalChunks-1

		for ch := 0; ch < channels; ch++ {
			samples := wr.channels[ch]

			for frameInChunk := 0; frameInChunk < framesPerChunk; frameInChunk++ {
				globalFrame := chunkIdx*framesPerChunk + frameInChunk
				block := blockWindow(samples, globalFrame*adpcm.SamplesPerFrame)

				var flags byte
				if frameInChunk == framesPerChunk-1 {
					flags = adpcm.TerminalFlags(isLastChunk, wr.cfg.StreamingLoopFlags)
				}

				frame := adpcm.EncodeFrame(block, &states[ch], flags)
				if _, err := wr.w.Write(frame); err != nil {
					return 0, fmt.Errorf("%w", err)
				}
			}
		}
	}

	return uint32(totalChunks) * wr.cfg.ChunkSize, nil
}

// blockWindow copies adpcm.SamplesPerFrame samples from samples starting at
// start, zero-padding past the end of samples.
func blockWindow(samples []int16, start int) []int16 {
	block := make([]int16, adpcm.SamplesPerFrame)
	if start >= len(samples) {
		return block
	}

	end := start + adpcm.SamplesPerFrame
	if end > len(samples) {
		end = len(samples)
	}
	copy(block, samples[start:end])

	return block
}
