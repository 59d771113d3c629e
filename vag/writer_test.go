package vag

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// memSeeker is a minimal growable io.WriteSeeker backed by a byte slice,
// standing in for an *os.File in these unit tests.
type memSeeker struct {
	data []byte
	pos  int64
}

func (m *memSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	n := copy(m.data[m.pos:end], p)
	m.pos += int64(n)
	return n, nil
}

func (m *memSeeker) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = m.pos + offset
	case io.SeekEnd:
		newPos = int64(len(m.data)) + offset
	}
	m.pos = newPos
	return m.pos, nil
}

func rampSamples(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16((i%2000)*10 - 9000)
	}
	return out
}

func TestNewWriterConfig_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cfg  WriterConfig
	}{
		{"zero channels", WriterConfig{Channels: 0, SampleRate: 8000}},
		{"zero sample rate", WriterConfig{Channels: 1, SampleRate: 0}},
		{"interleaved without chunk size", WriterConfig{Interleaved: true, Channels: 2, SampleRate: 8000}},
		{"interleaved chunk size not a frame multiple", WriterConfig{Interleaved: true, Channels: 2, SampleRate: 8000, ChunkSize: 17}},
		{"non-interleaved multi-channel", WriterConfig{Channels: 2, SampleRate: 8000}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := &memSeeker{}
			_, err := NewWriterConfig(c.cfg, m, true)
			if !errors.Is(err, ErrInvalidWriterConfig) {
				t.Fatalf("NewWriterConfig() error = %v, want ErrInvalidWriterConfig", err)
			}
		})
	}
}

func TestWriter_NonInterleavedRoundTrip(t *testing.T) {
	t.Parallel()

	samples := rampSamples(500)
	m := &memSeeker{}

	w, err := NewWriter(8000, m, true)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.AppendI16(samples); err != nil {
		t.Fatalf("AppendI16() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	// Writing or finalizing again must fail.
	if err := w.AppendI16(samples); !errors.Is(err, ErrWriteAfterFinalize) {
		t.Fatalf("AppendI16() after Finalize error = %v, want ErrWriteAfterFinalize", err)
	}
	if err := w.Finalize(); !errors.Is(err, ErrWriteAfterFinalize) {
		t.Fatalf("Finalize() twice error = %v, want ErrWriteAfterFinalize", err)
	}

	rd, err := NewReader(bytes.NewReader(m.data), true)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if rd.Interleaved() {
		t.Fatal("Interleaved() = true, want false")
	}
	if rd.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", rd.Channels())
	}

	got := make([]int16, 0, len(samples))
	buf := make([]int16, 64)
	for {
		n, err := rd.ReadI16(buf)
		if err != nil {
			t.Fatalf("ReadI16() error = %v", err)
		}
		got = append(got, buf[:n]...)
		if n == 0 {
			break
		}
	}

	if len(got) < len(samples) {
		t.Fatalf("decoded %d samples, want at least %d", len(got), len(samples))
	}
	// Frame-boundary padding is lossy, but within a frame the reconstruction
	// should stay close to the original.
	for i, want := range samples {
		diff := int(got[i]) - int(want)
		if diff < -2000 || diff > 2000 {
			t.Fatalf("sample %d = %d, want near %d", i, got[i], want)
		}
	}
}

func TestWriter_InterleavedRoundTrip(t *testing.T) {
	t.Parallel()

	const channels = 2
	frames := 40 // fewer than one chunk's 128 frames, so this exercises the stream's sole, final chunk
	samplesPerChannel := frames * 28
	interleaved := make([]int16, samplesPerChannel*channels)
	for i := 0; i < samplesPerChannel; i++ {
		// Distinct per-channel patterns so a bug that drops channel 1 (R)
		// samples shows up as a value mismatch, not just a short read.
		interleaved[i*channels+0] = int16((i%2000)*5 - 5000)
		interleaved[i*channels+1] = int16(5000 - (i%2000)*5)
	}

	m := &memSeeker{}
	w, err := NewWriterConfig(WriterConfig{
		Interleaved: true,
		ChunkSize:   2048,
		SampleRate:  44100,
		Channels:    channels,
	}, m, true)
	if err != nil {
		t.Fatalf("NewWriterConfig() error = %v", err)
	}
	if err := w.AppendI16(interleaved); err != nil {
		t.Fatalf("AppendI16() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	rd, err := NewReader(bytes.NewReader(m.data), true)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if !rd.Interleaved() {
		t.Fatal("Interleaved() = false, want true")
	}
	if rd.Channels() != channels {
		t.Fatalf("Channels() = %d, want %d", rd.Channels(), channels)
	}

	got := make([]int16, 0, len(interleaved))
	buf := make([]int16, 77)
	for {
		n, err := rd.ReadI16(buf)
		if err != nil {
			t.Fatalf("ReadI16() error = %v", err)
		}
		got = append(got, buf[:n]...)
		if n == 0 {
			break
		}
	}

	if len(got) < len(interleaved) {
		t.Fatalf("decoded %d samples, want at least %d", len(got), len(interleaved))
	}

	for i, want := range interleaved {
		diff := int(got[i]) - int(want)
		if diff < -2000 || diff > 2000 {
			t.Fatalf("sample %d (channel %d) = %d, want near %d", i, i%channels, got[i], want)
		}
	}
}

// TestWriter_InterleavedRoundTrip_MultiChunkWithLoopFlags exercises a
// stream spanning several chunks with StreamingLoopFlags enabled, so every
// chunk-terminal frame, the stream's last one included, carries flags
// 0x03. No frame has flags exactly 0x01, so decoding must run to the end
// of the data rather than stopping at the first chunk boundary.
func TestWriter_InterleavedRoundTrip_MultiChunkWithLoopFlags(t *testing.T) {
	t.Parallel()

	const channels = 2
	framesPerChunk := 2048 / 16
	frames := framesPerChunk*3 + 10 // spans 4 chunks, last one partial
	samplesPerChannel := frames * 28
	interleaved := make([]int16, samplesPerChannel*channels)
	for i := 0; i < samplesPerChannel; i++ {
		interleaved[i*channels+0] = int16((i%2000)*5 - 5000)
		interleaved[i*channels+1] = int16(5000 - (i%2000)*5)
	}

	m := &memSeeker{}
	w, err := NewWriterConfig(WriterConfig{
		Interleaved:        true,
		StreamingLoopFlags: true,
		ChunkSize:          2048,
		SampleRate:         44100,
		Channels:           channels,
	}, m, true)
	if err != nil {
		t.Fatalf("NewWriterConfig() error = %v", err)
	}
	if err := w.AppendI16(interleaved); err != nil {
		t.Fatalf("AppendI16() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	rd, err := NewReader(bytes.NewReader(m.data), true)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	got := make([]int16, 0, len(interleaved))
	buf := make([]int16, 97)
	for {
		n, err := rd.ReadI16(buf)
		if err != nil {
			t.Fatalf("ReadI16() error = %v", err)
		}
		got = append(got, buf[:n]...)
		if n == 0 {
			break
		}
	}

	if len(got) < len(interleaved) {
		t.Fatalf("decoded %d samples, want at least %d (non-final chunk-terminal flags 0x03 must not be mistaken for end-of-stream)", len(got), len(interleaved))
	}
}

func TestWriter_AppendI16_ChannelMismatch(t *testing.T) {
	t.Parallel()

	m := &memSeeker{}
	w, err := NewWriterConfig(WriterConfig{
		Interleaved: true,
		ChunkSize:   2048,
		SampleRate:  8000,
		Channels:    2,
	}, m, true)
	if err != nil {
		t.Fatalf("NewWriterConfig() error = %v", err)
	}

	if err := w.AppendI16([]int16{1, 2, 3}); !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("AppendI16() error = %v, want ErrChannelMismatch", err)
	}
}
