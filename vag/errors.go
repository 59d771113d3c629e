package vag

import "errors"

var (
	// ErrInvalidWriterConfig is returned by NewWriterConfig when the
	// configuration is internally inconsistent: zero channels, zero sample
	// rate, an interleaved chunk size that is zero or not a multiple of
	// header.Alignment (2048), or a non-interleaved config with more than
	// one channel.
	ErrInvalidWriterConfig = errors.New("vag: invalid writer config")

	// ErrWriteAfterFinalize is returned by AppendI16 or Finalize once
	// Finalize has already run.
	ErrWriteAfterFinalize = errors.New("vag: write after finalize")

	// ErrChannelMismatch is returned by AppendI16 when the sample count it
	// is handed does not divide evenly across the configured channel
	// count.
	ErrChannelMismatch = errors.New("vag: sample count is not a multiple of channel count")
)
