package header

import "errors"

var (
	// ErrBadMagic indicates the stream does not start with "VAGp" or
	// "VAGi".
	ErrBadMagic = errors.New("vag: bad magic")

	// ErrTruncatedHeader indicates fewer than PayloadStart bytes were
	// available where a full header was expected.
	ErrTruncatedHeader = errors.New("vag: truncated header")
)
