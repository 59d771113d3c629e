package header

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FixedSize is the number of bytes the fixed header fields occupy before
// zero padding out to Alignment.
const FixedSize = 48

// Alignment is the byte boundary the payload starts on.
const Alignment = 2048

// PayloadStart is the offset the payload begins at. FixedSize never
// exceeds Alignment, so the next aligned offset is always Alignment
// itself.
const PayloadStart = Alignment

// DefaultVersion is the version field this package's Writer emits; readers
// accept any value here.
const DefaultVersion uint32 = 0x00000020

// DataLengthOffset is the byte offset of the per-channel data-length
// field, patched after payload emission.
const DataLengthOffset = 12

const (
	magicNonInterleaved = "VAGp"
	magicInterleaved    = "VAGi"
)

// Header is the parsed or to-be-written fixed fields of a VAG stream.
type Header struct {
	// Interleaved selects VAGi (true) vs VAGp (false) framing.
	Interleaved bool
	// Version is the wire version field; Parse preserves whatever a file
	// carries, Write always emits DefaultVersion.
	Version uint32
	// ChunkSize is the interleaved chunk size in bytes, 0 when
	// Interleaved is false.
	ChunkSize uint32
	// DataLength is the per-channel payload length in bytes.
	DataLength uint32
	SampleRate uint32
	Channels   uint16
}

// Parse reads and validates a VAG header from r, including the padding out
// to PayloadStart, leaving r positioned at the start of the payload (for a
// plain forward-reading io.Reader) or available to be sought there
// directly (PayloadStart is a compile-time constant).
func Parse(r io.Reader) (Header, error) {
	var buf [Alignment]byte

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Header{}, ErrTruncatedHeader
		}
		return Header{}, fmt.Errorf("%w", err)
	}

	var h Header

	switch string(buf[0:4]) {
	case magicNonInterleaved:
		h.Interleaved = false
	case magicInterleaved:
		h.Interleaved = true
	default:
		return Header{}, ErrBadMagic
	}

	h.Version = binary.BigEndian.Uint32(buf[4:8])
	h.ChunkSize = binary.LittleEndian.Uint32(buf[8:12])
	h.DataLength = binary.BigEndian.Uint32(buf[12:16])
	h.SampleRate = binary.BigEndian.Uint32(buf[16:20])
	h.Channels = binary.LittleEndian.Uint16(buf[30:32])

	return h, nil
}

// Write emits h to w with DataLength zeroed (the caller patches it later
// via PatchDataLength once the payload length is known), pads out to
// PayloadStart, and leaves w positioned at PayloadStart.
func Write(w io.Writer, h Header) error {
	var buf [Alignment]byte

	magic := magicNonInterleaved
	if h.Interleaved {
		magic = magicInterleaved
	}
	copy(buf[0:4], magic)

	binary.BigEndian.PutUint32(buf[4:8], DefaultVersion)
	binary.LittleEndian.PutUint32(buf[8:12], h.ChunkSize)
	binary.BigEndian.PutUint32(buf[12:16], 0) // patched later
	binary.BigEndian.PutUint32(buf[16:20], h.SampleRate)
	binary.LittleEndian.PutUint16(buf[30:32], h.Channels)
	// bytes 20:30 (reserved) and 32:48 (padding), and the rest of the
	// buffer up to Alignment, are left zero.

	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// PatchDataLength seeks w back to DataLengthOffset, writes dataLength
// big-endian, and restores the writer's prior position. w must be
// positioned at or past PayloadStart when called.
func PatchDataLength(w io.WriteSeeker, dataLength uint32) error {
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if _, err := w.Seek(DataLengthOffset, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], dataLength)
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("%w", err)
	}

	if _, err := w.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
