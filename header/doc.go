// SPDX-License-Identifier: EPL-2.0

// Package header implements the byte-exact VAG stream header: the
// mixed-endianness fixed fields, the padding out to a 2048-byte payload
// boundary, and the post-hoc patch of the per-channel data-length field
// once a writer knows how much payload it emitted.
package header
