// SPDX-License-Identifier: EPL-2.0

// Package adpcm implements the PlayStation SPU ADPCM frame codec used by
// VAG audio streams: encoding and decoding of individual 16-byte frames,
// the per-channel predictor state they thread through, and the filter/shift
// search the encoder runs to minimize reconstruction error (every filter,
// and for each a window of up to three shifts).
//
// A Frame never appears on its own on the wire — see package header for the
// stream header and package vag for the chunk layout and the streaming
// Reader/Writer built on top of this package.
package adpcm
