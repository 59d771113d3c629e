// SPDX-License-Identifier: EPL-2.0

// Package vag implements the streaming Reader and Writer façades over a
// VAG audio stream: header parsing/emission, the interleaved and
// non-interleaved chunk layouts, and per-channel predictor state threading
// across chunks. The frame-level ADPCM codec lives in package adpcm; the
// wire header lives in package header.
package vag
