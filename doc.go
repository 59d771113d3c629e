// SPDX-License-Identifier: EPL-2.0

// Package vagcodec implements the PlayStation VAG ADPCM audio format: the
// frame-level codec, the interleaved and non-interleaved chunk layouts,
// the fixed wire header, and the streaming Reader/Writer façades that tie
// them together.
//
// # Package layout
//
// Package adpcm implements the 16-byte ADPCM frame codec (decode, encode,
// and the predictor search over every filter and a window of shifts) and
// the chunk-counting arithmetic
// shared by both container layouts.
//
// Package header implements the fixed VAG header: mixed-endianness field
// layout, zero padding out to the 2048-byte payload boundary, and the
// post-hoc data-length patch a writer needs once it knows the payload
// size.
//
// Package vag exposes the streaming Reader and Writer: Reader decodes a
// VAGp or VAGi stream chunk by chunk into PCM; Writer buffers appended PCM
// per channel and encodes the whole stream on Finalize.
//
// # Quick start
//
//	in, _ := os.Open("sound.vag")
//	rd, err := vag.NewReader(in, false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer rd.Close()
//
//	buf := make([]int16, 4096)
//	for {
//		n, err := rd.ReadI16(buf)
//		if err != nil {
//			log.Fatal(err)
//		}
//		if n == 0 {
//			break
//		}
//		// use buf[:n]
//	}
//
// The cmd/vag2wav and cmd/wav2vag commands wrap Reader and Writer into
// WAV conversion tools.
package vagcodec
