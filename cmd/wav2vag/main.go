// Command wav2vag encodes a PCM WAV file to a VAG ADPCM stream.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/ik5/vagcodec/vag"
)

func main() {
	verbose := flag.Bool("v", false, "print stream info before converting")
	interleaved := flag.Bool("i", false, "write an interleaved (VAGi) stream")
	loopFlags := flag.Bool("l", false, "stamp streaming loop flags on every chunk boundary")
	chunkSize := flag.Uint("c", 2048, "interleaved chunk size in bytes (must be a multiple of 2048)")
	outPath := flag.String("o", "", "output VAG path (default: input path with .vag extension)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: wav2vag [-v] [-i] [-l] [-c bytes] [-o output.vag] input.wav")
		os.Exit(1)
	}
	inPath := flag.Arg(0)

	if err := run(inPath, *outPath, *interleaved, *loopFlags, uint32(*chunkSize), *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "wav2vag:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, interleaved, loopFlags bool, chunkSize uint32, verbose bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return fmt.Errorf("wav2vag: %s is not a valid WAV file", inPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	sampleRate := uint32(buf.Format.SampleRate)
	channels := uint16(buf.Format.NumChannels)

	if verbose {
		fmt.Printf("sample rate: %d\n", sampleRate)
		fmt.Printf("channels: %d\n", channels)
		fmt.Printf("samples: %d\n", len(buf.Data))
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".vag"
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer out.Close()

	var w *vag.Writer
	if interleaved {
		w, err = vag.NewWriterConfig(vag.WriterConfig{
			Interleaved:        true,
			StreamingLoopFlags: loopFlags,
			SampleRate:         sampleRate,
			Channels:           channels,
			ChunkSize:          chunkSize,
		}, out, true)
	} else {
		w, err = vag.NewWriter(sampleRate, out, true)
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}

	if err := w.AppendI16(samples); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := w.Finalize(); err != nil {
		return fmt.Errorf("%w", err)
	}

	fmt.Println("wrote:", outPath)
	return nil
}
