// Command vag2wav decodes a VAG ADPCM stream to a PCM WAV file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/vagcodec/vag"
)

func main() {
	verbose := flag.Bool("v", false, "print stream info before converting")
	outPath := flag.String("o", "", "output WAV path (default: input path with .wav extension)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: vag2wav [-v] [-o output.wav] input.vag")
		os.Exit(1)
	}
	inPath := flag.Arg(0)

	if err := run(inPath, *outPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "vag2wav:", err)
		os.Exit(1)
	}
}

func run(inPath, outPath string, verbose bool) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer in.Close()

	rd, err := vag.NewReader(in, true)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer rd.Close()

	if verbose {
		fmt.Printf("sample rate: %d\n", rd.SampleRate())
		fmt.Printf("channels: %d\n", rd.Channels())
		fmt.Printf("total samples per channel: %d\n", rd.TotalSamplesPerChannel())
		fmt.Printf("duration: %s\n", rd.Duration())
		fmt.Printf("interleaved: %v\n", rd.Interleaved())
		fmt.Printf("chunk size: %d\n", rd.ChunkSize())
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".wav"
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, int(rd.SampleRate()), 16, rd.Channels(), 1)

	format := &audio.Format{NumChannels: rd.Channels(), SampleRate: int(rd.SampleRate())}
	buf := make([]int16, 4096)
	intData := make([]int, 0, len(buf))

	for {
		n, err := rd.ReadI16(buf)
		if err != nil {
			return fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}

		intData = intData[:0]
		for _, s := range buf[:n] {
			intData = append(intData, int(s))
		}

		if err := enc.Write(&audio.IntBuffer{
			Format:         format,
			Data:           intData,
			SourceBitDepth: 16,
		}); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	fmt.Println("wrote:", outPath)
	return nil
}
