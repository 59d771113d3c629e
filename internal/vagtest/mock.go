// SPDX-License-Identifier: EPL-2.0

// Package vagtest provides synthetic PCM generators for exercising the
// adpcm, header, and vag packages without fixture files on disk.
package vagtest

import "math"

// Source generates interleaved int16 PCM for a fixed number of
// per-channel samples.
type Source struct {
	sampleRate   int
	channels     int
	totalSamples int
	generated    int
	waveform     func(sample, channel int) int16
}

// NewSource builds a Source that calls waveform for every (sample,
// channel) pair it is asked to produce. totalSamples is per channel.
func NewSource(sampleRate, channels, totalSamples int, waveform func(sample, channel int) int16) *Source {
	return &Source{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource builds a Source that generates all-zero PCM.
func NewSilentSource(sampleRate, channels, totalSamples int) *Source {
	return NewSource(sampleRate, channels, totalSamples, func(int, int) int16 { return 0 })
}

// NewSineSource builds a Source generating a sine wave at frequency Hz,
// scaled to roughly half full scale so encode/decode headroom stays
// comfortable. Each channel beyond the first is phase-shifted by a
// quarter turn per index so multi-channel fixtures carry genuinely
// distinct per-channel data instead of identical copies.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *Source {
	return NewSource(sampleRate, channels, totalSamples, func(sample, channel int) int16 {
		t := float64(sample) / float64(sampleRate)
		phase := float64(channel) * math.Pi / 2
		return int16(16000 * math.Sin(2*math.Pi*frequency*t+phase))
	})
}

// NewRampSource builds a Source generating a sawtooth ramp, useful for
// exercising every nibble value across a frame.
func NewRampSource(sampleRate, channels, totalSamples int) *Source {
	return NewSource(sampleRate, channels, totalSamples, func(sample, channel int) int16 {
		return int16((sample%2000)*16 - 16000)
	})
}

// SampleRate is the generator's configured sample rate.
func (s *Source) SampleRate() int { return s.sampleRate }

// Channels is the generator's configured channel count.
func (s *Source) Channels() int { return s.channels }

// Reset rewinds the generator so it can be read again from the start.
func (s *Source) Reset() { s.generated = 0 }

// ReadI16 fills dst with interleaved samples (L,R,L,R,... for
// multi-channel) and returns how many were written. Only whole frames
// (one sample per channel) are written, so the count is len(dst) rounded
// down to a multiple of the channel count, and less than that only once
// the configured total has been produced.
func (s *Source) ReadI16(dst []int16) int {
	framesRequested := len(dst) / s.channels
	framesAvailable := s.totalSamples - s.generated
	if framesAvailable < 0 {
		framesAvailable = 0
	}

	framesToWrite := framesRequested
	if framesToWrite > framesAvailable {
		framesToWrite = framesAvailable
	}

	for frame := range framesToWrite {
		sampleIndex := s.generated + frame
		for ch := range s.channels {
			dst[frame*s.channels+ch] = s.waveform(sampleIndex, ch)
		}
	}

	s.generated += framesToWrite
	return framesToWrite * s.channels
}

// All drains the generator from its current position to completion,
// returning every sample it produces.
func (s *Source) All() []int16 {
	out := make([]int16, 0, s.totalSamples*s.channels)
	buf := make([]int16, 1024)
	for {
		n := s.ReadI16(buf)
		if n == 0 {
			return out
		}
		out = append(out, buf[:n]...)
	}
}
