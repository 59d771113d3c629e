package adpcm

// FrameCount returns ceil(n/SamplesPerFrame), the number of frames needed
// to hold n samples: a non-interleaved channel's full length, or one
// channel's share of a single interleaved chunk.
func FrameCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + SamplesPerFrame - 1) / SamplesPerFrame
}

// FramesPerChunk returns how many frames one channel contributes to an
// interleaved chunk of chunkSize bytes.
func FramesPerChunk(chunkSize int) int {
	return chunkSize / FrameSize
}

// SamplesPerChunk returns how many samples one channel contributes to an
// interleaved chunk of chunkSize bytes.
func SamplesPerChunk(chunkSize int) int {
	return FramesPerChunk(chunkSize) * SamplesPerFrame
}

// ChunkCount returns ceil(n/samplesPerChunk), the number of chunks needed
// to hold n samples in one channel.
func ChunkCount(n, samplesPerChunk int) int {
	if samplesPerChunk <= 0 || n <= 0 {
		return 0
	}
	return (n + samplesPerChunk - 1) / samplesPerChunk
}

// TerminalFlags computes the flag byte stamped on the last frame of a
// chunk, or on the single trailing frame of a non-interleaved stream
// (which has no chunk structure and always passes streamingLoopFlags as
// false). isLastChunk marks the stream's final chunk.
func TerminalFlags(isLastChunk, streamingLoopFlags bool) byte {
	var flags byte
	if streamingLoopFlags {
		flags |= FlagRepeat | FlagEnd
	}
	if isLastChunk {
		flags |= FlagEnd
	}
	return flags
}
