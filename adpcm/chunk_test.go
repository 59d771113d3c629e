package adpcm

import "testing"

func TestFrameCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{28, 1},
		{29, 2},
		{30, 2},
		{56, 2},
	}

	for _, tt := range tests {
		if got := FrameCount(tt.n); got != tt.want {
			t.Errorf("FrameCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestFramesAndSamplesPerChunk(t *testing.T) {
	t.Parallel()

	if got := FramesPerChunk(2048); got != 128 {
		t.Errorf("FramesPerChunk(2048) = %d, want 128", got)
	}
	if got := SamplesPerChunk(2048); got != 128*28 {
		t.Errorf("SamplesPerChunk(2048) = %d, want %d", got, 128*28)
	}
}

func TestChunkCount(t *testing.T) {
	t.Parallel()

	samplesPerChunk := SamplesPerChunk(2048)

	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{128, 1},
		{samplesPerChunk, 1},
		{samplesPerChunk + 1, 2},
		{300, 1},
	}

	for _, tt := range tests {
		if got := ChunkCount(tt.n, samplesPerChunk); got != tt.want {
			t.Errorf("ChunkCount(%d, %d) = %d, want %d", tt.n, samplesPerChunk, got, tt.want)
		}
	}
}

func TestTerminalFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		isLastChunk        bool
		streamingLoopFlags bool
		want               byte
	}{
		{"non-terminal, no loop flags", false, false, 0x00},
		{"terminal, no loop flags", true, false, FlagEnd},
		{"non-terminal, loop flags", false, true, FlagRepeat | FlagEnd},
		{"terminal, loop flags", true, true, FlagRepeat | FlagEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TerminalFlags(tt.isLastChunk, tt.streamingLoopFlags); got != tt.want {
				t.Errorf("TerminalFlags(%v, %v) = %#x, want %#x", tt.isLastChunk, tt.streamingLoopFlags, got, tt.want)
			}
		})
	}
}
