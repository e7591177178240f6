package types

type BitDepth uint

const (
	Depth16 BitDepth = 16
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// Bytes is the storage size of one sample.
func (b BitDepth) Bytes() int {
	return int(b / 8) //nolint:gosec // audio format values are small constants
}

// FullScale is the magnitude of the most negative sample value, used to normalize to [-1, 1).
func (b BitDepth) FullScale() float64 {
	return float64(uint64(1) << (b - 1))
}

// PCMFormat describes interleaved little-endian signed integer PCM.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// FrameSize is the size in bytes of one sample for every channel.
func (f PCMFormat) FrameSize() int {
	return f.BitDepth.Bytes() * int(f.Channels) //nolint:gosec // channel counts are small
}
