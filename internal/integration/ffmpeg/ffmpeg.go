package ffmpeg

import (
	"strconv"

	"github.com/farcloser/sonde/internal/types"
)

const name = "ffmpeg"

// sampleFormat is the raw muxer for bitDepth: 32 = s32le, 24 = s24le, 16 = s16le.
func sampleFormat(bitDepth types.BitDepth) string {
	//nolint:gosec // we fine, gosec
	return "s" + strconv.Itoa(int(bitDepth)) + "le"
}

func codec(bitDepth types.BitDepth) string {
	return "pcm_" + sampleFormat(bitDepth)
}
