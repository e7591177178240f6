//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonde"
	"github.com/farcloser/sonde/internal/session"
	"github.com/farcloser/sonde/internal/types"
)

var errInvalidBitDepth = errors.New("must be 16, 24, or 32")

// engineFlags configure the engine and the block size every command feeds it with.
func engineFlags() []cli.Flag {
	defaults := sonde.DefaultOptions()

	return []cli.Flag{
		&cli.IntFlag{
			Name:    "block-size",
			Usage:   "Frames handed to the engine per block",
			Value:   session.DefaultOptions().BlockSize,
			Sources: cli.EnvVars("SONDE_BLOCK_SIZE"),
		},
		&cli.IntFlag{
			Name:    "fft-size",
			Usage:   "Spectral frame length, a power of two",
			Value:   defaults.FFTSize,
			Sources: cli.EnvVars("SONDE_FFT_SIZE"),
		},
		&cli.IntFlag{
			Name:    "spectrum-slots",
			Usage:   "Spectral queue capacity",
			Value:   defaults.SpectrumSlots,
			Sources: cli.EnvVars("SONDE_SPECTRUM_SLOTS"),
		},
		&cli.IntFlag{
			Name:    "scope-slots",
			Usage:   "Scope queue capacity",
			Value:   defaults.ScopeSlots,
			Sources: cli.EnvVars("SONDE_SCOPE_SLOTS"),
		},
		&cli.IntFlag{
			Name:    "scope-batch",
			Usage:   "Sample pairs per scope batch",
			Value:   defaults.ScopeBatch,
			Sources: cli.EnvVars("SONDE_SCOPE_BATCH"),
		},
		&cli.IntFlag{
			Name:    "scope-decimation",
			Usage:   "Keep one sample pair out of this many for the scope",
			Value:   defaults.ScopeDecimation,
			Sources: cli.EnvVars("SONDE_SCOPE_DECIMATION"),
		},
	}
}

// formatFlags describe headerless PCM input.
func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "sample-rate",
			Aliases: []string{"s"},
			Usage:   "Sample rate in Hz of raw PCM input (e.g., 44100, 48000, 96000)",
		},
		&cli.IntFlag{
			Name:    "bit-depth",
			Aliases: []string{"b"},
			Usage:   "Bit depth of raw PCM input (16, 24, or 32)",
			Value:   32,
		},
		&cli.IntFlag{
			Name:    "channels",
			Aliases: []string{"c"},
			Usage:   "Number of channels of raw PCM input (1 = mono, 2 = stereo)",
			Value:   2,
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "Input kind: auto, raw, wav, container",
			Value:   inputAuto,
		},
	}
}

func newEngine(cmd *cli.Command) (*sonde.Engine, error) {
	return sonde.New(sonde.Options{
		FFTSize:         cmd.Int("fft-size"),
		SpectrumSlots:   cmd.Int("spectrum-slots"),
		ScopeSlots:      cmd.Int("scope-slots"),
		ScopeBatch:      cmd.Int("scope-batch"),
		ScopeDecimation: cmd.Int("scope-decimation"),
	})
}

func sessionOptions(cmd *cli.Command) session.Options {
	opts := session.DefaultOptions()
	opts.BlockSize = cmd.Int("block-size")

	return opts
}

func parsePCMFormat(cmd *cli.Command) (types.PCMFormat, error) {
	bitDepth, err := toBitDepth(cmd.Int("bit-depth"))
	if err != nil {
		return types.PCMFormat{}, fmt.Errorf("--bit-depth: %w", err)
	}

	return types.PCMFormat{
		SampleRate: cmd.Int("sample-rate"),
		BitDepth:   bitDepth,
		Channels:   uint(cmd.Int("channels")), //nolint:gosec // validated by the reader
	}, nil
}

func toBitDepth(v int) (types.BitDepth, error) {
	switch v {
	case 16:
		return types.Depth16, nil
	case 24:
		return types.Depth24, nil
	case 32:
		return types.Depth32, nil
	default:
		return 0, errInvalidBitDepth
	}
}
