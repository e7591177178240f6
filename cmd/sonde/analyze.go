//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonde/internal/session"
)

func analyzeCommand() *cli.Command {
	flags := slices.Concat(formatFlags(), outputFlags(), engineFlags(), []cli.Flag{
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based) of container input",
			Value: 0,
		},
	})

	return &cli.Command{
		Name:      "analyze",
		Usage:     "Measure a raw PCM or WAV stream as fast as it can be read",
		ArgsUsage: "<file | ->",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			inputPath := cmd.Args().First()

			reader, cleanup, err := openSource(ctx, cmd, inputPath)
			if err != nil {
				return err
			}
			defer cleanup()

			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}

			summary, err := session.Run(ctx, engine, reader, sessionOptions(cmd))
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			return outputSummary(inputPath, summary, cmd.String("format"), cmd.Bool("raw"))
		},
	}
}
