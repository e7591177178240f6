//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonde/internal/session"
)

var errProcessArgs = errors.New("expected exactly one argument: file path")

func processCommand() *cli.Command {
	flags := slices.Concat(outputFlags(), engineFlags(), []cli.Flag{
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based)",
			Value: 0,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Give up on a file after this long (0 = never)",
			Value:   10 * time.Minute,
		},
	})

	return &cli.Command{
		Name:      "process",
		Usage:     "Decode an audio file with ffmpeg and measure it",
		ArgsUsage: "<file>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errProcessArgs, cmd.NArg())
			}

			filePath := cmd.Args().First()

			if timeout := cmd.Duration("timeout"); timeout > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			reader, cleanup, err := openContainer(ctx, filePath, cmd.Int("stream"))
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

			return outputSummary(filePath, summary, cmd.String("format"), cmd.Bool("raw"))
		},
	}
}
