//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonde/internal/session"
	"github.com/farcloser/sonde/internal/ui"
)

func watchCommand() *cli.Command {
	flags := slices.Concat(formatFlags(), engineFlags(), []cli.Flag{
		&cli.IntFlag{
			Name:  "stream",
			Usage: "Audio stream index (0-based) of container input",
			Value: 0,
		},
		&cli.BoolFlag{
			Name:  "no-pacing",
			Usage: "Feed the meter as fast as the input is read instead of at its sample rate",
		},
	})

	return &cli.Command{
		Name:      "watch",
		Usage:     "Show live meters while playing a stream through the engine",
		ArgsUsage: "<file | ->",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			inputPath := cmd.Args().First()

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			reader, cleanup, err := openSource(ctx, cmd, inputPath)
			if err != nil {
				return err
			}
			defer cleanup()

			engine, err := newEngine(cmd)
			if err != nil {
				return err
			}

			opts := sessionOptions(cmd)
			opts.Realtime = !cmd.Bool("no-pacing")

			if err = engine.Prepare(float64(reader.Format().SampleRate), opts.BlockSize); err != nil {
				return err
			}
			defer engine.Release()

			program := tea.NewProgram(ui.NewModel(engine, filepath.Base(inputPath)), tea.WithAltScreen())
			fed := make(chan error, 1)

			go func() {
				_, feedErr := session.Feed(ctx, engine, reader, opts)
				program.Send(ui.DoneMsg{Err: feedErr})
				fed <- feedErr
			}()

			if _, err = program.Run(); err != nil {
				return fmt.Errorf("running meter: %w", err)
			}

			cancel()

			// A producer blocked on stdin is left behind.
			select {
			case err = <-fed:
				if err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
			default:
			}

			return nil
		},
	}
}
