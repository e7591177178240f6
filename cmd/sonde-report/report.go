//nolint:wrapcheck
package main

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/farcloser/sonde"
	"github.com/farcloser/sonde/internal/integration/ffmpeg"
	"github.com/farcloser/sonde/internal/integration/ffprobe"
	"github.com/farcloser/sonde/internal/output"
	"github.com/farcloser/sonde/internal/pcm"
	"github.com/farcloser/sonde/internal/session"
	"github.com/farcloser/sonde/internal/types"
)

const outputFile = "sonde-report.jsonl"

var (
	errReportArgs   = errors.New("expected exactly one argument: folder path")
	errNotDirectory = errors.New("not a directory")
	errNoAudioFiles = errors.New("no audio files found")
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Scan a music collection and write a sonde JSONL report",
		ArgsUsage: "<folder>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "redact-path",
				Usage: "Strip file paths from the report",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent workers",
				Value:   runtime.NumCPU(),
			},
			&cli.StringSliceFlag{
				Name:    "extension",
				Aliases: []string{"e"},
				Usage:   "File extensions to measure",
				Value:   []string{"flac", "m4a", "wav"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "Give up on a file after this long (0 = never)",
				Value:   10 * time.Minute,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errReportArgs
			}

			folder := cmd.Args().First()
			redact := cmd.Bool("redact-path")
			workers := max(cmd.Int("workers"), 1)

			files, err := collectAudioFiles(folder, cmd.StringSlice("extension"))
			if err != nil {
				return err
			}

			return runReport(ctx, files, redact, workers, cmd.Duration("timeout"))
		},
	}
}

func runReport(ctx context.Context, files []string, redact bool, workers int, timeout time.Duration) error {
	fmt.Fprintf(os.Stderr, "Found %d files to measure (%d workers)\n", len(files), workers)

	startTime := time.Now()
	records := measureAll(ctx, files, workers, timeout)

	stats, err := writeRecords(outputFile, records, redact)
	if err != nil {
		return err
	}

	if err := compressFile(outputFile); err != nil {
		slog.Error("compressing report", "error", err)
	}

	elapsed := time.Since(startTime)

	fmt.Fprintf(os.Stderr, "\nDone: %d files in %s (%d failed)\n", len(files), elapsed.Truncate(time.Second), stats.failed)
	fmt.Fprintf(os.Stderr, "Report written to %s (and %s.gz)\n", outputFile, outputFile)

	printTiming(elapsed, stats, len(files)-stats.failed)
	fmt.Fprintln(os.Stderr)

	return runDigest(outputFile, "")
}

// measureAll runs at most workers files at once and returns one record per file, in input order.
func measureAll(ctx context.Context, files []string, workers int, timeout time.Duration) []Record {
	records := make([]Record, len(files))

	var progress atomic.Int64

	group := &errgroup.Group{}
	group.SetLimit(workers)

	for idx, filePath := range files {
		group.Go(func() error {
			records[idx] = processFile(ctx, filePath, timeout)

			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", progress.Add(1), len(files), filePath)

			return nil
		})
	}

	_ = group.Wait()

	return records
}

type reportStats struct {
	failed  int
	probe   time.Duration
	measure time.Duration
}

func writeRecords(path string, records []Record, redact bool) (reportStats, error) {
	var stats reportStats

	out, err := os.Create(path)
	if err != nil {
		return stats, fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	buffered := bufio.NewWriter(out)
	enc := json.NewEncoder(buffered)

	for idx := range records {
		record := &records[idx]

		if record.Error != "" {
			stats.failed++
		}

		if record.Timing != nil {
			stats.probe += millisToDuration(record.Timing.ProbeMs)
			stats.measure += millisToDuration(record.Timing.MeasureMs)
		}

		name := record.File

		if redact {
			record.File = ""
			record.Probe = redactProbe(record.Probe)
		}

		if err := enc.Encode(record); err != nil {
			slog.Error("writing record", "file", name, "error", err)
		}
	}

	if err := buffered.Flush(); err != nil {
		return stats, fmt.Errorf("writing output file: %w", err)
	}

	return stats, out.Close()
}

func printTiming(elapsed time.Duration, stats reportStats, measured int) {
	fmt.Fprintf(os.Stderr, "\nTiming\n")
	fmt.Fprintf(os.Stderr, "  wall clock  %s\n", elapsed.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  ffprobe     %s cumulative\n", stats.probe.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  measure     %s cumulative, decoding included\n", stats.measure.Truncate(time.Millisecond))

	if measured > 0 {
		per := time.Duration(measured)
		fmt.Fprintf(os.Stderr, "  per file    %s (probe %s, measure %s)\n",
			(stats.probe+stats.measure)/per,
			stats.probe/per,
			stats.measure/per,
		)
	}
}

func processFile(ctx context.Context, filePath string, timeout time.Duration) Record {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fileStart := time.Now()
	timing := &RecordTiming{}

	// Probe.
	probeStart := time.Now()

	probeResult, err := ffprobe.Probe(ctx, filePath)

	timing.ProbeMs = durationMs(time.Since(probeStart))

	if err != nil {
		return Record{File: filePath, Error: fmt.Sprintf("probe failed: %v", err), Timing: timing}
	}

	stream, err := probeResult.AudioStream(0)
	if err != nil {
		return Record{File: filePath, Error: fmt.Sprintf("no audio stream: %v", err), Timing: timing}
	}

	pcmFormat, err := stream.PCMFormat(types.Depth32)
	if err != nil {
		return Record{File: filePath, Error: fmt.Sprintf("format error: %v", err), Timing: timing}
	}

	// Decode and measure as the PCM streams out of ffmpeg.
	measureStart := time.Now()

	summary, err := measure(ctx, filePath, pcmFormat)

	timing.MeasureMs = durationMs(time.Since(measureStart))
	timing.TotalMs = durationMs(time.Since(fileStart))

	if err != nil {
		return Record{File: filePath, Error: fmt.Sprintf("measurement failed: %v", err), Timing: timing}
	}

	record := Record{
		File:           filePath,
		Codec:          stream.CodecName,
		SourceBitDepth: stream.SourceBitDepth(),
		Analysis:       output.SummaryToMap(summary),
		Timing:         timing,
	}

	probeJSON, err := json.Marshal(probeResult)
	if err == nil {
		record.Probe = probeJSON
	} else {
		record.ProbeError = "probe serialization failed"
	}

	return record
}

func measure(ctx context.Context, filePath string, format types.PCMFormat) (*session.Summary, error) {
	extracted, err := ffmpeg.Stream(ctx, filePath, 0, types.Depth32)
	if err != nil {
		return nil, err
	}
	defer extracted.Close()

	reader, err := pcm.NewRawReader(bufio.NewReader(extracted), format)
	if err != nil {
		return nil, err
	}

	engine, err := sonde.New(sonde.DefaultOptions())
	if err != nil {
		return nil, err
	}

	return session.Run(ctx, engine, reader, session.DefaultOptions())
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func collectAudioFiles(root string, extensions []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%q: %w", root, errNotDirectory)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted["."+strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning folder: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%q: %w", root, errNoAudioFiles)
	}

	slices.Sort(files)

	return files, nil
}

func compressFile(path string) error {
	src, err := os.Open(path) //nolint:gosec // our own output file
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer dst.Close()

	gzWriter := gzip.NewWriter(dst)

	if _, err := io.Copy(gzWriter, src); err != nil {
		return err
	}

	if err := gzWriter.Close(); err != nil {
		return err
	}

	return dst.Close()
}

func redactProbe(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}

	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return raw
	}

	if format, ok := probe["format"].(map[string]any); ok {
		delete(format, "filename")
	}

	redacted, err := json.Marshal(probe)
	if err != nil {
		return raw
	}

	return redacted
}
