package main

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

const (
	hotPeakDB      = -0.1
	loudLUFS       = -9.0
	quietLUFS      = -23.0
	silentLUFS     = -70.0
	outOfPhaseFrom = 0.6
	monoBelow      = 0.01
)

var errDigestArgs = errors.New("expected exactly one argument: path to report.jsonl")

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a sonde JSONL report",
		ArgsUsage: "<report.jsonl[.gz]>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "finding",
				Usage: "Show files with a specific finding: hot, true-peak-over, loud, quiet, out-of-phase, mono",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errDigestArgs
			}

			return runDigest(cmd.Args().First(), cmd.String("finding"))
		},
	}
}

func runDigest(reportPath, findingFilter string) error {
	records, rawLines, err := readRecordsWithRaw(reportPath)
	if err != nil {
		return err
	}

	printDigest(records)

	if findingFilter != "" {
		printFindingDetail(records, rawLines, findingFilter)
	}

	return nil
}

func readRecordsWithRaw(path string) ([]digestRecord, [][]byte, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var source io.Reader = file

	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening report: %w", err)
		}
		defer gzReader.Close()

		source = gzReader
	}

	var (
		records []digestRecord
		lines   [][]byte
	)

	scanner := bufio.NewScanner(source)

	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)

	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)

		var rec digestRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			records = append(records, digestRecord{Error: "parse error"})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading report: %w", err)
	}

	return records, lines, nil
}

// findings lists what stands out in one measured track.
func findings(analysis *digestAnalysis) []string {
	var found []string

	if max(analysis.Levels.PeakHoldLeft, analysis.Levels.PeakHoldRight) >= hotPeakDB {
		found = append(found, "hot")
	}

	if max(analysis.Levels.TruePeakLeft, analysis.Levels.TruePeakRight) > 0 {
		found = append(found, "true-peak-over")
	}

	switch loudness := analysis.Loudness.Integrated; {
	case loudness > loudLUFS:
		found = append(found, "loud")
	case loudness > silentLUFS && loudness < quietLUFS:
		found = append(found, "quiet")
	}

	switch width := analysis.Scope.AverageWidth; {
	case width > outOfPhaseFrom:
		found = append(found, "out-of-phase")
	case width < monoBelow && analysis.DurationSeconds > 0:
		found = append(found, "mono")
	}

	return found
}

// loudnessBucket names the integrated loudness range of a track.
func loudnessBucket(lufs float64) string {
	switch {
	case lufs <= silentLUFS:
		return "silent"
	case lufs > loudLUFS:
		return "above -9"
	case lufs > -14:
		return "-14 to -9"
	case lufs > -18:
		return "-18 to -14"
	case lufs >= quietLUFS:
		return "-23 to -18"
	default:
		return "below -23"
	}
}

//nolint:gochecknoglobals // display order, effectively const
var bucketOrder = []string{"above -9", "-14 to -9", "-18 to -14", "-23 to -18", "below -23", "silent"}

func printDigest(records []digestRecord) {
	total := len(records)
	errors := 0
	buckets := map[string]int{}
	depths := map[int]int{}
	findingStats := map[string]*findingBreakdown{}

	var (
		loudnessSum   float64
		loudnessCount int
		duration      float64
	)

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			errors++

			continue
		}

		integrated := rec.Analysis.Loudness.Integrated
		buckets[loudnessBucket(integrated)]++
		depths[rec.SourceBitDepth]++
		duration += rec.Analysis.DurationSeconds

		if integrated > silentLUFS {
			loudnessSum += integrated
			loudnessCount++
		}

		for _, finding := range findings(rec.Analysis) {
			breakdown, ok := findingStats[finding]
			if !ok {
				breakdown = &findingBreakdown{Finding: finding}
				findingStats[finding] = breakdown
			}

			breakdown.Total++
		}
	}

	measured := total - errors

	fmt.Println("=== Sonde Report Digest ===")
	fmt.Println()
	fmt.Printf("Total tracks:  %d\n", total)
	fmt.Printf("Failed:        %d\n", errors)
	fmt.Printf("Measured:      %d\n", measured)
	fmt.Printf("Duration:      %.1f min\n", duration/60)
	fmt.Println()

	fmt.Println("--- Integrated Loudness (LUFS, approximate) ---")

	if loudnessCount > 0 {
		fmt.Printf("  Average:     %.1f\n", loudnessSum/float64(loudnessCount))
	}

	for _, bucket := range bucketOrder {
		if count := buckets[bucket]; count > 0 {
			fmt.Printf("  %-11s  %d tracks\n", bucket+":", count)
		}
	}

	fmt.Println()

	fmt.Println("--- Source Bit Depth ---")

	for _, depth := range slices.Sorted(maps.Keys(depths)) {
		label := "lossy/unknown"
		if depth > 0 {
			label = fmt.Sprintf("%d-bit", depth)
		}

		fmt.Printf("  %-14s %d tracks\n", label+":", depths[depth])
	}

	fmt.Println()

	fmt.Println("--- Findings ---")

	breakdowns := make([]*findingBreakdown, 0, len(findingStats))
	for _, bd := range findingStats {
		breakdowns = append(breakdowns, bd)
	}

	slices.SortFunc(breakdowns, func(a, b *findingBreakdown) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}

		return strings.Compare(a.Finding, b.Finding)
	})

	for _, bd := range breakdowns {
		fmt.Printf("  %-13s %d tracks\n", bd.Finding+":", bd.Total)
	}
}

//nolint:gochecknoglobals
var findingKeyMap = map[string]string{
	"hot":            "levels",
	"true-peak-over": "levels",
	"loud":           "loudness",
	"quiet":          "loudness",
	"out-of-phase":   "scope",
	"mono":           "scope",
}

type findingEntry struct {
	file     string
	loudness float64
	detail   map[string]any
}

func printFindingDetail(records []digestRecord, rawLines [][]byte, finding string) {
	fmt.Println()

	var entries []findingEntry

	detailKey := findingKeyMap[finding]

	for idx, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			continue
		}

		if !slices.Contains(findings(rec.Analysis), finding) {
			continue
		}

		entry := findingEntry{
			file:     rec.File,
			loudness: rec.Analysis.Loudness.Integrated,
		}

		if entry.file == "" {
			entry.file = "(redacted)"
		}

		// Extract detail from raw JSONL line.
		if detailKey != "" && idx < len(rawLines) {
			entry.detail = extractDetailFromRaw(rawLines[idx], detailKey)
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		fmt.Printf("No tracks with finding %s\n", finding)

		return
	}

	slices.SortFunc(entries, func(a, b findingEntry) int {
		switch {
		case a.loudness > b.loudness:
			return -1
		case a.loudness < b.loudness:
			return 1
		default:
			return strings.Compare(a.file, b.file)
		}
	})

	fmt.Printf("=== %s: %d tracks ===\n\n", finding, len(entries))

	for _, entry := range entries {
		fmt.Printf("  %s\n", entry.file)
		fmt.Printf("    integrated: %.1f LUFS\n", entry.loudness)

		keys := make([]string, 0, len(entry.detail))
		for key := range entry.detail {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		for _, key := range keys {
			fmt.Printf("    %s: %s\n", key, formatDetailValue(entry.detail[key]))
		}

		fmt.Println()
	}
}

func extractDetailFromRaw(rawLine []byte, key string) map[string]any {
	var full struct {
		Analysis map[string]any `json:"analysis"`
	}

	if err := json.Unmarshal(rawLine, &full); err != nil {
		return nil
	}

	if full.Analysis == nil {
		return nil
	}

	if detail, ok := full.Analysis[key].(map[string]any); ok {
		return detail
	}

	return nil
}

func formatDetailValue(value any) string {
	switch val := value.(type) {
	case []any:
		return fmt.Sprintf("%d entries", len(val))
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", value)
	}
}
