package tests_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output lacks a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectMetricKeys returns a comparator verifying the raw output carries every register metric.
func expectMetricKeys() test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for _, key := range []string{
			"peak_left_db", "rms_right_db", "momentary_lufs", "short_term_lufs", "integrated_lufs",
			"correlation", "low_rms_db", "high_rms_db", "spectra_dropped", "peak_frequency_hz",
		} {
			if !strings.Contains(stdout, key) {
				testing.Log(fmt.Sprintf("metric %q not found in output:\n%s", key, stdout))
				testing.Fail()
			}
		}
	}
}

// sinePCM renders seconds of a 16-bit little-endian interleaved sine. The right channel is
// multiplied by rightGain.
func sinePCM(freq float64, sampleRate, seconds int, rightGain float64) *bytes.Reader {
	frames := sampleRate * seconds
	buf := make([]byte, 0, frames*4)

	for n := range frames {
		v := 0.5 * math.Sin(2*math.Pi*freq*float64(n)/float64(sampleRate))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(v*math.MaxInt16)))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(v*rightGain*math.MaxInt16)))
	}

	return bytes.NewReader(buf)
}
