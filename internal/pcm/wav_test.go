package pcm

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/farcloser/sonde/internal/types"
)

func writeWAV(t *testing.T, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	encoder := wav.NewEncoder(file, sampleRate, bitDepth, channels, 1)

	err = encoder.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err = encoder.Close(); err != nil {
		t.Fatal(err)
	}

	if err = file.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func openWAV(t *testing.T, path string) *WAVReader {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = file.Close() })

	reader, err := NewWAVReader(file)
	if err != nil {
		t.Fatal(err)
	}

	return reader
}

func TestWAVReaderStereo(t *testing.T) {
	path := writeWAV(t, 44100, 16, 2, []int{16384, -16384, -32768, 8192, 0, 0})
	reader := openWAV(t, path)

	want := types.PCMFormat{SampleRate: 44100, BitDepth: types.Depth16, Channels: 2}
	if reader.Format() != want {
		t.Fatalf("format = %+v", reader.Format())
	}

	left, right := make([]float64, 2), make([]float64, 2)

	n, err := reader.ReadBlock(left, right)
	if err != nil || n != 2 {
		t.Fatalf("n = %d, err = %v", n, err)
	}

	if left[0] != 0.5 || right[0] != -0.5 || left[1] != -1 || right[1] != 0.25 {
		t.Errorf("frames = %v %v", left, right)
	}

	n, err = reader.ReadBlock(left, right)
	if err != nil || n != 1 {
		t.Fatalf("last block: n = %d, err = %v", n, err)
	}

	if _, err = reader.ReadBlock(left, right); !errors.Is(err, io.EOF) {
		t.Errorf("end of data: err = %v", err)
	}
}

func TestWAVReaderMono24(t *testing.T) {
	path := writeWAV(t, 96000, 24, 1, []int{4194304, -8388608})
	reader := openWAV(t, path)

	left, right := make([]float64, 4), make([]float64, 4)

	n, err := reader.ReadBlock(left, right)
	if err != nil || n != 2 {
		t.Fatalf("n = %d, err = %v", n, err)
	}

	if left[0] != 0.5 || right[0] != 0.5 || left[1] != -1 || right[1] != -1 {
		t.Errorf("frames = %v %v", left[:2], right[:2])
	}
}

func TestWAVReaderRejectsGarbage(t *testing.T) {
	if _, err := NewWAVReader(bytes.NewReader([]byte("definitely not a riff file"))); err == nil {
		t.Error("garbage accepted")
	}
}
