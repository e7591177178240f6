package binary_test

import (
	"errors"
	"testing"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/sonde/internal/integration/binary"
)

func TestLookupMissing(t *testing.T) {
	t.Parallel()

	_, err := binary.Lookup("sonde-no-such-tool-on-path")
	if !errors.Is(err, fault.ErrMissingRequirements) {
		t.Fatalf("got %v, want ErrMissingRequirements", err)
	}
}

func TestLookupEmptyPath(t *testing.T) {
	t.Setenv("PATH", "")

	if _, err := binary.Lookup("ffmpeg"); err == nil {
		t.Fatal("expected lookup to fail with an empty PATH")
	}
}
