// Package binary locates the external tools sonde shells out to.
package binary

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/farcloser/primordium/fault"
)

// Lookup resolves binName in PATH, failing with fault.ErrMissingRequirements when it is absent.
func Lookup(binName string) (string, error) {
	path, err := exec.LookPath(binName)
	if err != nil {
		slog.Debug("binary.Lookup", "name", binName, "error", err)

		return "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, binName)
	}

	return path, nil
}
