// Package testutils provides test infrastructure for sonde integration tests.
package testutils

import (
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Setup creates a test case configured to run the sonde binary.
func Setup() *test.Case {
	return SetupBinary("sonde")
}

// SetupBinary creates a test case configured to run the named binary from bin/.
func SetupBinary(name string) *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", name)

	return agar.Setup(binaryPath)
}
