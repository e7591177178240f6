// Package version exposes build identification, populated through ldflags:
//
//	-X github.com/farcloser/sonde/version.version=v1.2.3
//	-X github.com/farcloser/sonde/version.commit=abcdef
package version

import "runtime/debug"

const name = "sonde"

//nolint:gochecknoglobals // set by the linker
var (
	version = ""
	commit  = ""
)

// Name is the application name.
func Name() string {
	return name
}

// Version is the release version, or the module version recorded by the go tool when not set
// at link time.
func Version() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "dev"
}

// Commit is the vcs revision the binary was built from.
func Commit() string {
	if commit != "" {
		return commit
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}
