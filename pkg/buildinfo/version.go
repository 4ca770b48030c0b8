// Package buildinfo reports which versionwatch build is running.
//
// Release builds stamp the values with ldflags:
//
//	-X github.com/matzehuels/versionwatch/pkg/buildinfo.Version=v0.3.0
//	-X github.com/matzehuels/versionwatch/pkg/buildinfo.Commit=<sha>
//	-X github.com/matzehuels/versionwatch/pkg/buildinfo.Date=<RFC 3339>
//
// Binaries built with `go install module@version` carry no ldflags; for them
// the module version and VCS stamp recorded by the toolchain are used.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var fillOnce sync.Once

func fill() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fillFrom(info)
	})
}

func fillFrom(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns a three-line summary of version, commit and build date.
func String() string {
	fill()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template for the root command.
func Template() string {
	fill()
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies versionwatch to artifact repositories.
func UserAgent() string {
	fill()
	return "versionwatch/" + Version + " (+https://github.com/matzehuels/versionwatch)"
}
