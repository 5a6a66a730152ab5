// based on https://github.com/kubernetes-sigs/cluster-api/version/version.go

// Package version implements version handling code.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	gitVersion string // semantic version, derived by build scripts
	gitCommit  string // sha1 from git, output of $(git rev-parse HEAD)
)

// Info exposes information about the version used for the current running code.
type Info struct {
	GitVersion string `json:"gitVersion,omitempty"`
	GitCommit  string `json:"gitCommit,omitempty"`
	GoVersion  string `json:"goVersion,omitempty"`
}

// Get returns an Info object with all the information about the current running code.
// Builds without ldflags fall back to the module build info.
func Get() *Info {
	info := &Info{
		GitVersion: gitVersion,
		GitCommit:  gitCommit,
		GoVersion:  runtime.Version(),
	}
	if build, ok := debug.ReadBuildInfo(); ok {
		if info.GitVersion == "" && build.Main.Version != "(devel)" {
			info.GitVersion = build.Main.Version
		}
		if info.GitCommit == "" {
			for _, setting := range build.Settings {
				if setting.Key == "vcs.revision" {
					info.GitCommit = setting.Value
				}
			}
		}
	}
	return info
}

func (i *Info) String() string {
	return fmt.Sprintf("version: %s, commit: %s, go: %s", i.GitVersion, i.GitCommit, i.GoVersion)
}

func (i *Info) Print(name string) {
	fmt.Printf("%s info - %s\n", name, i)
}
