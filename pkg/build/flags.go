// SPDX-License-Identifier: MIT
//
// Package build exposes build metadata injected at compile time via
// linker flags, for example:
//
//	go build -ldflags "-X spectro/pkg/build.buildName=spectro \
//	    -X spectro/pkg/build.buildVersion=0.1.0"
//
// During development the fields fall back to "dev" defaults so the
// binary still runs without ldflags.
package build

// Info holds the build metadata for the running binary.
type Info struct {
	Name        string // Application name
	Description string // One-line description shown by the CLI
	Version     string // Semantic version
	Commit      string // Git commit hash
	Time        string // Build timestamp (RFC3339)
}

// Package-level variables populated by -ldflags during compilation.
var (
	buildName    string
	buildVersion string
	buildCommit  string
	buildTime    string

	info = &Info{
		Name:        "spectro",
		Description: "Streaming piano-key spectrogram for live audio input",
		Version:     "dev",
		Commit:      "unknown",
		Time:        "unknown",
	}
)

// Initialize copies any ldflags-provided values over the development
// defaults. It should be called once, early in program startup.
func Initialize() {
	if buildName != "" {
		info.Name = buildName
	}
	if buildVersion != "" {
		info.Version = buildVersion
	}
	if buildCommit != "" {
		info.Commit = buildCommit
	}
	if buildTime != "" {
		info.Time = buildTime
	}
}

// GetInfo returns the current build metadata. Safe to call at any time;
// values are only mutated by Initialize.
func GetInfo() *Info {
	return info
}
