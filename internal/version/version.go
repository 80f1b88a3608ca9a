// Package version provides build and release information for eggshell.
// The values below are overridden at build time via -ldflags.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version of the toolkit.
	Version = "0.3.0"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

// releaseNames maps minor release lines to their names.
var releaseNames = map[string]string{
	"0.1.0": "Yolk",
	"0.2.0": "Albumen",
	"0.3.0": "Membrane",
	"0.4.0": "Hatchling",
	"1.0.0": "Fledgling",
}

// Info describes the running build.
type Info struct {
	Version   string          `json:"version" yaml:"version"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
	GitCommit string          `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string          `json:"buildDate" yaml:"buildDate"`
	GoVersion string          `json:"goVersion" yaml:"goVersion"`
	Platform  string          `json:"platform" yaml:"platform"`
	SemVer    *semver.Version `json:"-" yaml:"-"`
}

// ReleaseName returns the name of the release line v belongs to, or an empty
// string when the line has no name or v is not a semantic version.
func ReleaseName(v string) string {
	if name, ok := releaseNames[v]; ok {
		return name
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return ""
	}
	return releaseNames[fmt.Sprintf("%d.%d.0", sv.Major(), sv.Minor())]
}

// GetInfo returns the build information. It fails when Version is not a
// semantic version.
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version %q: %w", Version, err)
	}
	return &Info{
		Version:   Version,
		Name:      ReleaseName(Version),
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// Short returns a one-line version string such as
// "eggshell v0.3.0 'Membrane', commit abc1234".
func Short() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("eggshell v%s (invalid version)", Version)
	}

	head := "eggshell v" + info.Version
	if info.Name != "" {
		head += fmt.Sprintf(" '%s'", info.Name)
	}
	parts := []string{head}

	if known(info.GitCommit) {
		commit := info.GitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		parts = append(parts, "commit "+commit)
	}
	if known(info.BuildDate) {
		parts = append(parts, "built "+info.BuildDate)
	}
	return strings.Join(parts, ", ")
}

// Detailed returns multi-line build information.
func Detailed() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("eggshell v%s (error: %v)", Version, err)
	}

	lines := []string{"eggshell v" + info.Version}
	if info.Name != "" {
		lines = append(lines, "Release: "+info.Name)
	}
	if meta := info.SemVer.Metadata(); meta != "" {
		lines = append(lines, "Build Metadata: "+meta)
	}
	lines = append(lines,
		"Git Commit: "+info.GitCommit,
		"Build Date: "+info.BuildDate,
		"Go Version: "+info.GoVersion,
		"Platform: "+info.Platform,
	)
	return strings.Join(lines, "\n")
}

// IsPrerelease reports whether Version carries a prerelease suffix.
func IsPrerelease() bool {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	return sv.Prerelease() != ""
}

// IsDevelopment reports whether build information was not injected.
func IsDevelopment() bool {
	return !known(GitCommit) || !known(BuildDate)
}

// Compare compares two version strings and returns -1, 0 or 1.
func Compare(v1, v2 string) (int, error) {
	sv1, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", v1, err)
	}
	sv2, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", v2, err)
	}
	return sv1.Compare(sv2), nil
}

// Satisfies reports whether Version matches a constraint such as ">= 0.2".
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("invalid semantic version %q: %w", Version, err)
	}
	return c.Check(sv), nil
}

// SetBuildInfo overrides the build information.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}

func known(s string) bool {
	return s != "" && s != "unknown"
}
