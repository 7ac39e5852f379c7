package version

import "fmt"

// Set at build time via -ldflags.
var (
	Release   = "dev"
	GitCommit = "unknown"
)

func GetRelease() string {
	return Release
}

func GetGitCommit() string {
	return GitCommit
}

// Full returns "<release>-<commit>".
func Full() string {
	return fmt.Sprintf("%s-%s", Release, GitCommit)
}
