package csvlate

import "strings"

const (
	Name        = "csvlate"
	Description = "Batch machine translation for CSV localization files"
	Version     = "0.1.0"
)

// Set by the release build:
//
//	go build -ldflags "-X github.com/ZaguanLabs/csvlate.GitCommit=$(git rev-parse HEAD)"
var (
	GitCommit = ""
	BuildDate = ""
)

// FullVersion is Version plus the short commit, when known: "0.1.0+1a2b3c4".
// Snapshot files record it so a store can be traced to the build that wrote it.
func FullVersion() string {
	commit := strings.TrimSpace(GitCommit)
	if commit == "" || commit == "unknown" {
		return Version
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return Version + "+" + commit
}

// UserAgent identifies csvlate to translation services.
func UserAgent() string {
	return Name + "/" + Version
}
