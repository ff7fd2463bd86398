package version

// Version is set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/pagesmith/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata, also injected via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return "pagesmith " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
