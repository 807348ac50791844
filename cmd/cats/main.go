// Command cats is the cost- and deadline-aware timeline scheduler CLI.
package main

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "manual"
)

func main() {
	Execute(version, commit, date, builtBy)
}
