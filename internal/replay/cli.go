package replay

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/clparker78/straight-razor-draft/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging sends log output to stdout and, when logFile is set, to that
// file as well.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	var (
		w       io.Writer = os.Stdout
		closeFn           = func() {}
	)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closeFn = func() { _ = f.Close() }
	}
	if err := logger.InitWith(w, "text"); err != nil {
		closeFn()
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// Defaults for the replay command.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultDelay   = 2 * time.Second
	DefaultTimeout = 10 * time.Second
	DefaultTopN    = 10
	DefaultSettle  = time.Second
)

// ShowHelp prints usage information.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Draft replay
============

Replays a recorded first round against a running leaderboard service
(results_mode=manual) and prints the resulting standings.

Usage:
  go run ./cmd/replay -results results.csv [options]

Options:
  -url string        Base URL of the service (default "http://localhost:9080")
  -results string    CSV with Pick, Player and Team columns
  -delay duration    Pause between picks (default 2s)
  -timeout duration  HTTP request timeout (default 10s)
  -top int           Leaderboard rows to print (default 10)
  -settle duration   Wait before reading the leaderboard back (default 1s)
  -refresh           Request a cache clearing refresh after the last pick
  -log string        Also write log output to this file
  -verbose           Log every pick
  -help              Show this help message

Examples:
  go run ./cmd/replay -results testdata/2024.csv -delay 0
  go run ./cmd/replay -results picks.csv -url http://localhost:8080 -refresh
`)
}
