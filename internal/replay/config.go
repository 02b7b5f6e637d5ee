// Package replay feeds a recorded first round into a running leaderboard
// service one pick at a time, then reads back the standings.
package replay

import (
	"errors"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/domain/types"
)

// Errors returned by Run.
var (
	ErrNoBaseURL    = errors.New("replay: base url is required")
	ErrNoResults    = errors.New("replay: results file is required")
	ErrEmptyResults = errors.New("replay: results file holds no picks")
	ErrUnhealthy    = errors.New("replay: service is not healthy")
)

// Config holds replay settings.
type Config struct {
	BaseURL     string        // service base url
	ResultsPath string        // CSV with Pick, Player and Team columns
	Delay       time.Duration // pause between picks
	Timeout     time.Duration // per request timeout
	TopN        int           // leaderboard rows to fetch at the end
	Settle      time.Duration // wait after the last pick before reading back
	Refresh     bool          // also request a cache clearing refresh at the end
	Verbose     bool
}

// Stats summarizes a replay.
type Stats struct {
	Picks      int
	Accepted   int
	Duplicate  int
	Failed     int
	Leader     string
	Standings  []types.Standing
	Commentary []string
	Duration   time.Duration
}
