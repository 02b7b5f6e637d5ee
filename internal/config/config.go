// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config holding every default.
// - Load(ctx) layers a YAML file, a .env file and DRAFT_ env vars on top.
// - Validate reports problems wrapped with ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Results modes.
const (
	ResultsModeSheet  = "sheet"
	ResultsModeManual = "manual"
)

// Entry width policies.
const (
	EntryPolicyLenient = "lenient"
	EntryPolicyStrict  = "strict"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ResultsMode selects where reported picks come from: sheet or manual.
	ResultsMode string `koanf:"results_mode"`

	// ResultsURL is the CSV export URL of the results spreadsheet.
	ResultsURL string `koanf:"results_url"`

	// ResultsTTL is how long loaded results are reused.
	ResultsTTL time.Duration `koanf:"results_ttl"`

	// EntriesPath points at the .xlsx or .csv entries file.
	EntriesPath string `koanf:"entries_path"`

	// EntriesSheet names the worksheet to read; empty means the first sheet.
	EntriesSheet string `koanf:"entries_sheet"`

	// EntriesTTL is how long loaded entries are reused; 0 keeps them until cleared.
	EntriesTTL time.Duration `koanf:"entries_ttl"`

	// NameColumn and FirstPickColumn are zero-based column indexes in the entries file.
	NameColumn      int `koanf:"name_column"`
	FirstPickColumn int `koanf:"first_pick_column"`

	// EntryPolicy decides what happens to entries that do not hold exactly 32 guesses.
	EntryPolicy string `koanf:"entry_policy"`

	// FetchTimeout bounds each source load.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// RefreshInterval schedules periodic refreshes; 0 disables the ticker.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// QueueSize bounds pending refresh jobs.
	QueueSize int `koanf:"queue_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CelebrateTeam marks latest picks made by this team.
	CelebrateTeam string `koanf:"celebrate_team"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		ResultsMode:         ResultsModeManual,
		ResultsTTL:          60 * time.Second,
		EntriesPath:         "entries.xlsx",
		NameColumn:          2,
		FirstPickColumn:     3,
		EntryPolicy:         EntryPolicyLenient,
		FetchTimeout:        10 * time.Second,
		RefreshInterval:     60 * time.Second,
		QueueSize:           8,
		MaxLeaderboardLimit: 500,
		CelebrateTeam:       "Chicago Bears",
		CORSAllowedOrigins:  []string{"*"},
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "addr must not be empty")
	}
	switch c.ResultsMode {
	case ResultsModeManual:
	case ResultsModeSheet:
		if c.ResultsURL == "" {
			problems = append(problems, "results_url is required in sheet mode")
		}
	default:
		problems = append(problems, fmt.Sprintf("results_mode %q must be sheet or manual", c.ResultsMode))
	}
	switch c.EntryPolicy {
	case EntryPolicyLenient, EntryPolicyStrict:
	default:
		problems = append(problems, fmt.Sprintf("entry_policy %q must be lenient or strict", c.EntryPolicy))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}
	if c.NameColumn < 0 || c.FirstPickColumn < 0 {
		problems = append(problems, "name_column and first_pick_column must be >= 0")
	}
	if c.NameColumn >= c.FirstPickColumn && c.NameColumn < c.FirstPickColumn+32 {
		problems = append(problems, "name_column must not overlap the pick columns")
	}
	if c.ResultsTTL < 0 || c.EntriesTTL < 0 || c.RefreshInterval < 0 {
		problems = append(problems, "durations must not be negative")
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "fetch_timeout must be positive")
	}
	if c.QueueSize <= 0 {
		problems = append(problems, "queue_size must be positive")
	}
	if c.MaxLeaderboardLimit <= 0 {
		problems = append(problems, "max_leaderboard_limit must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
