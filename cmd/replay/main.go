package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/replay"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
)

const replayTimeout = 30 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", replay.DefaultBaseURL, "Base URL of the service")
		results = flag.String("results", "", "CSV with Pick, Player and Team columns")
		delay   = flag.Duration("delay", replay.DefaultDelay, "Pause between picks")
		timeout = flag.Duration("timeout", replay.DefaultTimeout, "HTTP request timeout")
		topN    = flag.Int("top", replay.DefaultTopN, "Leaderboard rows to print")
		settle  = flag.Duration("settle", replay.DefaultSettle, "Wait before reading the leaderboard back")
		refresh = flag.Bool("refresh", false, "Request a cache clearing refresh after the last pick")
		logFile = flag.String("log", "", "Also write log output to this file")
		verbose = flag.Bool("verbose", false, "Log every pick")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		replay.ShowHelp()
		return
	}

	closeLog, err := replay.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, replayTimeout)
	defer cancel()

	cfg := &replay.Config{
		BaseURL:     *baseURL,
		ResultsPath: *results,
		Delay:       *delay,
		Timeout:     *timeout,
		TopN:        *topN,
		Settle:      *settle,
		Refresh:     *refresh,
		Verbose:     *verbose,
	}
	log := logger.Named("replay")
	if _, err := replay.Run(ctx, cfg, log); err != nil {
		log.Error(ctx, "replay failed", logger.Error(err))
		return
	}
}
