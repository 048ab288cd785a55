package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); exitError(err) {
		stop()
		runner.logger.Fatalf("application error: %v", err)
	} else if err != nil {
		runner.logger.Warn("not implemented")
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "scx",
		Usage:    "Scrape public SoundCloud tracks, playlists, users and searches",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Commands: r.register(),
	}
}
