package main

import (
	"context"
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/server"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the read-only run browser and blocks until ctx is canceled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, cfg.Port)
	}

	db, store, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(server.NewRunsHandler(store, r.logger))

	var ready func()
	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/", cfg.Addr())
		ready = func() {
			r.writePlain("→ Opening %s\n", url)
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}
	}

	return server.Serve(ctx, cfg.Addr(), router, r.logger, ready)
}
