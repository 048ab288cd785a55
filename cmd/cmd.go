// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are inherited by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "Path to a .env file providing SOUNDCLOUD_CLIENT_ID",
			Value: ".env",
		},
	}
}

// scrapeFlags are shared by scrape and tui.
func scrapeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   `Input JSON file with "urls" (or "url_list") and optional overrides`,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (stdout when empty)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, csv, markdown or text",
			Value:   "json",
		},
		&cli.BoolFlag{
			Name:  "include-comments",
			Usage: "Fetch comments for track URLs",
		},
		&cli.IntFlag{
			Name:  "end-page",
			Usage: "Last page to request across paginated calls (0 = unlimited)",
		},
		&cli.IntFlag{
			Name:  "max-items",
			Usage: "Maximum items to collect across paginated calls (0 = unlimited)",
		},
		&cli.StringFlag{
			Name:  "scope",
			Usage: `Page cursor scope: "run" shares limits across URLs, "resource" resets them per URL`,
		},
		&cli.BoolFlag{
			Name:  "dedupe",
			Usage: "Drop search results already seen in this run",
		},
		&cli.BoolFlag{
			Name:  "store",
			Usage: "Persist the run and its records to the database",
		},
		&cli.BoolFlag{
			Name:  "tui",
			Usage: "Show an interactive progress view",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "Where logs go while the TUI owns the terminal",
			Value: "./tmp/scx-tui.log",
		},
	}
}

// scrapeCommand runs the scraper over URLs from arguments and/or an input file
func scrapeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "scrape",
		Usage:     "Scrape SoundCloud tracks, playlists, albums, users and searches",
		ArgsUsage: "[url...]",
		Flags:     scrapeFlags(),
		Action:    r.withConfig(r.Scrape),
	}
}

// classifyCommand prints how a URL would be handled
func classifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify a SoundCloud URL without calling the API",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "url",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output JSON",
			},
		},
		Action: r.withConfig(r.Classify),
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct SoundCloud API calls for debugging",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against the API, prints the raw response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "param",
						Aliases: []string{"p"},
						Usage:   "Query parameter as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.withConfig(r.APIGet),
			},
		},
	}
}

// runsCommand browses runs saved with scrape --store
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect stored scrape runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.withConfig(r.RunsList),
			},
			{
				Name:  "show",
				Usage: "Show a stored run with its outcomes and records",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Run ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export the run's records as json, csv, markdown or text instead of a summary",
					},
				},
				Action: r.withConfig(r.RunsShow),
			},
		},
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "rollback",
						Usage: "Revert the newest N migrations instead of applying pending ones",
					},
				},
				Action: r.withConfig(r.SetupDatabase),
			},
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "client-id",
						Usage: "SoundCloud client_id to store in the new file",
					},
				},
				Action: r.withConfig(r.SetupConfig),
			},
		},
	}
}

// serveCommand serves the stored-run browser
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a read-only view of stored runs over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the browser once the server is up",
			},
		},
		Action: r.withConfig(r.Serve),
	}
}

// tuiCommand returns the top-level TUI command for an interactive scrape.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Aliases:   []string{"interactive", "ui"},
		Usage:     "Launch interactive TUI for a scrape run",
		ArgsUsage: "[url...]",
		Flags:     scrapeFlags(),
		Action:    r.withConfig(r.TUI),
	}
}
