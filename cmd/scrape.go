package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kiara-243/soundcloud-scraper/internal/formatter"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/Kiara-243/soundcloud-scraper/internal/tasks"
	"github.com/Kiara-243/soundcloud-scraper/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// Scrape runs every input URL through the engine and writes the records.
func (r *Runner) Scrape(ctx context.Context, cmd *cli.Command) error {
	return r.scrape(ctx, cmd, cmd.Bool("tui"))
}

// TUI runs a scrape behind the interactive progress view.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	return r.scrape(ctx, cmd, true)
}

func (r *Runner) scrape(ctx context.Context, cmd *cli.Command, interactive bool) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	urls, err := r.collectInputs(cmd)
	if err != nil {
		return err
	}

	if interactive {
		// Redirect logs to file to avoid interfering with TUI rendering
		fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		shared.SetLogLevel(fileLogger, r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}

	engine := tasks.NewScrapeEngine(r.scrapeClient(), tasks.OptionsFromConfig(r.config.Scrape), r.logger)
	if cmd.Bool("store") {
		db, store, err := r.openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		engine.WithStore(store)
	}

	r.logger.Info("starting scrape", "urls", len(urls), "scope", engine.Options().CursorScope,
		"end_page", r.config.Scrape.EndPage, "max_items", r.config.Scrape.MaxItems)

	var result *tasks.RunResult
	var runErr error
	if interactive {
		result, runErr = r.runInteractive(ctx, engine, urls)
	} else {
		result, runErr = r.runPlain(ctx, engine, urls)
	}
	if result == nil {
		return runErr
	}

	output := cmd.String("output")
	if output != "" {
		if err := formatter.WriteFile(output, result.Records, format); err != nil {
			return err
		}
		r.writeSummary(result, output)
	} else if interactive {
		r.logger.Warn("no --output given, records were not written", "records", len(result.Records))
	} else if err := formatter.Write(r.output, result.Records, format); err != nil {
		return err
	}

	dest := output
	if dest == "" {
		dest = "stdout"
	}
	r.logger.Info("scraping completed", "records", len(result.Records), "output", dest)

	if runErr != nil {
		return fmt.Errorf("scrape interrupted after %d of %d URLs: %w", len(result.Outcomes), result.URLCount, runErr)
	}
	return nil
}

// collectInputs merges the input file and positional URLs, layering the file's
// overrides and then the command flags onto the scrape config.
func (r *Runner) collectInputs(cmd *cli.Command) ([]string, error) {
	var urls []string
	if path := cmd.String("input"); path != "" {
		in, err := loadInput(path)
		if err != nil {
			return nil, err
		}
		in.apply(&r.config.Scrape)
		urls = append(urls, in.URLs...)
	}
	urls = append(urls, cmd.Args().Slice()...)

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: provide URLs as arguments or with --input", shared.ErrMissingArgument)
	}

	scrape := &r.config.Scrape
	if cmd.IsSet("include-comments") {
		scrape.IncludeComments = cmd.Bool("include-comments")
	}
	if cmd.IsSet("end-page") {
		scrape.EndPage = cmd.Int("end-page")
	}
	if cmd.IsSet("max-items") {
		scrape.MaxItems = cmd.Int("max-items")
	}
	if cmd.IsSet("scope") {
		scrape.CursorScope = cmd.String("scope")
	}
	if cmd.IsSet("dedupe") {
		scrape.DedupeSearch = cmd.Bool("dedupe")
	}

	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}
	return urls, nil
}

// runPlain logs progress updates while the engine runs.
func (r *Runner) runPlain(ctx context.Context, engine *tasks.ScrapeEngine, urls []string) (*tasks.RunResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Classify:
				r.logger.Debug(update.Message)
			case tasks.Done:
			default:
				r.logger.Info(update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, urls)
	close(progressCh)
	<-done

	return result, err
}

func (r *Runner) runInteractive(ctx context.Context, engine *tasks.ScrapeEngine, urls []string) (*tasks.RunResult, error) {
	model := ui.NewModel(ctx, engine, urls)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return model.Result()
}

func (r *Runner) writeSummary(result *tasks.RunResult, output string) {
	r.writePlainHeader("Scrape Complete!")
	r.writePlain("URLs: %d (%d ok, %d failed, %d skipped)\n", result.URLCount, result.Succeeded, result.Failed, result.Skipped)
	r.writePlain("Records: %d\n", len(result.Records))
	r.writePlain("Pages: %d (%d items)\n", result.Pages, result.Items)
	if result.RunID != "" {
		r.writePlain("Run: %s\n", result.RunID)
	}
	r.writePlain("Output: %s\n", output)

	if result.Failed > 0 {
		r.writePlain("\nFailed URLs:\n")
		for _, out := range result.Outcomes {
			if out.Err != nil {
				r.writePlain("  - %s (%s): %v\n", out.URL, tasks.ErrorKind(out.Err), out.Err)
			}
		}
	}
}
