package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Kiara-243/soundcloud-scraper/internal/repositories"
	"github.com/Kiara-243/soundcloud-scraper/internal/services"
	"github.com/Kiara-243/soundcloud-scraper/internal/shared"
	"github.com/Kiara-243/soundcloud-scraper/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     tasks.Client
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     tasks.Client // Overrides the SoundCloud service built from config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		scrapeCommand, classifyCommand, apiCommand, runsCommand, setupCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// withConfig wraps a command action so it runs after [Runner.loadConfig].
func (r *Runner) withConfig(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.loadConfig(cmd); err != nil {
			return err
		}
		return action(ctx, cmd)
	}
}

// loadConfig reads the file named by --config (defaults when absent),
// applies .env overrides and the configured log level, then validates.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}

	if err := r.config.ApplyEnv(cmd.String("env")); err != nil {
		return err
	}

	if level, err := shared.ParseLevel(r.config.Log.Level); err != nil {
		r.logger.Warn("ignoring log level", "error", err)
	} else {
		shared.SetLogLevel(r.logger, level)
	}

	return r.config.Validate()
}

// SetLogger replaces the runner's logger, e.g. with a file logger while a TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// service builds the SoundCloud transport from the current config.
func (r *Runner) service() *services.SoundCloudService {
	httpClient := r.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: r.config.SoundCloud.Timeout()}
	}
	return services.NewSoundCloudService(r.config.SoundCloud, httpClient, r.logger)
}

// scrapeClient returns the injected client, or the SoundCloud service.
func (r *Runner) scrapeClient() tasks.Client {
	if r.client != nil {
		return r.client
	}
	return r.service()
}

// openStore opens the configured database and wraps it in a run store.
//
// The caller closes the returned database.
func (r *Runner) openStore() (*sql.DB, *repositories.RunStoreAdapter, error) {
	db, err := shared.OpenDatabase(r.config.Database, r.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := repositories.NewRunStoreAdapter(
		repositories.NewRunRepository(db),
		repositories.NewRecordRepository(db),
	)
	return db, store, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// exitError reports whether err should end the process with a failure status.
func exitError(err error) bool {
	return err != nil && !errors.Is(err, shared.ErrNotImplemented)
}
