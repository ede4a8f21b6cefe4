package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/repositories"
	"github.com/desertthunder/mmt/internal/services"
	"github.com/desertthunder/mmt/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	source     services.RemoteSource
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Source     services.RemoteSource
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		source:     opts.Source,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. for file logging under the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// reloadConfig replaces the runner's config from the given path when the file
// exists; missing files fall back to the current config.
func (r *Runner) reloadConfig(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current settings", "path", path, "error", err)
		return
	}
	r.config = config
}

// remoteSource returns the configured remote, building an HTTP client from
// config when no source was injected.
func (r *Runner) remoteSource() (services.RemoteSource, error) {
	if r.source != nil {
		return r.source, nil
	}
	if r.config.Remote.URL == "" {
		return nil, fmt.Errorf("%w: remote.url is not configured", shared.ErrMissingConfig)
	}
	if r.config.Remote.Key == "" {
		return nil, fmt.Errorf("%w: remote.key is not configured", shared.ErrMissingKey)
	}

	r.source = services.NewClient(r.config.Remote.URL, r.config.Remote.Key, r.httpClient, r.logger)
	return r.source, nil
}

// openDatabase opens the configured content store and applies connection
// settings. The caller owns the handle.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// buildEngine assembles the migration engine over an open content store.
func (r *Runner) buildEngine(db *sql.DB, source services.RemoteSource) *migrate.Engine {
	registry := migrate.NewRegistry(migrate.Dependencies{
		Source:   source,
		Users:    repositories.NewUserRepository(db),
		Terms:    repositories.NewTermRepository(db),
		Content:  repositories.NewContentRepository(db),
		Rewriter: migrate.NewHostRewriter(r.config.Remote.URL, r.config.Server.BaseURL()),
		Config:   r.config.Migration,
		Logger:   r.logger,
	})
	return migrate.NewEngine(source, registry, migrate.NewMemoryCache(), r.config.Migration, r.logger)
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
