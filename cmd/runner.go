package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/browse"
	"github.com/desertthunder/playx/internal/catalog"
	"github.com/desertthunder/playx/internal/services"
	"github.com/desertthunder/playx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	library    services.Service
	cache      *catalog.Cache
	tree       *browse.Tree
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Library    services.Service
	Cache      *catalog.Cache
	Tree       *browse.Tree
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
	if opts.Cache == nil && opts.Library != nil {
		opts.Cache = catalog.New(opts.Library, opts.Logger)
	}
	if opts.Tree == nil && opts.Cache != nil {
		opts.Tree = browse.NewTree(opts.Cache, opts.Library, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		library:    opts.Library,
		cache:      opts.Cache,
		tree:       opts.Tree,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the Runner's logger, e.g. to redirect logs to a file while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, syncCommand, statusCommand, tracksCommand, searchCommand, genresCommand,
		favoritesCommand, browseCommand, artworkCommand, exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ensureReady loads the catalog if needed and blocks until the load settles.
func (r *Runner) ensureReady(ctx context.Context) error {
	if r.cache == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if r.cache.IsReady() {
		return nil
	}

	done := make(chan bool, 1)
	r.cache.Load(func(success bool) { done <- success })

	select {
	case success := <-done:
		if !success {
			return fmt.Errorf("%w: could not populate catalog", shared.ErrSyncFailed)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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
