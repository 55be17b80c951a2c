package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plsync/internal/playlist"
	"github.com/desertthunder/plsync/internal/reconcile"
	"github.com/desertthunder/plsync/internal/services"
	"github.com/desertthunder/plsync/internal/shared"
	"github.com/desertthunder/plsync/internal/tags"
	"github.com/desertthunder/plsync/internal/tasks"
	"github.com/desertthunder/plsync/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.LibraryService
	loader     tasks.Loader
	confirmer  reconcile.Confirmer
	recorder   tasks.Recorder
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service, Confirmer and Recorder are built from the loaded configuration when nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.LibraryService
	Loader     tasks.Loader
	Confirmer  reconcile.Confirmer
	Recorder   tasks.Recorder
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Loader == nil {
		opts.Loader = playlist.NewLoader(tags.FileReader{}, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		loader:     opts.Loader,
		confirmer:  opts.Confirmer,
		recorder:   opts.Recorder,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, planCommand, playlistsCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// loadConfig resolves the configuration for a command.
//
// A config passed to [NewRunner] wins. Otherwise the --config path is read when it exists;
// a missing default path falls back to [shared.DefaultConfig] while an explicit missing path is an error.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := r.configPath
	if v := cmd.String("config"); v != "" {
		path = v
	}
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("config file not found, using defaults", "path", path)
		r.config = shared.DefaultConfig()
		return r.config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded config", "path", path)
	r.config, r.configPath = config, path
	return config, nil
}

// libraryService returns the injected service or builds the proxy client from config.
func (r *Runner) libraryService(config *shared.Config, authFile string) services.LibraryService {
	if r.service != nil {
		return r.service
	}

	if authFile == "" {
		authFile = config.Remote.AuthFile
	}
	svc := services.NewYouTubeService(services.YouTubeOpts{
		BaseURL:    config.Remote.ProxyURL,
		AuthFile:   authFile,
		Token:      config.Remote.Token,
		RateLimit:  config.Remote.RateLimit,
		HTTPClient: r.httpClient,
	})
	r.service = svc
	return svc
}

// matcher builds the fuzzy matcher described by config.
func (r *Runner) matcher(config *shared.Config) (*reconcile.Matcher, error) {
	sim, err := reconcile.SimilarityByName(config.Matcher.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	return reconcile.NewMatcher(config.Matcher.Threshold, sim), nil
}

// confirm returns the injected confirmer or one suited to stdin.
func (r *Runner) confirm() reconcile.Confirmer {
	if r.confirmer == nil {
		r.confirmer = ui.NewConfirmer(os.Stdin, r.output)
	}
	return r.confirmer
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
