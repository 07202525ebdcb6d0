package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sonix/internal/services"
	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/subsonic"
	"github.com/desertthunder/sonix/internal/tasks"
	"github.com/desertthunder/sonix/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.Service
	serviceErr error
	engine     tasks.LibraryEngine
	httpClient *http.Client
	logger     *log.Logger
	logFile    io.Closer
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.Service
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

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.Service != nil {
		r.setService(opts.Service)
	}
	return r
}

func (r *Runner) setService(svc services.Service) {
	r.service = svc
	r.serviceErr = nil
	r.engine = tasks.NewExportEngine(svc, nil, r.logger)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, pingCommand, scanCommand, rawCommand, artistCommand, albumCommand, coverCommand, exportCommand, libraryCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and connects the Subsonic service.
//
// A missing or incomplete configuration is not an error here: commands that need the
// server report it through [Runner.client].
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("log-file"); path != "" {
		w := shared.NewFileWriter(path, 0)
		r.logger.SetOutput(w)
		r.logFile = w
	}

	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.service != nil {
		return ctx, nil
	}

	config, err := shared.LoadConfig(r.configPath)
	switch {
	case err == nil:
		r.config = config
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		if pw := os.Getenv(shared.PasswordEnv); pw != "" {
			r.config.Server.Password = pw
		}
	default:
		return ctx, err
	}

	svc, err := services.NewSubsonicService(services.SubsonicOpts{
		BaseURL:    r.config.Server.URL,
		Username:   r.config.Server.Username,
		Password:   r.config.Server.Password,
		ClientName: r.config.Server.Client,
		APIVersion: r.config.Server.APIVersion,
		LegacyAuth: r.config.Server.LegacyAuth,
		HTTPClient: &http.Client{Timeout: r.config.Server.Timeout(), Transport: r.httpClient.Transport},
		Logger:     r.logger,
	})
	if err != nil {
		r.serviceErr = err
		r.logger.Debug("subsonic service unavailable", "err", err)
		return ctx, nil
	}

	r.setService(svc)
	return ctx, nil
}

// After releases resources acquired by [Runner.Before].
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.logFile == nil {
		return nil
	}
	err := r.logFile.Close()
	r.logFile = nil
	return err
}

// client returns the configured service or explains why there is none.
func (r *Runner) client() (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}
	if r.serviceErr != nil {
		return nil, fmt.Errorf("%w: %v (see 'sonix setup config')", shared.ErrServiceUnavailable, r.serviceErr)
	}
	return nil, fmt.Errorf("%w: Subsonic service not initialized", shared.ErrServiceUnavailable)
}

// argID parses the positional argument at index i as a server id.
func argID(cmd *cli.Command, i int, name string) (uint64, error) {
	raw := cmd.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}

	id, err := subsonic.ParseLenientUint(name, strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return id, nil
}

// optInt returns a pointer to the flag value, or nil when the flag was not set.
func optInt(cmd *cli.Command, name string) *int {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.Int(name)
	return &v
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
	r.writePlain("%s\n", ui.Title(title))
}
