package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cinetalk/cinetalk/internal/repositories"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/session"
	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	client  *services.Client
	users   *services.UserService
	movies  *services.MovieService
	reviews *services.ReviewService
	board   *services.BoardService
	session *session.Store

	db         *sql.DB
	otts       *repositories.OttRepository
	categories *repositories.CategoryRepository
	profiles   *repositories.ProfileRepository

	logger *log.Logger
	output io.Writer

	bootstrapped bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Client  *services.Client
	Tokens  services.TokenStore
	Session *session.Store
	DB      *sql.DB
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
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
	if opts.Tokens == nil {
		opts.Tokens = session.NewFileTokenStore(opts.Config.TokenPath())
	}
	if opts.Client == nil {
		httpClient := &http.Client{Timeout: time.Duration(opts.Config.API.TimeoutSeconds) * time.Second}
		opts.Client = services.NewClient(opts.Config.API.BaseURL, httpClient, opts.Tokens)
		if opts.Config.API.RateLimit > 0 {
			opts.Client.SetRateLimit(opts.Config.API.RateLimit)
		}
	}

	users := services.NewUserService(opts.Client)
	if opts.Session == nil {
		opts.Session = session.NewStore(users, opts.Tokens, opts.Logger)
	}

	r := &Runner{
		config:  opts.Config,
		client:  opts.Client,
		users:   users,
		movies:  services.NewMovieService(opts.Client),
		reviews: services.NewReviewService(opts.Client),
		board:   services.NewBoardService(opts.Client),
		session: opts.Session,
		db:      opts.DB,
		logger:  opts.Logger,
		output:  opts.Output,
	}

	if opts.DB != nil {
		r.otts = repositories.NewOttRepository(opts.DB)
		r.categories = repositories.NewCategoryRepository(opts.DB)
		r.profiles = repositories.NewProfileRepository(opts.DB)
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, reviewsCommand, boardCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the Runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// ensureSession resolves the stored session once per process.
//
// A failed bootstrap still leaves the session usable anonymously, so the
// error is logged rather than returned.
func (r *Runner) ensureSession(ctx context.Context) {
	if r.bootstrapped {
		return
	}
	r.bootstrapped = true
	if err := r.session.Bootstrap(ctx); err != nil {
		r.logger.Warn("session bootstrap failed, continuing anonymously", "error", err)
	}
}

// parseIDArg reads a positional numeric ID argument.
func parseIDArg(cmd *cli.Command, name string) (int, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", shared.ErrInvalidArgument, name)
	}
	return id, nil
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
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
