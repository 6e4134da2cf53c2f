package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/easel/internal/config"
	"github.com/five82/easel/internal/gallery"
	"github.com/five82/easel/internal/imagesapi"
	"github.com/five82/easel/internal/kv"
	"github.com/five82/easel/internal/likes"
	"github.com/five82/easel/internal/logging"
	"github.com/five82/easel/internal/pager"
	"github.com/five82/easel/internal/prefs"
	"github.com/five82/easel/internal/search"
	"github.com/five82/easel/internal/ui"
)

// Options configure the Easel application.
type Options struct {
	ConfigPath string // empty uses ~/.config/easel/config.toml
	EnvFile    string // optional .env file; missing is fine
	APIURL     string // overrides config and environment when set
	PrefsPath  string // empty uses ~/.config/easel/prefs.toml
	Debug      bool
}

// Env holds the wired components shared by the TUI and the CLI commands.
type Env struct {
	Config  config.Config
	Client  *imagesapi.Client
	Store   kv.Store
	Gallery *gallery.Service
	Index   *search.Index
	Pager   *pager.Pager
	Loader  *Loader
	Policy  gallery.SearchPolicy
	Log     zerolog.Logger

	closers []io.Closer
}

// Open loads configuration, sets up logging and wires every component.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(opts.EnvFile); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	policy, err := gallery.ParseSearchPolicy(cfg.SearchPolicy)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	env := &Env{Config: cfg, Policy: policy}

	logCloser, err := logging.Setup(cfg.LogFile, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	env.closers = append(env.closers, logCloser)
	env.Log = logging.New("app")

	env.Client, err = imagesapi.NewClient(cfg.APIURL, imagesapi.Options{
		ImagesPath: cfg.ImagesPath,
		Timeout:    cfg.RequestTimeout,
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init image client: %w", err)
	}

	env.Store, err = kv.Open(cfg.StorageBackend, cfg.StoragePath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	env.closers = append(env.closers, env.Store)

	set, err := likes.Load(env.Store)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("load likes: %w", err)
	}
	env.Gallery = gallery.NewService(env.Client, set, env.Store, logging.New("gallery"))

	env.Pager, err = pager.New(env.Client, pager.Options{
		PageSize:      cfg.PageSize,
		RatePerSecond: cfg.PageRate,
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("init pager: %w", err)
	}
	env.Index = search.NewIndex()
	env.Loader = NewLoader(env.Pager, env.Index, logging.New("pager"))

	env.Log.Info().
		Str("api_url", env.Client.BaseURL()).
		Str("storage", cfg.StorageBackend).
		Str("search_policy", policy.String()).
		Int("liked", set.Len()).
		Msg("easel started")
	return env, nil
}

// Close releases storage and the log file, in reverse order of opening.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Run boots the Easel TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		env.Log.Warn().Err(err).Msg("prefs unreadable, using defaults")
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Pages:     env.Loader,
		Search:    env.Index,
		Likes:     env.Gallery,
		Assets:    env.Client,
		Policy:    env.Policy,
		ThemeName: userPrefs.Theme,
		Columns:   userPrefs.Columns,
		PrefsPath: opts.PrefsPath,
		LogPath:   env.Config.LogFile,
		Logger:    logging.New("ui"),
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
