package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jacklau/authorship/internal/compare"
	"github.com/jacklau/authorship/internal/config"
	"github.com/jacklau/authorship/internal/features"
	"github.com/jacklau/authorship/internal/store"
	"github.com/jacklau/authorship/internal/textsource"
)

var (
	cfgFile   string
	verbose   bool
	textsDir  string
	outFormat string
	plotFile  string
	cachePath string
)

var rootCmd = &cobra.Command{
	Use:   "authorship",
	Short: "Attribute a text to the known author whose style it most resembles",
	Long: `Authorship counts function words in an unknown document and in a set of
reference documents by known authors, then reports the cosine similarity of
each reference to the unknown document.

With no arguments it compares madison, jj and hamilton against unknown,
reading <name>.txt from the texts directory.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runCompare,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default %s)", defaultConfigPath()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&textsDir, "texts", "", "directory holding <name>.txt documents (overrides config)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "SQLite file used to cache document vectors (overrides config)")
	rootCmd.Flags().StringVarP(&outFormat, "format", "f", "", "report format: text, table or json")
	rootCmd.Flags().StringVar(&plotFile, "plot", "", "draw a vector diagram to this .svg, .png or .pdf file instead of printing a report")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".authorship/config.yaml"
	}
	return filepath.Join(home, ".authorship", "config.yaml")
}

func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// loadConfig reads the config file and applies flag overrides. The default
// config path may be absent; an explicit --config must exist.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadOrDefault(defaultConfigPath())
	}
	if err != nil {
		return nil, err
	}

	if textsDir != "" {
		cfg.Texts.Source = config.SourceDir
		cfg.Texts.Dir = textsDir
	}
	if cachePath != "" {
		cfg.Cache.Path = cachePath
	}
	return cfg, nil
}

// components holds initialized components for use by subcommands.
type components struct {
	Config *config.Config
	Source textsource.Source
	Cache  *store.DB
	Engine *compare.Engine
	Logger *slog.Logger

	cacheLock *store.Lock
}

// initComponents creates all components from config.
func initComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*components, error) {
	c := &components{
		Config: cfg,
		Logger: logger,
	}

	src, err := newSource(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating text source: %w", err)
	}
	c.Source = src

	opts := []compare.Option{compare.WithLogger(logger)}
	if cfg.Cache.Path != "" {
		db, lock, err := openCache(ctx, cfg.Cache.Path, false)
		if err != nil {
			return nil, err
		}
		c.Cache = db
		c.cacheLock = lock
		opts = append(opts, compare.WithCache(db))
	}

	c.Engine = compare.NewEngine(src, features.Default(), opts...)
	return c, nil
}

// Close releases resources held by the components.
func (c *components) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
	if err := c.cacheLock.Release(); err != nil {
		c.Logger.Warn("releasing cache lock", "error", err)
	}
}

// openCache locks the cache at path and then opens it, so migrations run
// under the lock. A shared lock waits for a running clear; an exclusive lock
// fails at once when the cache is in use.
func openCache(ctx context.Context, path string, exclusive bool) (*store.DB, *store.Lock, error) {
	path = config.ExpandHome(path)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	var lock *store.Lock
	if exclusive {
		l, ok, err := store.TryLockExclusive(path)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, fmt.Errorf("cache %s is in use by a running comparison; try again later", path)
		}
		lock = l
	} else {
		l, err := store.LockShared(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		lock = l
	}

	db, err := store.Open(path)
	if err != nil {
		lock.Release()
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	return db, lock, nil
}

// newSource builds the text source selected by config.
func newSource(cfg *config.Config, logger *slog.Logger) (textsource.Source, error) {
	switch cfg.Texts.Source {
	case config.SourceDir:
		return textsource.NewDir(config.ExpandHome(cfg.Texts.Dir)), nil
	case config.SourceGitHub:
		gh := cfg.Texts.GitHub
		opts := []textsource.GitHubOption{
			textsource.WithDir(gh.Path),
			textsource.WithGitHubLogger(logger),
		}
		if gh.Ref != "" {
			opts = append(opts, textsource.WithRef(gh.Ref))
		}

		switch gh.Auth {
		case "app":
			appID, err := strconv.ParseInt(gh.AppID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing app_id: %w", err)
			}
			installID, err := strconv.ParseInt(gh.InstallationID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing installation_id: %w", err)
			}
			client, err := textsource.NewAppClient(appID, installID, []byte(gh.PrivateKey), gh.PrivateKeyPath)
			if err != nil {
				return nil, fmt.Errorf("creating GitHub client: %w", err)
			}
			return textsource.NewGitHub(client, gh.Owner, gh.Repo, opts...), nil
		case "token":
			return textsource.NewGitHub(textsource.NewTokenClient(gh.Token), gh.Owner, gh.Repo, opts...), nil
		default:
			return textsource.NewGitHub(nil, gh.Owner, gh.Repo, opts...), nil
		}
	default:
		return nil, fmt.Errorf("unsupported text source %q", cfg.Texts.Source)
	}
}

// runComparison loads config, builds components and scores every configured
// reference against the unknown document.
func runComparison(ctx context.Context) (*compare.Result, *config.Config, error) {
	logger := setupLogger()

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	c, err := initComponents(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing components: %w", err)
	}
	defer c.Close()

	res, err := c.run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return res, cfg, nil
}

// run performs one comparison of the configured documents under the fetch timeout.
func (c *components) run(ctx context.Context) (*compare.Result, error) {
	timeout, err := c.Config.Timeout()
	if err != nil {
		return nil, fmt.Errorf("parsing fetch_timeout: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	docs := c.Config.Documents
	c.Logger.Debug("comparing documents",
		"unknown", docs.Unknown,
		"references", docs.References,
		"source", c.Config.Texts.Source,
	)
	return c.Engine.Compare(ctx, docs.Unknown, docs.References)
}
