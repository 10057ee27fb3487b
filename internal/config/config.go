package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Texts        TextsConfig     `yaml:"texts" toml:"texts"`
	Documents    DocumentsConfig `yaml:"documents" toml:"documents"`
	Output       OutputConfig    `yaml:"output" toml:"output"`
	Plot         PlotConfig      `yaml:"plot" toml:"plot"`
	Cache        CacheConfig     `yaml:"cache" toml:"cache"`
	FetchTimeout string          `yaml:"fetch_timeout" toml:"fetch_timeout"`
}

// TextsConfig selects where document text comes from.
type TextsConfig struct {
	Source string       `yaml:"source" toml:"source"`
	Dir    string       `yaml:"dir" toml:"dir"`
	GitHub GitHubConfig `yaml:"github" toml:"github"`
}

// GitHubConfig locates documents in a GitHub repository.
type GitHubConfig struct {
	Owner          string `yaml:"owner" toml:"owner"`
	Repo           string `yaml:"repo" toml:"repo"`
	Ref            string `yaml:"ref" toml:"ref"`
	Path           string `yaml:"path" toml:"path"`
	Auth           string `yaml:"auth" toml:"auth"`
	Token          string `yaml:"token" toml:"token"`
	AppID          string `yaml:"app_id" toml:"app_id"`
	InstallationID string `yaml:"installation_id" toml:"installation_id"`
	PrivateKeyPath string `yaml:"private_key_path" toml:"private_key_path"`
	PrivateKey     string `yaml:"private_key" toml:"private_key"`
}

// DocumentsConfig names the unknown document and the references compared to it.
type DocumentsConfig struct {
	Unknown    string   `yaml:"unknown" toml:"unknown"`
	References []string `yaml:"references" toml:"references"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
}

// PlotConfig holds diagram size in inches.
type PlotConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// CacheConfig holds the vector cache location. An empty path disables caching.
type CacheConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Source types.
const (
	SourceDir    = "dir"
	SourceGitHub = "github"
)

// DefaultReferences are the known-author documents compared by default.
var DefaultReferences = []string{"madison", "jj", "hamilton"}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Timeout returns the parsed fetch timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.FetchTimeout)
}

// envVarPattern matches ${VAR} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} placeholders with environment variable values.
// Returns an error if any referenced variable is not set.
func expandEnvVars(data []byte) ([]byte, error) {
	var missing []string

	result := envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		val, ok := os.LookupEnv(string(varName))
		if !ok {
			missing = append(missing, string(varName))
			return match
		}
		return []byte(val)
	})

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// Load reads and parses a config file from the given path. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}
	return Parse(data)
}

// LoadOrDefault is like Load but returns Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse parses config from raw YAML bytes, expanding env vars and validating.
func Parse(data []byte) (*Config, error) {
	return parse(data, "YAML", yaml.Unmarshal)
}

// ParseTOML is Parse for TOML input.
func ParseTOML(data []byte) (*Config, error) {
	return parse(data, "TOML", toml.Unmarshal)
}

func parse(data []byte, kind string, unmarshal func([]byte, any) error) (*Config, error) {
	expanded, err := expandEnvVars(data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", kind, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func applyDefaults(cfg *Config) {
	if cfg.Texts.Source == "" {
		cfg.Texts.Source = SourceDir
	}
	if cfg.Texts.Dir == "" {
		cfg.Texts.Dir = "texts"
	}
	if cfg.Texts.GitHub.Path == "" {
		cfg.Texts.GitHub.Path = "texts"
	}
	if cfg.Texts.GitHub.Auth == "" {
		cfg.Texts.GitHub.Auth = "none"
	}
	if cfg.Documents.Unknown == "" {
		cfg.Documents.Unknown = "unknown"
	}
	if len(cfg.Documents.References) == 0 {
		cfg.Documents.References = append([]string(nil), DefaultReferences...)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	if cfg.Plot.Width == 0 {
		cfg.Plot.Width = 6
	}
	if cfg.Plot.Height == 0 {
		cfg.Plot.Height = 6
	}
	if cfg.FetchTimeout == "" {
		cfg.FetchTimeout = "30s"
	}
}

func validate(cfg *Config) error {
	switch cfg.Texts.Source {
	case SourceDir:
	case SourceGitHub:
		gh := cfg.Texts.GitHub
		if gh.Owner == "" || gh.Repo == "" {
			return fmt.Errorf("texts.github.owner and texts.github.repo are required for the github source")
		}
		switch gh.Auth {
		case "none":
		case "token":
			if gh.Token == "" {
				return fmt.Errorf("texts.github.token is required for token auth")
			}
		case "app":
			if gh.AppID == "" || gh.InstallationID == "" {
				return fmt.Errorf("texts.github.app_id and installation_id are required for app auth")
			}
			if gh.PrivateKey == "" && gh.PrivateKeyPath == "" {
				return fmt.Errorf("texts.github.private_key or private_key_path is required for app auth")
			}
		default:
			return fmt.Errorf("unsupported texts.github.auth %q (want none, token or app)", gh.Auth)
		}
	default:
		return fmt.Errorf("unsupported texts.source %q (want dir or github)", cfg.Texts.Source)
	}

	seen := map[string]bool{cfg.Documents.Unknown: true}
	for _, ref := range cfg.Documents.References {
		if ref == "" {
			return fmt.Errorf("documents.references contains an empty name")
		}
		if seen[ref] {
			return fmt.Errorf("document %q is listed more than once", ref)
		}
		seen[ref] = true
	}

	validFormats := map[string]bool{"text": true, "table": true, "json": true}
	if !validFormats[strings.ToLower(cfg.Output.Format)] {
		return fmt.Errorf("unsupported output.format %q", cfg.Output.Format)
	}

	if cfg.Plot.Width < 0 || cfg.Plot.Height < 0 {
		return fmt.Errorf("plot width and height must be positive, got %vx%v", cfg.Plot.Width, cfg.Plot.Height)
	}

	if d, err := time.ParseDuration(cfg.FetchTimeout); err != nil {
		return fmt.Errorf("invalid fetch_timeout %q: %w", cfg.FetchTimeout, err)
	} else if d <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", d)
	}

	return nil
}
