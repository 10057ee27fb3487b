package textsource

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v60/github"

	"github.com/jacklau/authorship/internal/retry"
)

// GitHub reads documents from <Dir>/<name>.txt in a GitHub repository.
type GitHub struct {
	client   *gogithub.Client
	owner    string
	repo     string
	ref      string
	dir      string
	attempts int
	logger   *slog.Logger
}

// GitHubOption configures a GitHub source.
type GitHubOption func(*GitHub)

// WithRef reads documents at a branch, tag or commit instead of the default branch.
func WithRef(ref string) GitHubOption {
	return func(g *GitHub) { g.ref = ref }
}

// WithDir sets the repository directory holding the documents.
func WithDir(dir string) GitHubOption {
	return func(g *GitHub) { g.dir = strings.Trim(dir, "/") }
}

// WithAttempts sets how many times a transient fetch failure is tried.
func WithAttempts(n int) GitHubOption {
	return func(g *GitHub) { g.attempts = n }
}

// WithGitHubLogger sets the logger used to report retried fetches.
func WithGitHubLogger(l *slog.Logger) GitHubOption {
	return func(g *GitHub) { g.logger = l }
}

// NewGitHub creates a source reading from owner/repo with the given client.
// A nil client uses unauthenticated access.
func NewGitHub(client *gogithub.Client, owner, repo string, opts ...GitHubOption) *GitHub {
	if client == nil {
		client = gogithub.NewClient(nil)
	}
	g := &GitHub{
		client:   client,
		owner:    owner,
		repo:     repo,
		attempts: retry.DefaultMaxAttempts,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Text fetches and normalizes the named document. A missing file is not retried.
func (g *GitHub) Text(ctx context.Context, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	filePath := path.Join(g.dir, name+fileExt)
	where := fmt.Sprintf("github.com/%s/%s/%s", g.owner, g.repo, filePath)

	var opts *gogithub.RepositoryContentGetOptions
	if g.ref != "" {
		opts = &gogithub.RepositoryContentGetOptions{Ref: g.ref}
	}

	attempts := g.attempts
	if attempts <= 0 {
		attempts = retry.DefaultMaxAttempts
	}

	var text string
	attempt := 0
	err := retry.Do(ctx, attempts, func() error {
		attempt++
		file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, filePath, opts)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return retry.Permanent(notFound(name, where))
			}
			if isRateLimited(httpResponse(resp)) {
				wait := rateLimitWait(httpResponse(resp), time.Now())
				if wait > maxRateLimitWait {
					return retry.Permanent(fmt.Errorf("fetching %s: rate limited for %s: %w", where, wait.Round(time.Second), err))
				}
				if attempt >= attempts {
					return retry.Permanent(fmt.Errorf("fetching %s: rate limited with no attempts left: %w", where, err))
				}
				g.logger.Warn("rate limited by GitHub", "name", name, "wait", wait)
				select {
				case <-ctx.Done():
					return retry.Permanent(ctx.Err())
				case <-time.After(wait):
				}
			}
			g.logger.Debug("fetching document failed", "name", name, "attempt", attempt, "error", err)
			return fmt.Errorf("fetching %s: %w", where, err)
		}
		if file == nil {
			return retry.Permanent(fmt.Errorf("%s is a directory, not a document", where))
		}

		content, err := file.GetContent()
		if err != nil {
			return retry.Permanent(fmt.Errorf("decoding %s: %w", where, err))
		}
		if rl := parseRateLimit(httpResponse(resp)); rl.low() {
			g.logger.Debug("GitHub rate limit running low", "remaining", rl.Remaining, "reset", rl.Reset)
		}
		text = normalize([]byte(content))
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func httpResponse(resp *gogithub.Response) *http.Response {
	if resp == nil {
		return nil
	}
	return resp.Response
}

// NewAppClient creates a GitHub API client authenticated as a GitHub App
// installation. It uses ghinstallation for automatic JWT and installation
// token management.
//
// privateKey can be either raw PEM bytes or base64-encoded PEM bytes. If it is
// empty, the key is read from privateKeyPath.
func NewAppClient(appID, installationID int64, privateKey []byte, privateKeyPath string) (*gogithub.Client, error) {
	key, err := resolvePrivateKey(privateKey, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("resolving private key: %w", err)
	}

	transport, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}

	return gogithub.NewClient(&http.Client{Transport: transport}), nil
}

// NewTokenClient creates a GitHub API client using a personal access token.
func NewTokenClient(token string) *gogithub.Client {
	return gogithub.NewClient(nil).WithAuthToken(token)
}

func resolvePrivateKey(key []byte, keyPath string) ([]byte, error) {
	if len(key) > 0 {
		s := strings.TrimSpace(string(key))
		if strings.HasPrefix(s, "-----BEGIN") {
			return []byte(s), nil
		}
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			decoded, err = base64.URLEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("private key is neither PEM nor valid base64: %w", err)
			}
		}
		return decoded, nil
	}

	if keyPath != "" {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("reading private key file %s: %w", keyPath, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("no private key provided: set private_key or private_key_path")
}
