package cmd

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacklau/authorship/internal/config"
	"github.com/jacklau/authorship/internal/store"
	"github.com/jacklau/authorship/internal/textsource"
)

func TestRootIdenticalDocuments(t *testing.T) {
	text := "To the People of the State of New York:\nAFTER an unequivocal experience of the inefficacy of the subsisting federal government"
	dir := writeTexts(t, map[string]string{
		"madison":  text,
		"jj":       text,
		"hamilton": text,
		"unknown":  text,
	})

	out, err := executeCmd(t, "--texts", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Similarity between madison and unknown: 1.000\n" +
		"Similarity between jj and unknown: 1.000\n" +
		"Similarity between hamilton and unknown: 1.000\n"
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestRootOrthogonalReference(t *testing.T) {
	dir := writeTexts(t, map[string]string{
		"madison":  "the the",
		"jj":       "which which",
		"hamilton": "the of",
		"unknown":  "the",
	})

	out, err := executeCmd(t, "--texts", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Similarity between madison and unknown: 1.000" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[1] != "Similarity between jj and unknown: 0.000" {
		t.Errorf("line 2 = %q", lines[1])
	}
	if lines[2] != "Similarity between hamilton and unknown: 0.707" {
		t.Errorf("line 3 = %q", lines[2])
	}
}

func TestRootMissingDocument(t *testing.T) {
	docs := federalistTexts("the")
	delete(docs, "hamilton")
	dir := writeTexts(t, docs)

	out, err := executeCmd(t, "--texts", dir)
	if err == nil {
		t.Fatal("expected error for missing document")
	}
	if !strings.Contains(err.Error(), "document not found") || !strings.Contains(err.Error(), "hamilton") {
		t.Errorf("error should name the missing document, got %q", err)
	}
	if out != "" {
		t.Errorf("expected no partial output, got %q", out)
	}
}

func TestRootRejectsArgs(t *testing.T) {
	if _, err := executeCmd(t, "madison"); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestRootJSONFormat(t *testing.T) {
	dir := writeTexts(t, federalistTexts("the people of the state of new york"))

	out, err := executeCmd(t, "--texts", dir, "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Unknown string `json:"unknown"`
		Best    string `json:"best"`
		Scores  []struct {
			Label      string  `json:"label"`
			Similarity float64 `json:"similarity"`
		} `json:"scores"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Best != "hamilton" {
		t.Errorf("best = %q, want hamilton", got.Best)
	}
	if len(got.Scores) != 3 || got.Scores[0].Label != "madison" {
		t.Errorf("unexpected scores: %+v", got.Scores)
	}
}

func TestRootBadFormat(t *testing.T) {
	dir := writeTexts(t, federalistTexts("the"))
	if _, err := executeCmd(t, "--texts", dir, "--format", "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRootConfigFile(t *testing.T) {
	dir := writeTexts(t, map[string]string{
		"paper10": "the of",
		"madison": "the of",
		"unknown": "unused",
	})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "texts:\n  dir: " + dir + "\ndocuments:\n  unknown: paper10\n  references: [madison]\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeCmd(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Similarity between madison and paper10: 1.000\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRootExplicitConfigMustExist(t *testing.T) {
	_, err := executeCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestRootWithCache(t *testing.T) {
	dir := writeTexts(t, federalistTexts("the people"))
	cache := filepath.Join(t.TempDir(), "cache", "vectors.db")

	first, err := executeCmd(t, "--texts", dir, "--cache", cache)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := executeCmd(t, "--texts", dir, "--cache", cache)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second {
		t.Errorf("cached run differs:\n%s\nvs\n%s", first, second)
	}

	out, err := executeCmd(t, "cache", "status", "--cache", cache)
	if err != nil {
		t.Fatalf("cache status: %v", err)
	}
	if !strings.Contains(out, "Vectors:") || !strings.Contains(out, "4") {
		t.Errorf("unexpected cache status:\n%s", out)
	}

	out, err = executeCmd(t, "cache", "clear", "--cache", cache)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Removed 4 cached vectors.") {
		t.Errorf("unexpected clear output: %q", out)
	}
}

func TestCacheClearLocksBeforeOpening(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "vectors.db")

	held, err := store.LockShared(context.Background(), cache)
	if err != nil {
		t.Fatalf("LockShared: %v", err)
	}
	defer held.Release()

	_, err = executeCmd(t, "cache", "clear", "--cache", cache)
	if err == nil || !strings.Contains(err.Error(), "in use") {
		t.Fatalf("expected in use error, got %v", err)
	}
	if _, err := os.Stat(cache); !os.IsNotExist(err) {
		t.Errorf("database was created before the lock was taken: %v", err)
	}
}

func TestCacheDisabled(t *testing.T) {
	out, err := executeCmd(t, "cache", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("expected disabled message, got %q", out)
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
		check   func(t *testing.T, src textsource.Source)
	}{
		{
			name: "dir",
			cfg:  config.Config{Texts: config.TextsConfig{Source: config.SourceDir, Dir: "corpus"}},
			check: func(t *testing.T, src textsource.Source) {
				d, ok := src.(*textsource.Dir)
				if !ok || d.Base != "corpus" {
					t.Errorf("expected Dir(corpus), got %#v", src)
				}
			},
		},
		{
			name: "github anonymous",
			cfg: config.Config{Texts: config.TextsConfig{
				Source: config.SourceGitHub,
				GitHub: config.GitHubConfig{Owner: "o", Repo: "r", Auth: "none"},
			}},
			check: func(t *testing.T, src textsource.Source) {
				if _, ok := src.(*textsource.GitHub); !ok {
					t.Errorf("expected GitHub source, got %T", src)
				}
			},
		},
		{
			name: "github token",
			cfg: config.Config{Texts: config.TextsConfig{
				Source: config.SourceGitHub,
				GitHub: config.GitHubConfig{Owner: "o", Repo: "r", Auth: "token", Token: "t"},
			}},
			check: func(t *testing.T, src textsource.Source) {
				if _, ok := src.(*textsource.GitHub); !ok {
					t.Errorf("expected GitHub source, got %T", src)
				}
			},
		},
		{
			name: "github app with bad id",
			cfg: config.Config{Texts: config.TextsConfig{
				Source: config.SourceGitHub,
				GitHub: config.GitHubConfig{Owner: "o", Repo: "r", Auth: "app", AppID: "abc", InstallationID: "1"},
			}},
			wantErr: true,
		},
		{
			name:    "unknown source",
			cfg:     config.Config{Texts: config.TextsConfig{Source: "ftp"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := newSource(&tt.cfg, setupLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("newSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, src)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
