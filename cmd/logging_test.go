package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// TestNoStderrInCommands verifies command files report through slog or the
// command's writers rather than printing to os.Stderr directly.
func TestNoStderrInCommands(t *testing.T) {
	files := []string{"root.go", "compare.go", "plot.go", "cache.go"}

	for _, f := range files {
		t.Run(f, func(t *testing.T) {
			data, err := os.ReadFile(f)
			if err != nil {
				t.Fatalf("failed to read %s: %v", f, err)
			}
			content := string(data)
			if strings.Contains(content, "fmt.Fprintf(os.Stderr") || strings.Contains(content, "fmt.Fprintln(os.Stderr") {
				t.Errorf("%s writes to os.Stderr directly, use slog instead", f)
			}
		})
	}
}

func TestSetupLoggerVerbose(t *testing.T) {
	oldVerbose := verbose
	defer func() { verbose = oldVerbose }()

	verbose = false
	if setupLogger().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug logging enabled without --verbose")
	}

	verbose = true
	if !setupLogger().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug logging disabled with --verbose")
	}
}
