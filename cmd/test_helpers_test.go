package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// executeCmd runs rootCmd with args, isolated from the user's home directory
// and from flag values left by earlier runs.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	resetFlags()
	t.Cleanup(resetFlags)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	cfgFile = ""
	verbose = false
	textsDir = ""
	outFormat = ""
	plotFile = ""
	cachePath = ""
	watchDebounce = 400 * time.Millisecond
}

// writeTexts creates <name>.txt files in a fresh directory.
func writeTexts(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range docs {
		if err := os.WriteFile(filepath.Join(dir, name+".txt"), []byte(text), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

func federalistTexts(unknown string) map[string]string {
	return map[string]string{
		"madison":  "the powers of the union\nand of the states",
		"jj":       "it is a matter of which we are all aware",
		"hamilton": "the people of the state of new york",
		"unknown":  unknown,
	}
}
