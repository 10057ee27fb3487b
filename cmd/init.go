package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacklau/authorship/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup for authorship configuration",
	Long:  `Creates a configuration file with guided prompts.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Welcome to authorship setup!")
	fmt.Fprintln(out, "This will create a configuration file for you.")
	fmt.Fprintln(out)

	configPath := cfgFile
	if configPath == "" {
		configPath = defaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "Config file already exists at %s\n", configPath)
		answer := prompt(reader, out, "Overwrite? [y/N]: ", "")
		answer = strings.ToLower(answer)
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	dir := prompt(reader, out, "Directory holding <name>.txt documents [texts]: ", "texts")
	unknown := prompt(reader, out, "Unknown document name [unknown]: ", "unknown")
	refsAnswer := prompt(reader, out,
		fmt.Sprintf("Reference document names, comma separated [%s]: ", strings.Join(config.DefaultReferences, ",")),
		strings.Join(config.DefaultReferences, ","))
	cache := prompt(reader, out, "Vector cache file (or press Enter to disable): ", "")

	var refs []string
	for _, r := range strings.Split(refsAnswer, ",") {
		if r = strings.TrimSpace(r); r != "" {
			refs = append(refs, r)
		}
	}

	data := buildConfigYAML(dir, unknown, refs, cache)
	if _, err := config.Parse([]byte(data)); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(data), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", configPath)
	return nil
}

// prompt prints question and returns the trimmed answer, or def when the
// answer is empty or input has ended.
func prompt(r *bufio.Reader, w io.Writer, question, def string) string {
	fmt.Fprint(w, question)
	answer, _ := r.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}

func buildConfigYAML(dir, unknown string, refs []string, cachePath string) string {
	var b strings.Builder

	b.WriteString("# authorship configuration\n\n")

	b.WriteString("texts:\n")
	b.WriteString("  source: dir\n")
	b.WriteString(fmt.Sprintf("  dir: %q\n", dir))
	b.WriteString("  # source: github\n")
	b.WriteString("  # github:\n")
	b.WriteString("  #   owner: OWNER\n")
	b.WriteString("  #   repo: REPO\n")
	b.WriteString("  #   path: texts\n")
	b.WriteString("  #   auth: token\n")
	b.WriteString("  #   token: YOUR_TOKEN\n")
	b.WriteString("\n")

	b.WriteString("documents:\n")
	b.WriteString(fmt.Sprintf("  unknown: %q\n", unknown))
	b.WriteString("  references:\n")
	for _, r := range refs {
		b.WriteString(fmt.Sprintf("    - %q\n", r))
	}
	b.WriteString("\n")

	b.WriteString("output:\n")
	b.WriteString("  format: text\n\n")

	b.WriteString("plot:\n")
	b.WriteString("  width: 6\n")
	b.WriteString("  height: 6\n\n")

	b.WriteString("cache:\n")
	if cachePath != "" {
		b.WriteString(fmt.Sprintf("  path: %q\n", cachePath))
	} else {
		b.WriteString("  # path: ~/.authorship/vectors.db\n")
	}
	b.WriteString("\n")

	b.WriteString("fetch_timeout: 30s\n")

	return b.String()
}
