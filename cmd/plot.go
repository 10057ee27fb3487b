package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/jacklau/authorship/internal/plot"
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Draw each reference as a unit vector at its similarity angle",
	Long: `Plot treats each similarity score as cos(θ) and draws every reference as a
unit arrow θ degrees from the unknown document's axis. The output format
follows the file extension: .svg, .png or .pdf.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlotTo(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
}

func runPlotTo(cmd *cobra.Command, path string) error {
	format, err := plot.FormatFromPath(path)
	if err != nil {
		return err
	}

	res, cfg, err := runComparison(cmd.Context())
	if err != nil {
		return err
	}

	diagram, err := plot.Build(res)
	if err != nil {
		return fmt.Errorf("building diagram: %w", err)
	}

	// Render fully before touching the file so a failure leaves nothing behind.
	var buf bytes.Buffer
	width := vg.Length(cfg.Plot.Width) * vg.Inch
	height := vg.Length(cfg.Plot.Height) * vg.Inch
	if err := plot.Render(&buf, diagram, format, width, height); err != nil {
		return fmt.Errorf("rendering diagram: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing plot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
