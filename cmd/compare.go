package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacklau/authorship/internal/report"
)

func runCompare(cmd *cobra.Command, args []string) error {
	if plotFile != "" {
		return runPlotTo(cmd, plotFile)
	}
	if outFormat != "" {
		if _, err := report.ParseFormat(outFormat); err != nil {
			return err
		}
	}

	res, cfg, err := runComparison(cmd.Context())
	if err != nil {
		return err
	}

	name := cfg.Output.Format
	if outFormat != "" {
		name = outFormat
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Write(out, res, format, shouldColorize(out)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
