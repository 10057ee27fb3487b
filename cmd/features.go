package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jacklau/authorship/internal/features"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List the function words and punctuation counted in each document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := features.Default()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tFEATURE")
		for i := 0; i < c.Len(); i++ {
			fmt.Fprintf(w, "%d\t%s\n", i, c.Token(i))
		}
		fmt.Fprintf(w, "\n%d features, fingerprint %s\n", c.Len(), c.Fingerprint()[:12])
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
}
