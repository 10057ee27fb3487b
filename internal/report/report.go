// Package report prints comparison results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jacklau/authorship/internal/compare"
	"github.com/jacklau/authorship/internal/similarity"
)

// Format selects how a result is printed.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatTable, FormatJSON}

// ParseFormat validates a format name. An empty name selects FormatText.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if Format(strings.ToLower(name)) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (want text, table or json)", name)
}

// Write prints res to w in the given format. colorize highlights the best
// match in table output.
func Write(w io.Writer, res *compare.Result, format Format, colorize bool) error {
	switch format {
	case FormatText, "":
		return WriteText(w, res)
	case FormatTable:
		return WriteTable(w, res, colorize)
	case FormatJSON:
		return WriteJSON(w, res)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteText prints one line per reference, in comparison order:
//
//	Similarity between madison and unknown: 0.932
func WriteText(w io.Writer, res *compare.Result) error {
	for _, s := range res.Scores {
		if _, err := fmt.Fprintf(w, "Similarity between %s and %s: %.3f\n", s.Label, res.Unknown, s.Similarity); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable prints the scores with percentage and angle columns and marks
// the most similar reference.
func WriteTable(w io.Writer, res *compare.Result, colorize bool) error {
	best, _ := res.Best()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Similarity to %s", res.Unknown)
	tw.AppendHeader(table.Row{"Reference", "Similarity", "Percent", "Angle", "Best"})

	for _, s := range res.Scores {
		angle, err := similarity.Angle(s.Similarity)
		if err != nil {
			return fmt.Errorf("reference %s: %w", s.Label, err)
		}

		marker := ""
		if s.Label == best.Label {
			marker = "*"
		}
		row := table.Row{
			s.Label,
			fmt.Sprintf("%.3f", s.Similarity),
			fmt.Sprintf("%.2f%%", s.Similarity*100),
			fmt.Sprintf("%.2f°", angle),
			marker,
		}
		if colorize && marker != "" {
			for i := range row {
				row[i] = text.Colors{text.FgGreen, text.Bold}.Sprint(row[i])
			}
		}
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignCenter},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// jsonResult is the JSON shape of a result.
type jsonResult struct {
	Unknown string      `json:"unknown"`
	Best    string      `json:"best,omitempty"`
	Scores  []jsonScore `json:"scores"`
}

type jsonScore struct {
	Label        string  `json:"label"`
	Similarity   float64 `json:"similarity"`
	AngleDegrees float64 `json:"angle_degrees"`
}

// WriteJSON encodes res as indented JSON.
func WriteJSON(w io.Writer, res *compare.Result) error {
	out := jsonResult{Unknown: res.Unknown, Scores: make([]jsonScore, 0, len(res.Scores))}
	if best, ok := res.Best(); ok {
		out.Best = best.Label
	}
	for _, s := range res.Scores {
		angle, err := similarity.Angle(s.Similarity)
		if err != nil {
			return fmt.Errorf("reference %s: %w", s.Label, err)
		}
		out.Scores = append(out.Scores, jsonScore{Label: s.Label, Similarity: s.Similarity, AngleDegrees: angle})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
