package plot

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	gonum "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	headLength = 0.05
	headSpread = 25 * math.Pi / 180
)

// FormatFromPath returns the image format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "svg", "png", "pdf":
		return ext, nil
	case "":
		return "", fmt.Errorf("plot file %q has no extension (want .svg, .png or .pdf)", path)
	default:
		return "", fmt.Errorf("unsupported plot format %q (want svg, png or pdf)", ext)
	}
}

// Render draws d and writes it to w as an image of the given format.
func Render(w io.Writer, d *Diagram, format string, width, height vg.Length) error {
	p := gonum.New()
	p.Title.Text = d.Title
	p.X.Label.Text = "cos θ"
	p.Y.Label.Text = "sin θ"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	arrows := append([]Arrow{d.Baseline}, d.Arrows...)
	labels := plotter.XYLabels{}
	for _, a := range arrows {
		if err := addArrow(p, a); err != nil {
			return fmt.Errorf("drawing %s: %w", a.Label, err)
		}
		labels.XYs = append(labels.XYs, plotter.XY{X: a.X, Y: a.Y})
		labels.Labels = append(labels.Labels, a.Annotation)
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("creating labels: %w", err)
	}
	p.Add(l)

	// Fixed bounds, set after Add so autoscaling cannot widen them.
	p.X.Min, p.X.Max = 0, Bound
	p.Y.Min, p.Y.Max = 0, Bound

	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("preparing %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	return nil
}

// addArrow draws a shaft from the origin and a two-segment head at the tip.
func addArrow(p *gonum.Plot, a Arrow) error {
	shaft, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: a.X, Y: a.Y}})
	if err != nil {
		return err
	}
	shaft.LineStyle.Color = a.Color
	shaft.LineStyle.Width = vg.Points(2)

	theta := math.Atan2(a.Y, a.X)
	head, err := plotter.NewLine(plotter.XYs{
		{X: a.X - headLength*math.Cos(theta-headSpread), Y: a.Y - headLength*math.Sin(theta-headSpread)},
		{X: a.X, Y: a.Y},
		{X: a.X - headLength*math.Cos(theta+headSpread), Y: a.Y - headLength*math.Sin(theta+headSpread)},
	})
	if err != nil {
		return err
	}
	head.LineStyle.Color = a.Color
	head.LineStyle.Width = vg.Points(2)

	p.Add(shaft, head)
	p.Legend.Add(a.Label, shaft)
	return nil
}
