// Package plot turns similarity scores into a 2D vector diagram. Each score
// is read as cos(θ) and drawn as a unit arrow θ degrees from the baseline.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/jacklau/authorship/internal/compare"
	"github.com/jacklau/authorship/internal/similarity"
)

// Bound is the upper limit of both axes. Unit arrows plus their labels fit inside.
const Bound = 1.5

// Arrow is a vector drawn from the origin.
type Arrow struct {
	Label        string
	X, Y         float64
	Similarity   float64
	AngleDegrees float64
	Annotation   string
	Color        color.RGBA
}

// Diagram is everything needed to draw a comparison.
type Diagram struct {
	Title    string
	Baseline Arrow
	Arrows   []Arrow
}

var baselineColor = color.RGBA{A: 255}

// palette holds the reference arrow colors, reused cyclically.
var palette = []color.RGBA{
	{R: 214, G: 39, B: 40, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// Build lays out one arrow per score plus the baseline at angle 0.
// It only reads the scores in res and fails if any is not a valid cosine.
func Build(res *compare.Result) (*Diagram, error) {
	if res == nil || len(res.Scores) == 0 {
		return nil, errors.New("nothing to plot: no scores")
	}

	d := &Diagram{
		Title: fmt.Sprintf("Stylometric similarity to %s", res.Unknown),
		Baseline: Arrow{
			Label:      res.Unknown,
			X:          1,
			Y:          0,
			Similarity: 1,
			Annotation: res.Unknown,
			Color:      baselineColor,
		},
		Arrows: make([]Arrow, 0, len(res.Scores)),
	}

	for i, s := range res.Scores {
		angle, err := similarity.Angle(s.Similarity)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", s.Label, err)
		}
		d.Arrows = append(d.Arrows, Arrow{
			Label:        s.Label,
			X:            s.Similarity,
			Y:            math.Sin(math.Acos(s.Similarity)),
			Similarity:   s.Similarity,
			AngleDegrees: angle,
			Annotation:   fmt.Sprintf("%s: %.2f%% (%.2f°)", s.Label, s.Similarity*100, angle),
			Color:        palette[i%len(palette)],
		})
	}

	return d, nil
}
