// Package visualization renders evaluation runs as saccade plots.
package visualization

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nvandessel/saccadegen/internal/store"
)

// Plot size.
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 6 * vg.Inch
)

var (
	targetColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	generatedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Points holds the target and generated eye positions of a run.
//
// Target[i] is the absolute position reached by a perfect saccade i.
// Generated[i] is where saccade i lands when the decoded displacement starts
// from the previous target position (the origin for the first saccade).
type Points struct {
	Target    plotter.XYs
	Generated plotter.XYs
}

// SaccadePoints computes the plotted positions of a run.
func SaccadePoints(run *store.Run) Points {
	pts := Points{
		Target:    make(plotter.XYs, len(run.Events)),
		Generated: make(plotter.XYs, len(run.Events)),
	}
	var x, y float64
	for i, e := range run.Events {
		pts.Generated[i].X = x + e.DecodedX
		pts.Generated[i].Y = y + e.DecodedY
		x += e.TargetX
		y += e.TargetY
		pts.Target[i].X = x
		pts.Target[i].Y = y
	}
	return pts
}

// NewSaccadePlot builds a scatter plot of target vs generated positions,
// with the target path drawn as a line and the RMSE in the title.
func NewSaccadePlot(run *store.Run) (*plot.Plot, error) {
	pts := SaccadePoints(run)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (RMSE %.4g)", run.Scenario, run.RMSE)
	p.X.Label.Text = "horizontal position"
	p.Y.Label.Text = "vertical position"
	p.Add(plotter.NewGrid())

	path, err := plotter.NewLine(append(plotter.XYs{{}}, pts.Target...))
	if err != nil {
		return nil, fmt.Errorf("target path: %w", err)
	}
	path.LineStyle.Color = targetColor
	path.LineStyle.Width = vg.Points(0.5)
	path.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}

	targets, err := plotter.NewScatter(pts.Target)
	if err != nil {
		return nil, fmt.Errorf("target points: %w", err)
	}
	targets.GlyphStyle.Color = targetColor
	targets.GlyphStyle.Shape = draw.CircleGlyph{}
	targets.GlyphStyle.Radius = vg.Points(4)

	generated, err := plotter.NewScatter(pts.Generated)
	if err != nil {
		return nil, fmt.Errorf("generated points: %w", err)
	}
	generated.GlyphStyle.Color = generatedColor
	generated.GlyphStyle.Shape = draw.CrossGlyph{}
	generated.GlyphStyle.Radius = vg.Points(4)

	p.Add(path, targets, generated)
	p.Legend.Add("target", targets)
	p.Legend.Add("generated", generated)
	p.Legend.Top = true
	return p, nil
}

// RenderSaccadePlot writes the plot of a run to path. The image format
// follows the extension: .png, .svg, .pdf, .jpg or .eps.
func RenderSaccadePlot(run *store.Run, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".eps":
	default:
		return fmt.Errorf("unsupported plot format: %q", ext)
	}
	if len(run.Events) == 0 {
		return fmt.Errorf("run %s has no events to plot", run.ID)
	}

	p, err := NewSaccadePlot(run)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
