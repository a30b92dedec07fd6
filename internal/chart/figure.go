// Package chart draws series into a figure of vertically stacked panels.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"TrendScreener/internal/series"
)

// NewPanel asks Plot and Bar to append a new panel.
const NewPanel = -1

// Defaults used when a Figure is created with zero sizes.
const (
	DefaultWidth       = 1200
	DefaultPanelHeight = 200
)

// ErrPanelOutOfRange is returned when a series targets a panel that does
// not exist.
var ErrPanelOutOfRange = errors.New("panel index out of range")

type panel struct {
	ratio  int
	title  string
	series []gochart.Series
}

// Figure is an ordered list of panels sharing the time axis. Each panel is
// ratio × PanelHeight pixels tall.
type Figure struct {
	Title       string
	Width       int
	PanelHeight int

	panels []*panel
}

// NewFigure creates an empty figure.
func NewFigure(title string, width, panelHeight int) *Figure {
	if width <= 0 {
		width = DefaultWidth
	}
	if panelHeight <= 0 {
		panelHeight = DefaultPanelHeight
	}
	return &Figure{Title: title, Width: width, PanelHeight: panelHeight}
}

// Panels returns the number of panels.
func (f *Figure) Panels() int { return len(f.panels) }

// Plot draws s as a line. panel is an existing panel index or NewPanel, in
// which case a panel of the given height ratio is appended. The index of
// the panel used is returned.
func (f *Figure) Plot(s *series.Series, label string, ratio, panel int) (int, error) {
	return f.add(s, label, ratio, panel, false)
}

// Bar is Plot with filled bars.
func (f *Figure) Bar(s *series.Series, label string, ratio, panel int) (int, error) {
	return f.add(s, label, ratio, panel, true)
}

func (f *Figure) add(s *series.Series, label string, ratio, idx int, bars bool) (int, error) {
	if s == nil {
		return 0, series.ErrEmptySeries
	}
	if idx == NewPanel {
		if ratio <= 0 {
			ratio = 1
		}
		f.panels = append(f.panels, &panel{ratio: ratio})
		idx = len(f.panels) - 1
	} else if idx < 0 || idx >= len(f.panels) {
		return 0, errors.Wrapf(ErrPanelOutOfRange, "panel %d of %d", idx, len(f.panels))
	}
	p := f.panels[idx]
	if label == "" {
		label = s.Name()
	}
	if p.title == "" {
		p.title = label
	}

	xs, ys := definedPoints(s)
	if len(xs) == 0 {
		return idx, nil
	}
	ts := gochart.TimeSeries{
		Name:    label,
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor: gochart.GetDefaultColor(len(p.series)),
			StrokeWidth: 1.5,
		},
	}
	if bars {
		ts.Style.FillColor = ts.Style.StrokeColor.WithAlpha(160)
		p.series = append(p.series, gochart.HistogramSeries{Name: label, Style: ts.Style, InnerSeries: ts})
		return idx, nil
	}
	p.series = append(p.series, ts)
	return idx, nil
}

func definedPoints(s *series.Series) ([]time.Time, []float64) {
	var (
		xs []time.Time
		ys []float64
	)
	for i, v := range s.Values() {
		if series.IsUndefined(v) {
			continue
		}
		xs = append(xs, s.Time(i))
		ys = append(ys, v)
	}
	return xs, ys
}

// Render draws every panel and writes the stacked result as one PNG.
func (f *Figure) Render(w io.Writer) error {
	if len(f.panels) == 0 {
		return errors.New("figure has no panels")
	}
	total := 0
	for _, p := range f.panels {
		total += p.ratio * f.PanelHeight
	}
	out := image.NewRGBA(image.Rect(0, 0, f.Width, total))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	y := 0
	for i, p := range f.panels {
		h := p.ratio * f.PanelHeight
		if len(p.series) > 0 {
			img, err := f.renderPanel(i, p, h)
			if err != nil {
				return fmt.Errorf("render panel %d: %w", i, err)
			}
			draw.Draw(out, image.Rect(0, y, f.Width, y+h), img, img.Bounds().Min, draw.Src)
		}
		y += h
	}
	return png.Encode(w, out)
}

func (f *Figure) renderPanel(i int, p *panel, height int) (image.Image, error) {
	title := p.title
	if i == 0 && f.Title != "" {
		title = f.Title
	}
	c := gochart.Chart{
		Title:  title,
		Width:  f.Width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		TitleStyle: gochart.Style{FontSize: 10},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Range: paddedRange(p.series),
			ValueFormatter: func(v interface{}) string {
				if vf, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", vf)
				}
				return ""
			},
			GridMajorStyle: gochart.Style{StrokeColor: drawing.ColorFromHex("e0e0e0"), StrokeWidth: 1},
		},
		Series: p.series,
	}
	if len(p.series) > 1 {
		c.Elements = []gochart.Renderable{gochart.LegendLeft(&c)}
	}
	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// paddedRange returns a fixed y range when every value is equal, which the
// renderer cannot scale on its own. Bars always include zero.
func paddedRange(list []gochart.Series) gochart.Range {
	lo, hi, bars := 0.0, 0.0, false
	first := true
	for _, s := range list {
		var ys []float64
		switch v := s.(type) {
		case gochart.TimeSeries:
			ys = v.YValues
		case gochart.HistogramSeries:
			ys = v.InnerSeries.(gochart.TimeSeries).YValues
			bars = true
		}
		for _, y := range ys {
			if first {
				lo, hi, first = y, y, false
				continue
			}
			lo, hi = min(lo, y), max(hi, y)
		}
	}
	if bars {
		lo, hi = min(lo, 0), max(hi, 0)
	}
	if first || lo != hi {
		if bars {
			return &gochart.ContinuousRange{Min: lo, Max: hi}
		}
		return nil
	}
	pad := 1.0
	if lo != 0 {
		pad = abs(lo) * 0.05
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Save renders the figure to a PNG file.
func (f *Figure) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := f.Render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
