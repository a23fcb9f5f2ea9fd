package render

import (
	"fmt"
	"io"
	"math"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/joshgregory42/f1-analysis-2021/internal/processor"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported image format %q (png, svg)", s)
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatSVG {
		return chart.SVG
	}
	return chart.PNG
}

var (
	backgroundColor = drawing.ColorFromHex("151515")
	textColor       = drawing.ColorWhite
	// two step "ocean" color map: one color per code
	palette = map[processor.ColorCode]drawing.Color{
		processor.CodeIntermediate: {R: 0, G: 128, B: 0, A: 255},
		processor.CodeSlick:        {R: 255, G: 255, B: 255, A: 255},
	}
)

// ColorFor returns the palette color of a code.
func ColorFor(code processor.ColorCode) (drawing.Color, bool) {
	c, ok := palette[code]
	return c, ok
}

type Options struct {
	Format    Format
	Size      int // width and height in pixels
	DPI       float64
	LineWidth float64
}

func DefaultOptions() Options {
	return Options{Format: FormatPNG, Size: 1200, DPI: chart.DefaultDPI, LineWidth: 2}
}

// Render draws the scene. The image is square and both axes share the same
// scale so the track shape is not distorted. An empty scene results in a
// blank image.
func Render(scene *Scene, opts Options, w io.Writer) error {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.DPI <= 0 {
		opts.DPI = chart.DefaultDPI
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions().LineWidth
	}
	if scene.Empty() {
		return renderBlank(opts, w)
	}

	series := make([]chart.Series, 0)
	for _, pl := range scene.polylines() {
		col, ok := ColorFor(pl.Code)
		if !ok {
			return fmt.Errorf("track renderer: no color for code %d: %w",
				pl.Code, processor.ErrInvalidCompound)
		}
		series = append(series, chart.ContinuousSeries{
			XValues: lo.Map(pl.Points, func(p r2.Point, _ int) float64 { return p.X }),
			YValues: lo.Map(pl.Points, func(p r2.Point, _ int) float64 { return p.Y }),
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: opts.LineWidth,
			},
		})
	}

	xr, yr := equalRanges(scene.Bounds)
	padding := opts.Size / 12
	ch := chart.Chart{
		Title:      scene.Title,
		TitleStyle: chart.Style{FontColor: textColor, FontSize: 14},
		Width:      opts.Size,
		Height:     opts.Size,
		DPI:        opts.DPI,
		Background: chart.Style{
			FillColor: backgroundColor,
			Padding:   chart.Box{Top: padding, Left: padding, Right: padding, Bottom: padding},
		},
		Canvas: chart.Style{FillColor: backgroundColor},
		XAxis:  chart.XAxis{Style: chart.Style{Hidden: true}, Range: xr},
		YAxis:  chart.YAxis{Style: chart.Style{Hidden: true}, Range: yr},
		Series: series,
	}
	if len(scene.Legend) > 0 {
		ch.Elements = []chart.Renderable{compoundLegend(scene.Legend)}
	}
	if err := ch.Render(opts.Format.provider(), w); err != nil {
		return fmt.Errorf("track renderer: %w", err)
	}
	return nil
}

// equalRanges returns axis ranges with identical spans centered on the track.
func equalRanges(bounds r2.Rect) (x, y *chart.ContinuousRange) {
	center := bounds.Center()
	size := bounds.Size()
	half := math.Max(size.X, size.Y) / 2 * 1.05
	if half == 0 {
		half = 1
	}
	return &chart.ContinuousRange{Min: center.X - half, Max: center.X + half},
		&chart.ContinuousRange{Min: center.Y - half, Max: center.Y + half}
}

func renderBlank(opts Options, w io.Writer) error {
	r, err := opts.Format.provider()(opts.Size, opts.Size)
	if err != nil {
		return fmt.Errorf("track renderer: %w", err)
	}
	r.SetDPI(opts.DPI)
	r.SetFillColor(backgroundColor)
	size := float64(opts.Size)
	r.MoveTo(0, 0)
	r.LineTo(int(size), 0)
	r.LineTo(int(size), int(size))
	r.LineTo(0, int(size))
	r.Close()
	r.Fill()
	return r.Save(w)
}
