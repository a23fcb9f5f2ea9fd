package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	legendSwatchWidth = 24
	legendSpacing     = 8
)

// compoundLegend draws one swatch and label per entry in the upper left
// corner of the canvas.
func compoundLegend(entries []LegendEntry) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		font := defaults.GetFont()
		if font == nil {
			return
		}
		r.SetFont(font)
		r.SetFontSize(defaults.GetFontSize(chart.DefaultFontSize))
		r.SetFontColor(textColor)

		x := cb.Left + legendSpacing
		y := cb.Top + legendSpacing
		for _, e := range entries {
			col, ok := ColorFor(e.Code)
			if !ok {
				continue
			}
			tb := r.MeasureText(e.Label)
			lineY := y + tb.Height()/2

			r.SetStrokeColor(col)
			r.SetStrokeWidth(4)
			r.MoveTo(x, lineY)
			r.LineTo(x+legendSwatchWidth, lineY)
			r.Stroke()

			r.Text(e.Label, x+legendSwatchWidth+legendSpacing, y+tb.Height())
			y += tb.Height() + legendSpacing
		}
	}
}
