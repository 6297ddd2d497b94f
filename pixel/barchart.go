// seehuhn.de/go/testimg - synthetic raster images for document tests
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pixel

import (
	"seehuhn.de/go/geom/rect"
)

// Bar is one bar of a [BarChart].
type Bar struct {
	Value float64 // fraction of the plot height, clamped to [0, 1]
	Color RGB
}

// BarChart draws a simple bar chart without labels.
//
// The canvas width is split into len(Bars) bands of equal width; the last
// band absorbs the pixels left over by the integer division.  The bottom
// Axis rows form the axis strip.  Each bar grows upwards from the axis and
// leaves a gap of Gap pixels at the right edge of its band.
type BarChart struct {
	// Width and Height give the canvas size in pixels.
	Width, Height int

	// Bars lists the bars from left to right.
	Bars []Bar

	// Axis is the height of the axis strip at the bottom of the canvas.
	Axis int

	// Gap is the number of background columns at the right edge of each
	// band.
	Gap int

	// AxisColor is used for the whole axis strip, across all bands.
	AxisColor RGB

	// Background fills everything which is neither bar nor axis.
	Background RGB
}

// DefaultBarChart returns the eight-bar chart used in the stress test
// document.
func DefaultBarChart(width, height int) BarChart {
	values := []float64{0.7, 0.45, 0.9, 0.3, 0.6, 0.85, 0.5, 0.75}
	colors := []RGB{
		{41, 128, 185}, {39, 174, 96}, {231, 76, 60}, {243, 156, 18},
		{142, 68, 173}, {52, 73, 94}, {230, 126, 34}, {46, 204, 113},
	}
	bars := make([]Bar, len(values))
	for i, v := range values {
		bars[i] = Bar{Value: v, Color: colors[i]}
	}
	return BarChart{
		Width:      width,
		Height:     height,
		Bars:       bars,
		Axis:       20,
		Gap:        4,
		AxisColor:  RGB{60, 60, 60},
		Background: RGB{245, 245, 245},
	}
}

// ColorAt implements the [Source] interface.
func (c BarChart) ColorAt(x, y int) RGB {
	if y >= c.plotHeight() {
		return c.AxisColor
	}
	if len(c.Bars) == 0 {
		return c.Background
	}

	i := c.band(x)
	if contains(c.barRect(i), x, y) {
		return c.Bars[i].Color
	}
	return c.Background
}

// Layout returns the area covered by each bar, in pixel coordinates with
// the origin in the top-left corner and y pointing down.  The rectangles
// are integer-aligned; URx and URy are exclusive.  Bars which end up with
// no pixels have an empty rectangle.
func (c BarChart) Layout() []rect.Rect {
	res := make([]rect.Rect, len(c.Bars))
	for i := range c.Bars {
		res[i] = c.barRect(i)
	}
	return res
}

// AxisStrip returns the area of the axis strip.
func (c BarChart) AxisStrip() rect.Rect {
	return rect.Rect{
		LLx: 0,
		LLy: float64(c.plotHeight()),
		URx: float64(max(c.Width, 0)),
		URy: float64(max(c.Height, 0)),
	}
}

// plotHeight is the number of rows above the axis strip.
func (c BarChart) plotHeight() int {
	axis := min(max(c.Axis, 0), max(c.Height, 0))
	return c.Height - axis
}

// bandWidth is the nominal band width.  It is at least one pixel, so that
// narrow canvases with many bars still map every column to a band.
func (c BarChart) bandWidth() int {
	return max(c.Width/len(c.Bars), 1)
}

// band returns the index of the band containing column x.
func (c BarChart) band(x int) int {
	return min(x/c.bandWidth(), len(c.Bars)-1)
}

func (c BarChart) barRect(i int) rect.Rect {
	bw := c.bandWidth()
	x0 := i * bw
	x1 := x0 + bw
	if i == len(c.Bars)-1 {
		x1 = max(c.Width, x1)
	}
	x1 = min(x1-max(c.Gap, 0), c.Width)

	plot := c.plotHeight()
	h := int(clampUnit(c.Bars[i].Value) * float64(plot))
	y0 := plot - h

	if x1 <= x0 || h <= 0 {
		return rect.Rect{}
	}
	return rect.Rect{
		LLx: float64(x0),
		LLy: float64(y0),
		URx: float64(x1),
		URy: float64(plot),
	}
}

// contains reports whether pixel (x, y) lies inside the half-open,
// integer-aligned rectangle r.
func contains(r rect.Rect, x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= r.LLx && fx < r.URx && fy >= r.LLy && fy < r.URy
}

func clampUnit(v float64) float64 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	return min(v, 1)
}
