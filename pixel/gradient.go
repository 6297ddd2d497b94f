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

// Gradient is a horizontal linear blend from Start (left edge) to End (right
// edge).  The y coordinate is ignored.
type Gradient struct {
	Width int // canvas width in pixels
	Start RGB // color of column 0
	End   RGB // color of column Width-1
}

// DefaultGradient returns the blue-to-orange gradient used in the stress
// test document.
func DefaultGradient(width int) Gradient {
	return Gradient{
		Width: width,
		Start: RGB{30, 180, 220},
		End:   RGB{255, 80, 0},
	}
}

// ColorAt implements the [Source] interface.
func (g Gradient) ColorAt(x, y int) RGB {
	var t float64
	if g.Width > 1 {
		t = float64(x) / float64(g.Width-1)
	}
	return RGB{
		R: lerp(g.Start.R, g.End.R, t),
		G: lerp(g.Start.G, g.End.G, t),
		B: lerp(g.Start.B, g.End.B, t),
	}
}

// lerp blends a and b and truncates the result towards zero.
func lerp(a, b uint8, t float64) uint8 {
	// The explicit conversion keeps the compiler from fusing the
	// multiply-add, so that results agree across architectures.
	v := float64(a) + float64(float64(int(b)-int(a))*t)
	return uint8(max(0, min(255, v)))
}
