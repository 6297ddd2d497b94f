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

// Checkerboard tiles the canvas with square cells.  Cell (i, j) gets
// Palette[(i+j) mod len(Palette)], so colors cycle along both axes.
type Checkerboard struct {
	Cell    int   // edge length of a cell in pixels; values below 1 mean 1
	Palette []RGB // must not be modified while the source is in use
}

// DefaultCheckerboard returns the six-color checkerboard used in the stress
// test document.
func DefaultCheckerboard() Checkerboard {
	return Checkerboard{
		Cell: 25,
		Palette: []RGB{
			{220, 50, 50},
			{50, 160, 50},
			{50, 50, 200},
			{200, 180, 30},
			{180, 50, 180},
			{50, 180, 180},
		},
	}
}

// ColorAt implements the [Source] interface.
// An empty palette gives black.
func (c Checkerboard) ColorAt(x, y int) RGB {
	n := len(c.Palette)
	if n == 0 {
		return RGB{}
	}
	cell := max(c.Cell, 1)
	return c.Palette[(x/cell+y/cell)%n]
}
