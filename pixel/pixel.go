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

// Package pixel implements procedural pixel sources.
//
// A [Source] maps canvas coordinates to colors.  All sources in this package
// are plain values holding only their own parameters, so a source can be
// shared between goroutines and evaluating it twice gives the same image.
package pixel

import "fmt"

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Source gives the color of every pixel of a canvas.
//
// ColorAt is only called with 0 <= x < width and 0 <= y < height, where
// width and height are the canvas dimensions the source is used with.
// Implementations must not keep state between calls.
type Source interface {
	ColorAt(x, y int) RGB
}

// Solid paints every pixel with the same color.
type Solid struct {
	Color RGB
}

// ColorAt implements the [Source] interface.
func (s Solid) ColorAt(x, y int) RGB {
	return s.Color
}

// Func adapts an ordinary function to the [Source] interface.
// The function must be deterministic.
type Func func(x, y int) RGB

// ColorAt implements the [Source] interface.
func (f Func) ColorAt(x, y int) RGB {
	return f(x, y)
}
