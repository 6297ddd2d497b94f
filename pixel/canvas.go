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
	"image"
	"image/color"
)

// Canvas presents a [Source] of the given size as an [image.Image], so that
// it can be passed to encoders from the standard library or from
// golang.org/x/image.  Pixels are computed on demand.
type Canvas struct {
	Source
	Width, Height int
}

// ColorModel implements the [image.Image] interface.
func (c Canvas) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the [image.Image] interface.
func (c Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, max(c.Width, 0), max(c.Height, 0))
}

// At implements the [image.Image] interface.
// Pixels outside the canvas are transparent black.
func (c Canvas) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return color.RGBA{}
	}
	col := c.ColorAt(x, y)
	return color.RGBA{R: col.R, G: col.G, B: col.B, A: 255}
}

// Opaque reports that every pixel inside the canvas is fully opaque.
// The standard PNG encoder uses this to drop the alpha channel.
func (c Canvas) Opaque() bool {
	return true
}

// FromImage returns a [Source] which reads colors from img.  Coordinates are
// taken relative to the top-left corner of the image bounds.  Alpha is
// discarded; colors are converted to 8 bits per channel.
func FromImage(img image.Image) Source {
	b := img.Bounds()
	return Func(func(x, y int) RGB {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		return RGB{c.R, c.G, c.B}
	})
}
