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

// Fixture is a named image, ready to be encoded and embedded into a test
// document.
type Fixture struct {
	Name   string // lowercase a-z and _ only
	Media  string // file name of the image inside the document package
	Width  int    // canvas width in pixels
	Height int    // canvas height in pixels
	Source Source
}

// All contains the images of the stress test document, in the order in
// which the document references them.
var All = []Fixture{
	{
		Name:   "gradient",
		Media:  "gradient.png",
		Width:  400,
		Height: 120,
		Source: DefaultGradient(400),
	},
	{
		Name:   "checkerboard",
		Media:  "checkerboard.png",
		Width:  400,
		Height: 200,
		Source: DefaultCheckerboard(),
	},
	{
		Name:   "chart",
		Media:  "chart.png",
		Width:  400,
		Height: 200,
		Source: DefaultBarChart(400, 200),
	},
}

// Lookup returns the fixture with the given name from [All].
func Lookup(name string) (Fixture, bool) {
	for _, f := range All {
		if f.Name == name {
			return f, true
		}
	}
	return Fixture{}, false
}
