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

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"seehuhn.de/go/testimg/pixel"
)

// ErrInvalidSet is returned when an image-set file cannot be used.
var ErrInvalidSet = errors.New("invalid image set")

// An image-set file is a YAML document of the following form:
//
//	images:
//	  - name: banner
//	    media: banner.png      # optional, defaults to name + ".png"
//	    kind: gradient         # gradient, checkerboard, barchart or solid
//	    width: 640
//	    height: ratio(width, 1, 4)
//	    params:
//	      start: "#1eb4dc"
//	      end: [255, 80, 0]
//
// Sizes are integers or arithmetic expressions.  The height expression can
// refer to the image width as "width".  The function ratio(w, num, den)
// computes w*num/den.  Results are rounded to the nearest integer.
type setFile struct {
	Images []setEntry `yaml:"images"`
}

type setEntry struct {
	Name   string                 `yaml:"name"`
	Media  string                 `yaml:"media"`
	Kind   string                 `yaml:"kind"`
	Width  interface{}            `yaml:"width"`
	Height interface{}            `yaml:"height"`
	Params map[string]interface{} `yaml:"params"`
}

type gradientParams struct {
	Start pixel.RGB `yaml:"start"`
	End   pixel.RGB `yaml:"end"`
}

type checkerboardParams struct {
	Cell    int         `yaml:"cell"`
	Palette []pixel.RGB `yaml:"palette"`
}

type barParams struct {
	Value float64   `yaml:"value"`
	Color pixel.RGB `yaml:"color"`
}

type barChartParams struct {
	Bars       []barParams `yaml:"bars"`
	Axis       int         `yaml:"axis"`
	Gap        int         `yaml:"gap"`
	AxisColor  pixel.RGB   `yaml:"axis_color"`
	Background pixel.RGB   `yaml:"background"`
}

type solidParams struct {
	Color pixel.RGB `yaml:"color"`
}

// LoadSet reads an image-set file and returns the images it describes.
func LoadSet(path string) ([]pixel.Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := ParseSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// ParseSet decodes the contents of an image-set file.
func ParseSet(data []byte) ([]pixel.Fixture, error) {
	var f setFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSet, err)
	}
	if len(f.Images) == 0 {
		return nil, fmt.Errorf("%w: no images", ErrInvalidSet)
	}

	res := make([]pixel.Fixture, 0, len(f.Images))
	names := make(map[string]bool)
	media := make(map[string]bool)
	for i, e := range f.Images {
		fx, err := e.fixture()
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", ErrInvalidSet, i+1, err)
		}
		if names[fx.Name] {
			return nil, fmt.Errorf("%w: duplicate image name %q", ErrInvalidSet, fx.Name)
		}
		if media[fx.Media] {
			return nil, fmt.Errorf("%w: duplicate media file %q", ErrInvalidSet, fx.Media)
		}
		names[fx.Name] = true
		media[fx.Media] = true
		res = append(res, fx)
	}
	return res, nil
}

func (e *setEntry) fixture() (pixel.Fixture, error) {
	if !validName(e.Name) {
		return pixel.Fixture{}, fmt.Errorf("invalid name %q", e.Name)
	}

	w, err := evalSize(e.Width, map[string]interface{}{})
	if err != nil {
		return pixel.Fixture{}, fmt.Errorf("%s: width: %v", e.Name, err)
	}
	h, err := evalSize(e.Height, map[string]interface{}{"width": float64(w)})
	if err != nil {
		return pixel.Fixture{}, fmt.Errorf("%s: height: %v", e.Name, err)
	}

	src, err := e.source(w, h)
	if err != nil {
		return pixel.Fixture{}, fmt.Errorf("%s: %v", e.Name, err)
	}

	media := e.Media
	if media == "" {
		media = e.Name + ".png"
	}
	return pixel.Fixture{
		Name:   e.Name,
		Media:  media,
		Width:  w,
		Height: h,
		Source: src,
	}, nil
}

func (e *setEntry) source(w, h int) (pixel.Source, error) {
	switch e.Kind {
	case "gradient":
		def := pixel.DefaultGradient(w)
		p := gradientParams{Start: def.Start, End: def.End}
		if err := decodeParams(e.Params, &p); err != nil {
			return nil, err
		}
		return pixel.Gradient{Width: w, Start: p.Start, End: p.End}, nil

	case "checkerboard":
		def := pixel.DefaultCheckerboard()
		p := checkerboardParams{Cell: def.Cell}
		if err := decodeParams(e.Params, &p); err != nil {
			return nil, err
		}
		if p.Cell <= 0 {
			return nil, fmt.Errorf("cell size %d is not positive", p.Cell)
		}
		if p.Palette == nil {
			p.Palette = def.Palette
		} else if len(p.Palette) == 0 {
			return nil, errors.New("empty palette")
		}
		return pixel.Checkerboard{Cell: p.Cell, Palette: p.Palette}, nil

	case "barchart":
		def := pixel.DefaultBarChart(w, h)
		p := barChartParams{
			Axis:       def.Axis,
			Gap:        def.Gap,
			AxisColor:  def.AxisColor,
			Background: def.Background,
		}
		if err := decodeParams(e.Params, &p); err != nil {
			return nil, err
		}
		if p.Axis < 0 || p.Gap < 0 {
			return nil, errors.New("negative axis height or gap")
		}
		c := def
		c.Axis, c.Gap = p.Axis, p.Gap
		c.AxisColor, c.Background = p.AxisColor, p.Background
		if p.Bars != nil {
			c.Bars = make([]pixel.Bar, len(p.Bars))
			for i, b := range p.Bars {
				c.Bars[i] = pixel.Bar{Value: b.Value, Color: b.Color}
			}
		}
		return c, nil

	case "solid":
		var p solidParams
		if err := decodeParams(e.Params, &p); err != nil {
			return nil, err
		}
		return pixel.Solid{Color: p.Color}, nil

	case "":
		return nil, errors.New("missing kind")
	default:
		return nil, fmt.Errorf("unknown kind %q", e.Kind)
	}
}

func decodeParams(params map[string]interface{}, out interface{}) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  rgbHook,
		ErrorUnused: true,
		TagName:     "yaml",
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

var rgbType = reflect.TypeOf(pixel.RGB{})

// rgbHook allows colors to be written as "#rrggbb", as [r, g, b] or as
// {r: .., g: .., b: ..}.
func rgbHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != rgbType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return parseHexColor(v)
	case []interface{}:
		if len(v) != 3 {
			return nil, fmt.Errorf("color %v: need three components", v)
		}
		var c [3]uint8
		for i, x := range v {
			n, err := channel(x)
			if err != nil {
				return nil, err
			}
			c[i] = n
		}
		return pixel.RGB{R: c[0], G: c[1], B: c[2]}, nil
	case map[interface{}]interface{}:
		return rgbFromMap(v)
	}
	return data, nil
}

func rgbFromMap(m map[interface{}]interface{}) (pixel.RGB, error) {
	var c [3]uint8
	for k, x := range m {
		name, _ := k.(string)
		i := strings.Index("rgb", name)
		if len(name) != 1 || i < 0 {
			return pixel.RGB{}, fmt.Errorf("color: unknown component %v", k)
		}
		n, err := channel(x)
		if err != nil {
			return pixel.RGB{}, err
		}
		c[i] = n
	}
	if len(m) != 3 {
		return pixel.RGB{}, fmt.Errorf("color %v: need components r, g and b", m)
	}
	return pixel.RGB{R: c[0], G: c[1], B: c[2]}, nil
}

func parseHexColor(s string) (pixel.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return pixel.RGB{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return pixel.RGB{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	return pixel.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func channel(x interface{}) (uint8, error) {
	var v float64
	switch x := x.(type) {
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint64:
		v = float64(x)
	case float64:
		v = x
	default:
		return 0, fmt.Errorf("color component %v is not a number", x)
	}
	if v < 0 || v > 255 || v != math.Trunc(v) {
		return 0, fmt.Errorf("color component %v out of range", x)
	}
	return uint8(v), nil
}

var sizeFunctions = map[string]govaluate.ExpressionFunction{
	"ratio": func(args ...interface{}) (interface{}, error) {
		if len(args) != 3 {
			return nil, errors.New("ratio needs three arguments")
		}
		var f [3]float64
		for i, a := range args {
			v, ok := a.(float64)
			if !ok {
				return nil, fmt.Errorf("ratio: argument %d is not a number", i+1)
			}
			f[i] = v
		}
		if f[2] == 0 {
			return nil, errors.New("ratio: zero denominator")
		}
		return f[0] * f[1] / f[2], nil
	},
}

// maxSize bounds image sizes in set files.  It matches the largest size the
// encoder accepts in either direction.
const maxSize = 1<<31 - 1

func evalSize(v interface{}, vars map[string]interface{}) (int, error) {
	var f float64
	switch v := v.(type) {
	case nil:
		return 0, errors.New("missing")
	case int:
		f = float64(v)
	case float64:
		f = v
	case string:
		expr, err := govaluate.NewEvaluableExpressionWithFunctions(v, sizeFunctions)
		if err != nil {
			return 0, err
		}
		res, err := expr.Evaluate(vars)
		if err != nil {
			return 0, err
		}
		x, ok := res.(float64)
		if !ok {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		f = math.Round(x)
	default:
		return 0, fmt.Errorf("unexpected value %v", v)
	}

	if math.IsNaN(f) || f < 1 || f > maxSize || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid size %v", f)
	}
	return int(f), nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}
