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

package testimg

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"seehuhn.de/go/testimg/pixel"
)

// Signature is the eight-byte magic string at the start of every PNG file.
const Signature = "\x89PNG\r\n\x1a\n"

const (
	// maxDimension is the largest width or height PNG allows.
	maxDimension = 1<<31 - 1

	// maxRawSize limits the uncompressed image data, so that the
	// compressed data always fits into a single IDAT chunk.
	maxRawSize = 1 << 30

	bytesPerPixel = 3
)

// ErrInvalidDimensions is returned when the image width or height is not
// positive, or when the image is too large to be encoded.
var ErrInvalidDimensions = errors.New("testimg: invalid image dimensions")

// CompressionLevel selects a trade-off between encoding speed and file size.
// The level never changes the decoded pixels.
type CompressionLevel int

// The values match those of the image/png package.
const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	BestCompression    CompressionLevel = -3
)

// Encoder configures PNG encoding.
// The zero value is ready to use.  An Encoder may be used concurrently.
type Encoder struct {
	CompressionLevel CompressionLevel
}

// Encode renders src on a width×height canvas and returns the image as a
// PNG file, using default settings.
func Encode(width, height int, src pixel.Source) ([]byte, error) {
	var e Encoder
	return e.Encode(width, height, src)
}

// Encode renders src on a width×height canvas and returns the image as a
// PNG file.
//
// The file consists of the PNG signature, an IHDR chunk for 8-bit RGB
// without interlacing, a single IDAT chunk and an IEND chunk.  Scanlines
// are stored without prediction filter.  The output only depends on the
// arguments.
//
// If the dimensions are invalid, an error wrapping [ErrInvalidDimensions] is
// returned before src is called.
func (e *Encoder) Encode(width, height int, src pixel.Source) ([]byte, error) {
	err := checkDimensions(width, height)
	if err != nil {
		return nil, err
	}

	raw := scanlines(width, height, src)
	compressed, err := e.compress(raw)
	if err != nil {
		return nil, err
	}

	ihdr, _ := truecolor(width, height).MarshalBinary()
	chunks := []Chunk{
		NewChunk(TypeIHDR, ihdr),
		NewChunk(TypeIDAT, compressed),
		NewChunk(TypeIEND, nil),
	}

	size := len(Signature)
	for _, c := range chunks {
		size += c.size()
	}
	out := make([]byte, 0, size)
	out = append(out, Signature...)
	for _, c := range chunks {
		out = c.AppendTo(out)
	}
	return out, nil
}

// EncodeTo is like [Encoder.Encode], but writes the PNG file to w.
// Nothing is written if the dimensions are invalid.
func (e *Encoder) EncodeTo(w io.Writer, width, height int, src pixel.Source) error {
	data, err := e.Encode(width, height, src)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// checkDimensions verifies that a width×height image can be encoded.
// Sizes are compared by division, so that no intermediate product can
// overflow.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("%w: %dx%d exceeds the PNG limit", ErrInvalidDimensions, width, height)
	}
	if width > (maxRawSize-1)/bytesPerPixel {
		return fmt.Errorf("%w: width %d too large", ErrInvalidDimensions, width)
	}
	if rowLen := 1 + bytesPerPixel*width; height > maxRawSize/rowLen {
		return fmt.Errorf("%w: %dx%d too large", ErrInvalidDimensions, width, height)
	}
	return nil
}

// scanlines builds the unfiltered image data: every row starts with filter
// type 0, followed by one RGB triple per pixel.
func scanlines(width, height int, src pixel.Source) []byte {
	rowLen := 1 + bytesPerPixel*width
	raw := make([]byte, height*rowLen)
	for y := range height {
		row := raw[y*rowLen : (y+1)*rowLen]
		row[0] = 0 // filter type None
		pix := row[1:]
		for x := range width {
			c := src.ColorAt(x, y)
			pix[3*x] = c.R
			pix[3*x+1] = c.G
			pix[3*x+2] = c.B
		}
	}
	return raw
}

// compress wraps raw in a zlib stream.
func (e *Encoder) compress(raw []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, levelToZlib(e.CompressionLevel))
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// levelToZlib maps the zero value of CompressionLevel to
// zlib.DefaultCompression.
func levelToZlib(l CompressionLevel) int {
	switch l {
	case NoCompression:
		return zlib.NoCompression
	case BestSpeed:
		return zlib.BestSpeed
	case BestCompression:
		return zlib.BestCompression
	default:
		return zlib.DefaultCompression
	}
}
