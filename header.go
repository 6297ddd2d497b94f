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
	"encoding/binary"
)

const headerSize = 13

// Values for the IHDR fields written by this package.
const (
	bitDepth8      = 8
	colorTypeRGB   = 2 // truecolor without alpha
	compressionZip = 0 // deflate, the only method defined for PNG
	filterAdaptive = 0 // the only filter method defined for PNG
	interlaceNone  = 0
)

// Header holds the contents of an IHDR chunk.
type Header struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

// truecolor returns the header for an 8-bit RGB image without interlacing.
// The dimensions must already have been validated.
func truecolor(width, height int) Header {
	return Header{
		Width:             uint32(width),
		Height:            uint32(height),
		BitDepth:          bitDepth8,
		ColorType:         colorTypeRGB,
		CompressionMethod: compressionZip,
		FilterMethod:      filterAdaptive,
		InterlaceMethod:   interlaceNone,
	}
}

// MarshalBinary returns the 13-byte IHDR payload.
// This implements the [encoding.BinaryMarshaler] interface.
func (h Header) MarshalBinary() ([]byte, error) {
	return h.appendTo(make([]byte, 0, headerSize)), nil
}

func (h Header) appendTo(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, h.Width)
	b = binary.BigEndian.AppendUint32(b, h.Height)
	return append(b,
		h.BitDepth,
		h.ColorType,
		h.CompressionMethod,
		h.FilterMethod,
		h.InterlaceMethod)
}

// ParseHeader decodes an IHDR payload.
//
// Only the framing is checked here: the payload must have the right length
// and the dimensions must be valid.  Whether the remaining fields describe
// an image this package can read is checked when the pixels are accessed.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) != headerSize {
		return h, FormatError("bad IHDR length")
	}

	h.Width = binary.BigEndian.Uint32(data[0:4])
	h.Height = binary.BigEndian.Uint32(data[4:8])
	if h.Width == 0 || h.Height == 0 || h.Width > maxDimension || h.Height > maxDimension {
		return h, FormatError("invalid image dimensions")
	}

	h.BitDepth = data[8]
	h.ColorType = data[9]
	h.CompressionMethod = data[10]
	h.FilterMethod = data[11]
	h.InterlaceMethod = data[12]

	return h, nil
}
