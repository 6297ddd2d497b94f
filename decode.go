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
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"seehuhn.de/go/testimg/pixel"
)

// A FormatError reports that the input is not a valid PNG file.
type FormatError string

func (e FormatError) Error() string { return "testimg: invalid format: " + string(e) }

// An UnsupportedError reports that the input is a valid PNG file which uses
// a feature this package cannot read.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "testimg: unsupported feature: " + string(e) }

// File is the chunk structure of a PNG file.
type File struct {
	Header Header
	Chunks []Chunk // all chunks, in file order, including IHDR and IEND
}

// ReadChunks splits a PNG file into chunks, without looking at their
// contents.  Only the signature and the chunk framing are checked: the
// chunks must fill the file exactly, ending with IEND.  Checksums are not
// verified, see [Chunk.Valid].  The chunks share memory with data.
func ReadChunks(data []byte) ([]Chunk, error) {
	if !bytes.HasPrefix(data, []byte(Signature)) {
		return nil, FormatError("not a PNG file")
	}
	rest := data[len(Signature):]

	var chunks []Chunk
	for {
		if len(rest) == 0 {
			return nil, FormatError("missing IEND chunk")
		}
		if len(rest) < 12 {
			return nil, FormatError("truncated chunk")
		}
		n := binary.BigEndian.Uint32(rest[:4])
		if n > maxChunkLen || uint64(n) > uint64(len(rest)-12) {
			return nil, FormatError("truncated chunk")
		}

		var c Chunk
		copy(c.Type[:], rest[4:8])
		c.Data = rest[8 : 8+n]
		c.CRC = binary.BigEndian.Uint32(rest[8+n : 12+n])
		rest = rest[12+n:]

		chunks = append(chunks, c)
		if c.Type == TypeIEND {
			break
		}
	}

	if len(rest) > 0 {
		return nil, FormatError("data after IEND chunk")
	}
	return chunks, nil
}

// Decode splits a PNG file into chunks and checks the file structure.
//
// In addition to the checks of [ReadChunks], every chunk checksum is
// verified, the first chunk must be a valid IHDR, IEND must be empty, and
// there must be at least one IDAT chunk.  Pixel data is not decompressed
// until [File.Raw] or [File.Pixels] is called.  The chunks share memory
// with data.
func Decode(data []byte) (*File, error) {
	chunks, err := ReadChunks(data)
	if err != nil {
		return nil, err
	}

	f := &File{Chunks: chunks}
	numIDAT := 0
	for i, c := range chunks {
		if !c.Valid() {
			return nil, FormatError("checksum mismatch in " + c.Type.String() + " chunk")
		}

		switch {
		case i == 0:
			if c.Type != TypeIHDR {
				return nil, FormatError("first chunk is not IHDR")
			}
			h, err := ParseHeader(c.Data)
			if err != nil {
				return nil, err
			}
			f.Header = h
		case c.Type == TypeIHDR:
			return nil, FormatError("duplicate IHDR chunk")
		case c.Type == TypeIDAT:
			numIDAT++
		case c.Type == TypeIEND && len(c.Data) != 0:
			return nil, FormatError("bad IEND length")
		}
	}

	if numIDAT == 0 {
		return nil, FormatError("missing IDAT chunk")
	}
	return f, nil
}

// Count returns the number of chunks of the given type.
func (f *File) Count(typ ChunkType) int {
	n := 0
	for _, c := range f.Chunks {
		if c.Type == typ {
			n++
		}
	}
	return n
}

// ImageData returns the concatenated payloads of all IDAT chunks.
func (f *File) ImageData() []byte {
	var res []byte
	for _, c := range f.Chunks {
		if c.Type == TypeIDAT {
			res = append(res, c.Data...)
		}
	}
	return res
}

// Raw decompresses the image data.
// For the images written by [Encode], this gives the scanlines, each
// starting with its filter type byte.
func (f *File) Raw() ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(f.ImageData()))
	if err != nil {
		return nil, FormatError("bad zlib stream: " + err.Error())
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, FormatError("bad zlib stream: " + err.Error())
	}
	return raw, nil
}

// Pixels returns a [pixel.Source] for the decoded image.
//
// Only the subset of PNG written by [Encode] is supported: 8-bit RGB,
// no interlacing, and filter type None on every scanline.
func (f *File) Pixels() (pixel.Source, error) {
	h := f.Header
	if h.BitDepth != bitDepth8 || h.ColorType != colorTypeRGB {
		return nil, UnsupportedError("only 8-bit RGB images are supported")
	}
	if h.CompressionMethod != compressionZip || h.FilterMethod != filterAdaptive {
		return nil, FormatError("unknown compression or filter method")
	}
	if h.InterlaceMethod != interlaceNone {
		return nil, UnsupportedError("interlacing")
	}
	if err := checkDimensions(int(h.Width), int(h.Height)); err != nil {
		return nil, UnsupportedError("image too large")
	}

	raw, err := f.Raw()
	if err != nil {
		return nil, err
	}

	width, height := int(h.Width), int(h.Height)
	rowLen := 1 + bytesPerPixel*width
	if len(raw) != height*rowLen {
		return nil, FormatError("wrong amount of image data")
	}
	for y := range height {
		if raw[y*rowLen] != 0 {
			return nil, UnsupportedError("scanline filters")
		}
	}

	return pixel.Func(func(x, y int) pixel.RGB {
		i := y*rowLen + 1 + bytesPerPixel*x
		return pixel.RGB{R: raw[i], G: raw[i+1], B: raw[i+2]}
	}), nil
}
