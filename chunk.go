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
	"hash/crc32"
)

// maxChunkLen is the largest payload a PNG chunk may carry (2^31-1 bytes).
const maxChunkLen = 1<<31 - 1

// ChunkType is the four-letter ASCII tag of a chunk.
type ChunkType [4]byte

// Chunk types used by this package.
var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

func (t ChunkType) String() string {
	return string(t[:])
}

// Critical reports whether a decoder must understand the chunk in order to
// display the image.  This is encoded in the case of the first letter.
func (t ChunkType) Critical() bool {
	return t[0]&0x20 == 0
}

// Chunk is one length-prefixed, checksummed record of a PNG stream.
//
// The length field is not stored; it is always len(Data).
type Chunk struct {
	Type ChunkType
	Data []byte
	CRC  uint32 // CRC-32 of Type followed by Data
}

// NewChunk returns a chunk with the given type and payload and a matching
// checksum.  The chunk keeps a reference to data.
func NewChunk(typ ChunkType, data []byte) Chunk {
	return Chunk{
		Type: typ,
		Data: data,
		CRC:  checksum(typ, data),
	}
}

// Len returns the length of the chunk payload.
func (c Chunk) Len() int {
	return len(c.Data)
}

// Valid reports whether the stored checksum matches the chunk contents.
func (c Chunk) Valid() bool {
	return c.CRC == checksum(c.Type, c.Data)
}

// AppendTo appends the serialized chunk (length, type, data, CRC) to b and
// returns the extended slice.
func (c Chunk) AppendTo(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(c.Data)))
	b = append(b, c.Type[:]...)
	b = append(b, c.Data...)
	return binary.BigEndian.AppendUint32(b, c.CRC)
}

// size returns the number of bytes AppendTo writes.
func (c Chunk) size() int {
	return 12 + len(c.Data)
}

// checksum computes the CRC-32 (IEEE polynomial, as in zlib) over the chunk
// type and the payload.  The length field is not included.
func checksum(typ ChunkType, data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(typ[:])
	crc.Write(data)
	return crc.Sum32()
}
