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

// Command pnginspect lists the chunks of PNG files and checks that the
// image data can be decoded.
//
// Usage:
//
//	pnginspect [-pixels] file.png...
//
// The exit status is 1 if any file is malformed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/testimg"
	"seehuhn.de/go/testimg/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pnginspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	checkPixels := fs.Bool("pixels", false, "also decode the pixel data")
	logLevel := fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	level, ok := logging.ParseLevel(*logLevel)
	if !ok || fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: pnginspect [-pixels] [-log-level level] file.png...")
		return 2
	}
	logger := logging.New("pnginspect", level, stderr)

	status := 0
	for _, fname := range fs.Args() {
		if err := inspect(stdout, fname, *checkPixels); err != nil {
			logger.Error("%s: %v", fname, err)
			status = 1
			continue
		}
		logger.Debug("%s: ok", fname)
	}
	return status
}

// inspect prints the chunk list of a PNG file, including chunks with a
// bad checksum, and then checks the file structure.
func inspect(w io.Writer, fname string, checkPixels bool) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	chunks, err := testimg.ReadChunks(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d bytes\n", fname, len(data))
	for _, c := range chunks {
		crc := "ok"
		if !c.Valid() {
			crc = "BAD"
		}
		kind := "ancillary"
		if c.Type.Critical() {
			kind = "critical"
		}
		fmt.Fprintf(w, "  %s %9d  crc %08x %s  %s\n", c.Type, c.Len(), c.CRC, crc, kind)
	}

	f, err := testimg.Decode(data)
	if err != nil {
		return err
	}
	h := f.Header
	fmt.Fprintf(w, "  %dx%d, depth %d, color type %d, compression %d, filter %d, interlace %d\n",
		h.Width, h.Height, h.BitDepth, h.ColorType,
		h.CompressionMethod, h.FilterMethod, h.InterlaceMethod)

	raw, err := f.Raw()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  %d IDAT chunks, %d compressed bytes, %d raw bytes\n",
		f.Count(testimg.TypeIDAT), len(f.ImageData()), len(raw))

	if checkPixels {
		if _, err := f.Pixels(); err != nil {
			return err
		}
	}
	return nil
}
