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

// Command genimages writes the synthetic test images to a directory,
// together with a manifest.json describing them.
//
// Usage:
//
//	genimages [-out dir] [-format png|bmp|tiff] [-set images.yaml]
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"seehuhn.de/go/testimg"
	"seehuhn.de/go/testimg/internal/config"
	"seehuhn.de/go/testimg/internal/logging"
	"seehuhn.de/go/testimg/pixel"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if errors.Is(err, config.ErrShowHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "genimages: %v\n", err)
		return 2
	}
	logger := logging.New("genimages", cfg.Level(), stderr)

	fixtures, err := cfg.Fixtures()
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	logger.Debug("%d images, format %s, %d workers", len(fixtures), cfg.Format, cfg.NumWorkers())

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		logger.Error("%v", err)
		return 1
	}

	g := &generator{cfg: cfg, log: logger}
	entries, err := g.generate(fixtures)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	if err := writeManifest(filepath.Join(cfg.OutDir, "manifest.json"), entries); err != nil {
		logger.Error("%v", err)
		return 1
	}
	logger.Info("wrote %d images to %s", len(entries), cfg.OutDir)
	return 0
}

// manifestEntry describes one generated image.  The ID is derived from the
// file contents, so that identical images get identical IDs across runs.
type manifestEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Media       string `json:"media"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Bytes       int    `json:"bytes"`
	ContentType string `json:"content_type"`
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// mediaNamespace is the UUID namespace for media IDs.
var mediaNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://seehuhn.de/go/testimg/media"))

type generator struct {
	cfg *config.Config
	log *logging.Logger
}

// generate encodes and writes all images.  The returned entries are in the
// order of the fixtures, independent of the order in which the workers
// finish.
func (g *generator) generate(fixtures []pixel.Fixture) ([]manifestEntry, error) {
	entries := make([]manifestEntry, len(fixtures))
	errs := make([]error, len(fixtures))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(g.cfg.NumWorkers(), len(fixtures)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				entries[i], errs[i] = g.writeImage(fixtures[i])
			}
		}()
	}
	for i := range fixtures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return entries, nil
}

func (g *generator) writeImage(fx pixel.Fixture) (manifestEntry, error) {
	data, err := g.encode(fx)
	if err != nil {
		return manifestEntry{}, fmt.Errorf("%s: %w", fx.Name, err)
	}

	media := mediaName(fx.Media, g.cfg.Extension())
	fname := filepath.Join(g.cfg.OutDir, media)
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		return manifestEntry{}, err
	}
	g.log.Debug("%s: %dx%d, %d bytes", fname, fx.Width, fx.Height, len(data))

	return manifestEntry{
		ID:          uuid.NewSHA1(mediaNamespace, data).String(),
		Name:        fx.Name,
		Media:       media,
		Width:       fx.Width,
		Height:      fx.Height,
		Bytes:       len(data),
		ContentType: contentTypes[g.cfg.Format],
	}, nil
}

func (g *generator) encode(fx pixel.Fixture) ([]byte, error) {
	if g.cfg.Format == "png" {
		e := &testimg.Encoder{CompressionLevel: g.cfg.CompressionLevel()}
		return e.Encode(fx.Width, fx.Height, fx.Source)
	}

	img := pixel.Canvas{Source: fx.Source, Width: fx.Width, Height: fx.Height}
	buf := &bytes.Buffer{}
	var err error
	switch g.cfg.Format {
	case "bmp":
		err = bmp.Encode(buf, img)
	case "tiff":
		err = tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		err = config.ErrInvalidFormat
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mediaName replaces the extension of the media file name by ext.
func mediaName(media, ext string) string {
	return strings.TrimSuffix(media, filepath.Ext(media)) + ext
}

func writeManifest(fname string, entries []manifestEntry) error {
	var out struct {
		Images []manifestEntry `json:"images"`
	}
	out.Images = entries

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
