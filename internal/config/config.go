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

// Package config holds the settings of the genimages command.
//
// Settings come from command line flags.  The list of images comes either
// from the built-in catalog or from an image-set file, see [LoadSet].
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"

	"seehuhn.de/go/testimg"
	"seehuhn.de/go/testimg/internal/logging"
	"seehuhn.de/go/testimg/pixel"
)

const (
	defaultOutDir      = "."
	defaultFormat      = "png"
	defaultCompression = "default"
	defaultLogLevel    = "info"
)

var (
	// ErrShowHelp is returned when -help was given.
	ErrShowHelp = errors.New("help requested")
	// ErrInvalidFormat is returned for an unknown output format.
	ErrInvalidFormat = errors.New("format must be one of: png, bmp, tiff")
	// ErrInvalidCompression is returned for an unknown compression level.
	ErrInvalidCompression = errors.New("compression must be one of: default, none, speed, best")
	// ErrInvalidWorkers is returned for a negative worker count.
	ErrInvalidWorkers = errors.New("workers must be >= 0")
	// ErrInvalidLogLevel is returned when the log level is not recognized.
	ErrInvalidLogLevel = errors.New("log-level must be one of: debug, info, warn, error")
	// ErrUnexpectedArgs is returned when positional arguments are given.
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

var compressionLevels = map[string]testimg.CompressionLevel{
	"default": testimg.DefaultCompression,
	"none":    testimg.NoCompression,
	"speed":   testimg.BestSpeed,
	"best":    testimg.BestCompression,
}

// Formats maps the supported output formats to their file name extension.
var Formats = map[string]string{
	"png":  ".png",
	"bmp":  ".bmp",
	"tiff": ".tif",
}

// Config holds the settings of one genimages run.
type Config struct {
	OutDir      string // directory for the images and manifest.json
	Format      string // png, bmp or tiff
	Compression string // PNG compression level name
	SetFile     string // optional image-set file; empty means the built-in catalog
	Workers     int    // number of concurrent encoders; 0 means one per CPU
	LogLevel    string

	showHelp bool
}

// Parse parses the command line arguments (without the program name).
// Usage information and flag errors are written to output.
func Parse(args []string, output io.Writer) (*Config, error) {
	c := &Config{}

	fs := flag.NewFlagSet("genimages", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&c.OutDir, "out", defaultOutDir, "output directory")
	fs.StringVar(&c.Format, "format", defaultFormat, "image format (png, bmp, tiff)")
	fs.StringVar(&c.Compression, "compression", defaultCompression,
		"PNG compression (default, none, speed, best)")
	fs.StringVar(&c.SetFile, "set", "", "YAML file listing the images to generate")
	fs.IntVar(&c.Workers, "workers", 0, "number of concurrent encoders (0 = one per CPU)")
	fs.StringVar(&c.LogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&c.showHelp, "help", false, "show this help message")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.showHelp {
		fmt.Fprintln(output, "usage: genimages [flags]")
		fmt.Fprintln(output)
		fs.PrintDefaults()
		return nil, ErrShowHelp
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(fs.Args(), " "))
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if _, ok := Formats[c.Format]; !ok {
		return ErrInvalidFormat
	}
	if _, ok := compressionLevels[c.Compression]; !ok {
		return ErrInvalidCompression
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return ErrInvalidLogLevel
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	l, _ := logging.ParseLevel(c.LogLevel)
	return l
}

// CompressionLevel returns the configured PNG compression level.
func (c *Config) CompressionLevel() testimg.CompressionLevel {
	return compressionLevels[c.Compression]
}

// NumWorkers returns the number of concurrent encoders to use.
func (c *Config) NumWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Extension returns the file name extension for the configured format.
func (c *Config) Extension() string {
	return Formats[c.Format]
}

// Fixtures returns the images to generate.
func (c *Config) Fixtures() ([]pixel.Fixture, error) {
	if c.SetFile == "" {
		return pixel.All, nil
	}
	return LoadSet(c.SetFile)
}
