package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/testimg"
	"seehuhn.de/go/testimg/internal/logging"
	"seehuhn.de/go/testimg/pixel"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if c.OutDir != "." || c.Format != "png" || c.SetFile != "" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.CompressionLevel() != testimg.DefaultCompression {
		t.Errorf("CompressionLevel() = %d", c.CompressionLevel())
	}
	if c.Level() != logging.LevelInfo {
		t.Errorf("Level() = %v", c.Level())
	}
	if c.NumWorkers() < 1 {
		t.Errorf("NumWorkers() = %d", c.NumWorkers())
	}
	if c.Extension() != ".png" {
		t.Errorf("Extension() = %q", c.Extension())
	}

	fixtures, err := c.Fixtures()
	if err != nil {
		t.Fatal(err)
	}
	if len(fixtures) != len(pixel.All) {
		t.Errorf("got %d fixtures, want the %d built-in ones", len(fixtures), len(pixel.All))
	}
}

func TestParseFlags(t *testing.T) {
	args := []string{
		"-out", "/tmp/x", "-format", "tiff", "-compression", "best",
		"-workers", "3", "-log-level", "debug",
		"-set", filepath.Join("testdata", "images.yaml"),
	}
	c, err := Parse(args, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if c.OutDir != "/tmp/x" || c.Extension() != ".tif" {
		t.Errorf("unexpected config: %+v", c)
	}
	if c.CompressionLevel() != testimg.BestCompression {
		t.Errorf("CompressionLevel() = %d", c.CompressionLevel())
	}
	if c.NumWorkers() != 3 {
		t.Errorf("NumWorkers() = %d", c.NumWorkers())
	}
	if c.Level() != logging.LevelDebug {
		t.Errorf("Level() = %v", c.Level())
	}

	fixtures, err := c.Fixtures()
	if err != nil {
		t.Fatal(err)
	}
	if len(fixtures) != 4 {
		t.Errorf("got %d fixtures, want 4", len(fixtures))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"format", []string{"-format", "gif"}, ErrInvalidFormat},
		{"compression", []string{"-compression", "max"}, ErrInvalidCompression},
		{"workers", []string{"-workers", "-1"}, ErrInvalidWorkers},
		{"log level", []string{"-log-level", "trace"}, ErrInvalidLogLevel},
		{"positional", []string{"extra"}, ErrUnexpectedArgs},
		{"help", []string{"-help"}, ErrShowHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, &bytes.Buffer{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseUnknownFlag(t *testing.T) {
	out := &bytes.Buffer{}
	if _, err := Parse([]string{"-bogus"}, out); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out.String(), "bogus") {
		t.Errorf("flag error not reported: %q", out.String())
	}
}

func TestHelpOutput(t *testing.T) {
	out := &bytes.Buffer{}
	Parse([]string{"-help"}, out)
	for _, flag := range []string{"-out", "-format", "-set", "-workers"} {
		if !strings.Contains(out.String(), flag) {
			t.Errorf("help output does not mention %s", flag)
		}
	}
}
