package testimg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"seehuhn.de/go/testimg/pixel"
)

type referenceCase struct {
	name          string
	width, height int
	src           pixel.Source
}

func referenceCases() []referenceCase {
	var cases []referenceCase
	for _, f := range pixel.All {
		cases = append(cases, referenceCase{f.Name, f.Width, f.Height, f.Source})
	}
	cases = append(cases,
		// 203 is not a multiple of 3: the last band is 69 columns wide and
		// its gap occupies the two rightmost columns of the canvas.
		referenceCase{
			name:   "chart_uneven",
			width:  203,
			height: 50,
			src: pixel.BarChart{
				Width:  203,
				Height: 50,
				Bars: []pixel.Bar{
					{Value: 1.0, Color: pixel.RGB{R: 255}},
					{Value: 0.5, Color: pixel.RGB{G: 255}},
					{Value: 0.0, Color: pixel.RGB{B: 255}},
				},
				Axis:       5,
				Gap:        2,
				AxisColor:  pixel.RGB{},
				Background: pixel.RGB{R: 255, G: 255, B: 255},
			},
		},
		referenceCase{
			name:   "gradient_narrow",
			width:  2,
			height: 3,
			src: pixel.Gradient{
				Width: 2,
				Start: pixel.RGB{R: 0, G: 10, B: 200},
				End:   pixel.RGB{R: 255, G: 20, B: 100},
			},
		},
	)
	return cases
}

// TestAgainstReference checks encoded images against reference files
// written by tools/generate_references.py.
func TestAgainstReference(t *testing.T) {
	for _, tc := range referenceCases() {
		t.Run(tc.name, func(t *testing.T) {
			refPath := filepath.Join("testdata", "reference", tc.name+".png")
			ref, err := loadPNG(refPath)
			if err != nil {
				t.Fatalf("loading reference: %v", err)
			}

			data, err := Encode(tc.width, tc.height, tc.src)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			actual, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decoding our output: %v", err)
			}

			if err := compareImages(ref, actual); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestEncodeSolidRed(t *testing.T) {
	red := pixel.Solid{Color: pixel.RGB{R: 255}}
	data, err := Encode(2, 2, red)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("missing PNG signature: % x", data[:8])
	}

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if n := f.Count(TypeIDAT); n != 1 {
		t.Errorf("got %d IDAT chunks, want 1", n)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("got dimensions %dx%d, want 2x2", b.Dx(), b.Dy())
	}
	for y := range 2 {
		for x := range 2 {
			r, g, b, a := img.At(x, y).RGBA()
			if r != 0xffff || g != 0 || b != 0 || a != 0xffff {
				t.Errorf("pixel (%d, %d) = (%d, %d, %d, %d), want opaque red", x, y, r, g, b, a)
			}
		}
	}
}

func TestEncodeChunkLayout(t *testing.T) {
	data, err := Encode(7, 5, pixel.DefaultCheckerboard())
	if err != nil {
		t.Fatal(err)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	want := []ChunkType{TypeIHDR, TypeIDAT, TypeIEND}
	if len(f.Chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(f.Chunks), len(want))
	}
	for i, c := range f.Chunks {
		if c.Type != want[i] {
			t.Errorf("chunk %d: got %s, want %s", i, c.Type, want[i])
		}
	}
	if n := f.Chunks[2].Len(); n != 0 {
		t.Errorf("IEND has %d bytes of payload", n)
	}
}

// TestEncodeChecksums recomputes every CRC directly from the file bytes,
// independently of the Chunk type.
func TestEncodeChecksums(t *testing.T) {
	data, err := Encode(31, 17, pixel.DefaultGradient(31))
	if err != nil {
		t.Fatal(err)
	}

	pos := len(Signature)
	for pos < len(data) {
		n := int(data[pos])<<24 | int(data[pos+1])<<16 | int(data[pos+2])<<8 | int(data[pos+3])
		body := data[pos+4 : pos+8+n]
		stored := uint32(data[pos+8+n])<<24 | uint32(data[pos+9+n])<<16 |
			uint32(data[pos+10+n])<<8 | uint32(data[pos+11+n])

		var typ ChunkType
		copy(typ[:], body[:4])
		if got := checksum(typ, body[4:]); got != stored {
			t.Errorf("%s: stored CRC %08x, computed %08x", typ, stored, got)
		}
		pos += 12 + n
	}
	if pos != len(data) {
		t.Errorf("chunks end at %d, file has %d bytes", pos, len(data))
	}
}

func TestEncodeHeader(t *testing.T) {
	data, err := Encode(300, 7, pixel.Solid{})
	if err != nil {
		t.Fatal(err)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	want := Header{
		Width:     300,
		Height:    7,
		BitDepth:  8,
		ColorType: 2,
	}
	if f.Header != want {
		t.Errorf("got header %+v, want %+v", f.Header, want)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 300 || cfg.Height != 7 {
		t.Errorf("png.DecodeConfig: got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	for _, fx := range pixel.All {
		t.Run(fx.Name, func(t *testing.T) {
			a, err := Encode(fx.Width, fx.Height, fx.Source)
			if err != nil {
				t.Fatal(err)
			}
			b, err := Encode(fx.Width, fx.Height, fx.Source)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(a, b) {
				t.Error("two encodings of the same image differ")
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	sizes := []struct{ w, h int }{{1, 1}, {1, 9}, {9, 1}, {26, 51}, {400, 3}}
	levels := []CompressionLevel{DefaultCompression, NoCompression, BestSpeed, BestCompression}

	for _, fx := range pixel.All {
		for _, size := range sizes {
			for _, level := range levels {
				name := fmt.Sprintf("%s_%dx%d_%d", fx.Name, size.w, size.h, level)
				t.Run(name, func(t *testing.T) {
					src := fx.Source
					switch s := src.(type) {
					case pixel.Gradient:
						s.Width = size.w
						src = s
					case pixel.BarChart:
						s.Width, s.Height = size.w, size.h
						src = s
					}

					e := &Encoder{CompressionLevel: level}
					data, err := e.Encode(size.w, size.h, src)
					if err != nil {
						t.Fatal(err)
					}

					// Decode with both the standard library and our own reader.
					img, err := png.Decode(bytes.NewReader(data))
					if err != nil {
						t.Fatal(err)
					}
					f, err := Decode(data)
					if err != nil {
						t.Fatal(err)
					}
					ours, err := f.Pixels()
					if err != nil {
						t.Fatal(err)
					}

					theirs := pixel.FromImage(img)
					for y := range size.h {
						for x := range size.w {
							want := src.ColorAt(x, y)
							if got := theirs.ColorAt(x, y); got != want {
								t.Fatalf("image/png: pixel (%d, %d) = %v, want %v", x, y, got, want)
							}
							if got := ours.ColorAt(x, y); got != want {
								t.Fatalf("Decode: pixel (%d, %d) = %v, want %v", x, y, got, want)
							}
						}
					}
				})
			}
		}
	}
}

func TestEncodeRawScanlines(t *testing.T) {
	src := pixel.Func(func(x, y int) pixel.RGB {
		return pixel.RGB{R: uint8(x), G: uint8(y), B: uint8(x + y)}
	})
	data, err := Encode(3, 2, src)
	if err != nil {
		t.Fatal(err)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := f.Raw()
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0, 0, 0, 0, 1, 0, 1, 2, 0, 2,
		0, 0, 1, 1, 1, 1, 2, 2, 1, 3,
	}
	if !bytes.Equal(raw, want) {
		t.Errorf("got raw data %v, want %v", raw, want)
	}
}

func TestEncodeInvalidDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"both zero", 0, 0},
		{"negative width", -10, 10},
		{"negative height", 10, -10},
		{"both negative", -10, -10},
		{"too wide", maxRawSize / 2, 1},
		{"too large", 1 << 15, 1 << 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			src := pixel.Func(func(x, y int) pixel.RGB {
				called = true
				return pixel.RGB{}
			})

			data, err := Encode(tt.width, tt.height, src)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("got error %v, want %v", err, ErrInvalidDimensions)
			}
			if data != nil {
				t.Errorf("got %d bytes of output, want none", len(data))
			}
			if called {
				t.Error("pixel source was called")
			}

			buf := &bytes.Buffer{}
			var e Encoder
			err = e.EncodeTo(buf, tt.width, tt.height, src)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("EncodeTo: got error %v, want %v", err, ErrInvalidDimensions)
			}
			if buf.Len() != 0 {
				t.Errorf("EncodeTo wrote %d bytes", buf.Len())
			}
		})
	}
}

func TestEncodeTo(t *testing.T) {
	src := pixel.DefaultBarChart(64, 32)
	want, err := Encode(64, 32, src)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	e := &Encoder{}
	if err := e.EncodeTo(buf, 64, 32, src); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Error("EncodeTo and Encode disagree")
	}
}

func TestEncodeConcurrent(t *testing.T) {
	fx := pixel.All[len(pixel.All)-1]
	want, err := Encode(fx.Width, fx.Height, fx.Source)
	if err != nil {
		t.Fatal(err)
	}

	const n = 8
	results := make([][]byte, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = Encode(fx.Width, fx.Height, fx.Source)
		}()
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if !bytes.Equal(results[i], want) {
			t.Errorf("goroutine %d: output differs", i)
		}
	}
}

func TestCheckDimensions(t *testing.T) {
	ok := []struct{ w, h int }{
		{1, 1},
		{maxDimension / bytesPerPixel / 4, 1},
		{1, maxRawSize / 4}, // rows of 4 bytes fill the limit exactly
	}
	for _, size := range ok {
		if err := checkDimensions(size.w, size.h); err != nil {
			t.Errorf("%dx%d: unexpected error %v", size.w, size.h, err)
		}
	}
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return png.Decode(f)
}

func compareImages(expected, actual image.Image) error {
	eb, ab := expected.Bounds(), actual.Bounds()
	if eb.Dx() != ab.Dx() || eb.Dy() != ab.Dy() {
		return fmt.Errorf("size %dx%d, want %dx%d", ab.Dx(), ab.Dy(), eb.Dx(), eb.Dy())
	}

	e, a := pixel.FromImage(expected), pixel.FromImage(actual)
	diffCount := 0
	var first error
	for y := range eb.Dy() {
		for x := range eb.Dx() {
			want, got := e.ColorAt(x, y), a.ColorAt(x, y)
			if want != got {
				diffCount++
				if first == nil {
					first = fmt.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
				}
			}
		}
	}
	if diffCount > 0 {
		return fmt.Errorf("%d pixels differ, first: %w", diffCount, first)
	}
	return nil
}
