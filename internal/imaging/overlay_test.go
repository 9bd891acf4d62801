package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

func TestDrawRectOutline(t *testing.T) {
	canvas := NewBlankCanvas(20, 20)
	red := color.NRGBA{R: 255, A: 255}

	DrawRectOutline(canvas, geom.R(2, 3, 5, 4), red)

	onOutline := []image.Point{{2, 3}, {7, 3}, {7, 7}, {2, 7}, {4, 3}, {2, 5}, {7, 5}, {5, 7}}
	for _, p := range onOutline {
		if canvas.NRGBAAt(p.X, p.Y) != red {
			t.Errorf("outline pixel %v not drawn", p)
		}
	}
	for _, p := range []image.Point{{4, 5}, {1, 3}, {8, 7}, {3, 8}} {
		if canvas.NRGBAAt(p.X, p.Y) == red {
			t.Errorf("pixel %v should not be drawn", p)
		}
	}
}

func TestDrawPolyline_ClipsToCanvas(t *testing.T) {
	canvas := NewBlankCanvas(10, 10)
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	// Must not panic on points outside the canvas
	DrawPolyline(canvas, []image.Point{{-5, 5}, {15, 5}}, false, white)

	for x := 0; x < 10; x++ {
		if canvas.NRGBAAt(x, 5) != white {
			t.Errorf("pixel (%d,5) not drawn", x)
		}
	}
	if canvas.NRGBAAt(5, 4) == white {
		t.Error("line drew outside its row")
	}
}

func TestDrawPolyline_SinglePoint(t *testing.T) {
	canvas := NewBlankCanvas(5, 5)
	c := color.NRGBA{G: 200, A: 255}

	DrawPolyline(canvas, []image.Point{{2, 2}}, true, c)
	DrawPolyline(canvas, nil, true, c)

	if canvas.NRGBAAt(2, 2) != c {
		t.Error("single point not drawn")
	}
}

func TestDrawLabel(t *testing.T) {
	canvas := NewBlankCanvas(60, 20)
	bg := color.NRGBA{R: 40, G: 40, B: 40, A: 255}

	DrawLabel(canvas, 2, 2, "7", color.White, bg)

	if canvas.NRGBAAt(1, 1) != bg {
		t.Errorf("label background not drawn, got %v", canvas.NRGBAAt(1, 1))
	}
	foundText := false
	for y := 2; y < 16 && !foundText; y++ {
		for x := 2; x < 10; x++ {
			if c := canvas.NRGBAAt(x, y); c.R > 200 && c.G > 200 {
				foundText = true
				break
			}
		}
	}
	if !foundText {
		t.Error("label glyph not drawn")
	}
	if canvas.NRGBAAt(50, 10) != (color.NRGBA{A: 255}) {
		t.Error("label drew beyond its box")
	}
}

func TestNewCanvas_Copies(t *testing.T) {
	src := createInMemoryImage(4, 4, color.RGBA{1, 2, 3, 255})
	canvas := NewCanvas(src)
	canvas.Set(0, 0, color.White)

	if r, _, _, _ := src.At(0, 0).RGBA(); r>>8 != 1 {
		t.Error("drawing on the canvas modified the source")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.NRGBA{0, 0, 255, 128}, false},
		{"", color.NRGBA{}, true},
		{"#FFF", color.NRGBA{}, true},
		{"#GGGGGG", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	enc, err := EncodePNG(createInMemoryImage(7, 3, color.RGBA{9, 8, 7, 255}))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 7 || enc.Height != 3 || enc.MimeType != "image/png" {
		t.Errorf("unexpected header: %dx%d %s", enc.Width, enc.Height, enc.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if r, g, b, _ := img.At(6, 2).RGBA(); r>>8 != 9 || g>>8 != 8 || b>>8 != 7 {
		t.Errorf("pixel mismatch: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mask.png")

	mask := image.NewGray(image.Rect(0, 0, 4, 4))
	mask.Pix[5] = 255
	if err := SaveImage(path, mask); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	cache := NewImageCache()
	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 255 {
		t.Errorf("pixel (1,1): got %d, want 255", r>>8)
	}

	if err := SaveImage(filepath.Join(dir, "mask.unknown"), mask); err == nil {
		t.Error("expected error for an unsupported extension")
	}
}
