package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

func TestCropRegions(t *testing.T) {
	img := createSplitImage(100, 100, color.Black, color.White)

	crops, err := CropRegions(img, []geom.Rect{geom.R(10, 10, 20, 30), geom.R(60, 5, 8, 8)}, 0, 1.0)
	if err != nil {
		t.Fatalf("CropRegions failed: %v", err)
	}
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(crops))
	}

	if crops[0].Bounds != geom.R(10, 10, 20, 30) {
		t.Errorf("crop 0 bounds: got %v", crops[0].Bounds)
	}
	if crops[0].Width != 20 || crops[0].Height != 30 {
		t.Errorf("crop 0 size: got %dx%d, want 20x30", crops[0].Width, crops[0].Height)
	}
	if crops[0].MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", crops[0].MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(crops[1].ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	r, g, b, _ := decoded.At(3, 3).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("crop 1 should come from the white half, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestCropRegions_MarginClipped(t *testing.T) {
	img := createInMemoryImage(50, 40, color.White)

	crops, err := CropRegions(img, []geom.Rect{geom.R(2, 3, 10, 10), geom.R(45, 30, 5, 10)}, 5, 1.0)
	if err != nil {
		t.Fatalf("CropRegions failed: %v", err)
	}

	if crops[0].Bounds != geom.R(0, 0, 17, 18) {
		t.Errorf("near top-left: got %v, want (0,0,17,18)", crops[0].Bounds)
	}
	if crops[1].Bounds != geom.R(40, 25, 10, 15) {
		t.Errorf("near bottom-right: got %v, want (40,25,10,15)", crops[1].Bounds)
	}
}

func TestCropRegions_Scale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		scale      float64
		wantWidth  int
		wantHeight int
	}{
		{2.0, 100, 60},
		{0.5, 25, 15},
		{1.0, 50, 30},
		{0, 50, 30},
		{-3, 50, 30},
	}

	for _, tt := range tests {
		crops, err := CropRegions(img, []geom.Rect{geom.R(0, 0, 50, 30)}, 0, tt.scale)
		if err != nil {
			t.Fatalf("scale %v: %v", tt.scale, err)
		}
		if crops[0].Width != tt.wantWidth || crops[0].Height != tt.wantHeight {
			t.Errorf("scale %v: got %dx%d, want %dx%d",
				tt.scale, crops[0].Width, crops[0].Height, tt.wantWidth, tt.wantHeight)
		}
		if crops[0].Bounds != geom.R(0, 0, 50, 30) {
			t.Errorf("scale %v: bounds stay in source coordinates, got %v", tt.scale, crops[0].Bounds)
		}
	}
}

func TestCropRegions_OutsideImage(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)

	if _, err := CropRegions(img, []geom.Rect{geom.R(30, 30, 5, 5)}, 0, 1.0); err == nil {
		t.Error("expected error for rect outside the image")
	}
}

func TestCropRegions_Empty(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)

	crops, err := CropRegions(img, nil, 3, 1.0)
	if err != nil {
		t.Fatalf("CropRegions failed: %v", err)
	}
	if len(crops) != 0 {
		t.Errorf("got %d crops, want 0", len(crops))
	}
}
