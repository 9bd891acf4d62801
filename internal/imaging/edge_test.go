package imaging

import (
	"image"
	"testing"
)

// grayStep returns a width x height gray image that is dark left of
// x = edgeX and bright from edgeX on.
func grayStep(width, height, edgeX int, dark, bright uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := dark
			if x >= edgeX {
				v = bright
			}
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

func countEdges(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v == EdgeOn {
			n++
		} else if v != EdgeOff {
			return -1
		}
	}
	return n
}

func TestCanny_UniformImage(t *testing.T) {
	img := grayStep(50, 50, 50, 128, 128)

	edges, err := Canny(img, 50, 100, 3)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if n := countEdges(edges); n != 0 {
		t.Errorf("uniform image should have no edges, got %d", n)
	}
}

func TestCanny_StepEdge(t *testing.T) {
	img := grayStep(40, 30, 20, 0, 255)

	edges, err := Canny(img, 50, 100, 3)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if edges.Bounds() != img.Bounds() {
		t.Fatalf("bounds: got %v, want %v", edges.Bounds(), img.Bounds())
	}

	for y := 1; y < 29; y++ {
		if edges.GrayAt(19, y).Y != EdgeOn && edges.GrayAt(20, y).Y != EdgeOn {
			t.Errorf("row %d: step edge not detected at x=19..20", y)
		}
		for x := 0; x < 40; x++ {
			if (x < 18 || x > 21) && edges.GrayAt(x, y).Y != EdgeOff {
				t.Errorf("unexpected edge at (%d,%d)", x, y)
			}
		}
	}
}

func TestCanny_BorderNeverEdge(t *testing.T) {
	// The step sits right at the border column
	img := grayStep(10, 10, 1, 0, 255)

	edges, err := Canny(img, 10, 20, 3)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	for y := 0; y < 10; y++ {
		if edges.GrayAt(0, y).Y != EdgeOff {
			t.Errorf("border pixel (0,%d) marked as edge", y)
		}
	}
}

func TestCanny_ThresholdsAboveContrast(t *testing.T) {
	// A step of 10 gives a Sobel magnitude of 40, below both thresholds
	img := grayStep(30, 30, 15, 100, 110)

	edges, err := Canny(img, 50, 100, 3)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if n := countEdges(edges); n != 0 {
		t.Errorf("low-contrast step should be ignored, got %d edge pixels", n)
	}

	edges, err = Canny(img, 10, 30, 3)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if n := countEdges(edges); n == 0 {
		t.Error("low thresholds should detect the step")
	}
}

func TestCanny_Apertures(t *testing.T) {
	img := grayStep(30, 30, 15, 0, 255)

	for _, aperture := range []int{3, 5, 7} {
		edges, err := Canny(img, 50, 100, aperture)
		if err != nil {
			t.Fatalf("aperture %d: %v", aperture, err)
		}
		if countEdges(edges) <= 0 {
			t.Errorf("aperture %d: no edges found", aperture)
		}
	}

	for _, aperture := range []int{0, 1, 4, 9} {
		if _, err := Canny(img, 50, 100, aperture); err == nil {
			t.Errorf("aperture %d: expected error", aperture)
		}
	}
}

func TestCanny_TinyImage(t *testing.T) {
	img := grayStep(2, 2, 1, 0, 255)

	edges, err := Canny(img, 50, 100, 3)
	if err != nil {
		t.Fatalf("Canny failed: %v", err)
	}
	if countEdges(edges) != 0 {
		t.Error("images narrower than 3 pixels have no edges")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
