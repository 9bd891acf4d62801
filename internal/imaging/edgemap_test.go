package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestBuildEdgeMap_SingleChannelEdge(t *testing.T) {
	// Red and blue swap across the edge while green stays put, so every
	// channel except green carries the edge.
	img := createSplitImage(40, 20, color.RGBA{200, 90, 0, 255}, color.RGBA{0, 90, 200, 255})
	buf := FromImage(img)

	edges, err := BuildEdgeMap(buf, CannyDetector{}, EdgeMapParams{Low: 50, High: 100, ApertureSize: 3})
	if err != nil {
		t.Fatalf("BuildEdgeMap failed: %v", err)
	}
	if edges.Bounds() != image.Rect(0, 0, 40, 20) {
		t.Fatalf("bounds: got %v", edges.Bounds())
	}
	if edges.GrayAt(19, 10).Y != EdgeOn && edges.GrayAt(20, 10).Y != EdgeOn {
		t.Error("edge between colors not detected")
	}
}

func TestBuildEdgeMap_BlueOnly(t *testing.T) {
	img := createSplitImage(30, 30, color.RGBA{0, 0, 0, 255}, color.RGBA{0, 0, 255, 255})
	buf := FromImage(img)

	edges, err := BuildEdgeMap(buf, CannyDetector{}, EdgeMapParams{Low: 50, High: 100, ApertureSize: 3})
	if err != nil {
		t.Fatalf("BuildEdgeMap failed: %v", err)
	}
	if countEdges(edges) <= 0 {
		t.Error("edge present only in the blue channel was lost")
	}
}

func TestBuildEdgeMap_Uniform(t *testing.T) {
	buf := FromImage(createInMemoryImage(20, 20, color.RGBA{30, 60, 90, 255}))

	edges, err := BuildEdgeMap(buf, CannyDetector{}, EdgeMapParams{Low: 50, High: 100, ApertureSize: 3, BlurRadius: 1.5})
	if err != nil {
		t.Fatalf("BuildEdgeMap failed: %v", err)
	}
	if n := countEdges(edges); n != 0 {
		t.Errorf("uniform image produced %d edge pixels", n)
	}
}

func TestBuildEdgeMap_BadAperture(t *testing.T) {
	buf := FromImage(createInMemoryImage(10, 10, color.White))

	_, err := BuildEdgeMap(buf, CannyDetector{}, EdgeMapParams{Low: 50, High: 100, ApertureSize: 4})
	if err == nil {
		t.Fatal("expected error for aperture 4")
	}
}

// stubDetector marks a fixed pixel per call so OR-merging can be observed.
type stubDetector struct {
	calls int
	err   error
}

func (s *stubDetector) DetectEdges(ch *image.Gray, _, _ float64, _ int) (*image.Gray, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := image.NewGray(ch.Bounds())
	out.SetGray(s.calls, 0, color.Gray{Y: 1})
	s.calls++
	return out, nil
}

func TestBuildEdgeMap_MergesChannels(t *testing.T) {
	buf := FromImage(createInMemoryImage(5, 5, color.White))
	det := &stubDetector{}

	edges, err := BuildEdgeMap(buf, det, EdgeMapParams{ApertureSize: 3})
	if err != nil {
		t.Fatalf("BuildEdgeMap failed: %v", err)
	}
	if det.calls != 3 {
		t.Errorf("detector calls: got %d, want 3", det.calls)
	}
	for x := 0; x < 3; x++ {
		if edges.GrayAt(x, 0).Y != EdgeOn {
			t.Errorf("pixel (%d,0) from channel %d missing in merged map", x, x)
		}
	}
	if n := countEdges(edges); n != 3 {
		t.Errorf("merged edge count: got %d, want 3", n)
	}
}

func TestBuildEdgeMap_DetectorError(t *testing.T) {
	buf := FromImage(createInMemoryImage(5, 5, color.White))
	sentinel := errors.New("backend failed")

	_, err := BuildEdgeMap(buf, &stubDetector{err: sentinel}, EdgeMapParams{ApertureSize: 3})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped backend error, got %v", err)
	}
}
