//go:build gocv

package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/text-islands-mcp/internal/contour"
)

// EdgeDetector runs OpenCV's Canny on one channel.
type EdgeDetector struct{}

// DetectEdges implements imaging.EdgeDetector. gocv exposes Canny with the
// default 3x3 aperture only, so other aperture sizes are rejected.
func (EdgeDetector) DetectEdges(ch *image.Gray, low, high float64, apertureSize int) (*image.Gray, error) {
	if apertureSize != 3 {
		return nil, fmt.Errorf("opencv backend supports aperture size 3, got %d", apertureSize)
	}

	src, err := matFromGray(ch)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Canny(src, &dst, float32(low), float32(high))

	return grayFromMat(dst, ch.Bounds())
}

// ContourFinder runs OpenCV's findContours with full hierarchy retrieval
// and simple chain approximation.
type ContourFinder struct{}

// FindContours implements detection.ContourFinder.
func (ContourFinder) FindContours(edges *image.Gray) (*contour.Forest, error) {
	src, err := matFromGray(edges)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()

	found := gocv.FindContoursWithParams(src, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer found.Close()

	n := found.Size()
	if n == 0 {
		return contour.NewForest(), nil
	}
	if hierarchy.Cols() != n {
		return nil, fmt.Errorf("opencv returned %d hierarchy rows for %d contours", hierarchy.Cols(), n)
	}

	points := make([][]image.Point, n)
	rows := make([]contour.Hierarchy, n)
	for i := 0; i < n; i++ {
		points[i] = found.At(i).ToPoints()
		v := hierarchy.GetVeciAt(0, i)
		rows[i] = contour.Hierarchy{
			Next:       int(v[0]),
			Prev:       int(v[1]),
			FirstChild: int(v[2]),
			Parent:     int(v[3]),
		}
	}

	return contour.FromHierarchy(points, rows)
}

// matFromGray copies img into a new single-channel 8-bit Mat.
func matFromGray(img *image.Gray) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(data[y*w:(y+1)*w], img.Pix[y*img.Stride:y*img.Stride+w])
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to create mat: %w", err)
	}
	return mat, nil
}

// grayFromMat copies a single-channel 8-bit Mat into a Gray image with the
// given bounds.
func grayFromMat(mat gocv.Mat, bounds image.Rectangle) (*image.Gray, error) {
	w, h := bounds.Dx(), bounds.Dy()
	if mat.Rows() != h || mat.Cols() != w || mat.Channels() != 1 {
		return nil, fmt.Errorf("unexpected mat %dx%dx%d, want %dx%dx1", mat.Cols(), mat.Rows(), mat.Channels(), w, h)
	}

	data := mat.ToBytes()
	out := image.NewGray(bounds)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], data[y*w:(y+1)*w])
	}
	return out, nil
}
