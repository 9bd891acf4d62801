//go:build gocv

package detection

import (
	"github.com/ironsheep/text-islands-mcp/internal/imaging"
	"github.com/ironsheep/text-islands-mcp/internal/opencv"
)

// Backend names the edge and contour implementation compiled in.
const Backend = "opencv"

func defaultBackend() (imaging.EdgeDetector, ContourFinder) {
	return opencv.EdgeDetector{}, opencv.ContourFinder{}
}
