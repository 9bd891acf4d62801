//go:build !gocv

package detection

import (
	"github.com/ironsheep/text-islands-mcp/internal/contour"
	"github.com/ironsheep/text-islands-mcp/internal/imaging"
)

// Backend names the edge and contour implementation compiled in.
const Backend = "go"

func defaultBackend() (imaging.EdgeDetector, ContourFinder) {
	return imaging.CannyDetector{}, contour.NewFinder()
}
