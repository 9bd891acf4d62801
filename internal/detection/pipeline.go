package detection

import (
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/ironsheep/text-islands-mcp/internal/contour"
	"github.com/ironsheep/text-islands-mcp/internal/geom"
	"github.com/ironsheep/text-islands-mcp/internal/imaging"
)

// ContourFinder extracts a contour forest from a binary edge image. An
// implementation may overwrite the edge image; callers treat it as
// consumed.
type ContourFinder interface {
	FindContours(edges *image.Gray) (*contour.Forest, error)
}

// Detector runs the text island pipeline: edge map, contour forest,
// candidate selection, local binarization and island clustering.
//
// A Detector holds no per-call state and may be shared between goroutines
// as long as its backends can be.
type Detector struct {
	opts   Options
	edges  imaging.EdgeDetector
	finder ContourFinder
}

// New returns a Detector using the backend compiled into this build.
func New(opts Options) (*Detector, error) {
	edges, finder := defaultBackend()
	return NewWithBackend(opts, edges, finder)
}

// NewWithBackend returns a Detector using the given edge detector and
// contour finder.
func NewWithBackend(opts Options, edges imaging.EdgeDetector, finder ContourFinder) (*Detector, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection options: %w", err)
	}
	if edges == nil || finder == nil {
		return nil, fmt.Errorf("detector backend is incomplete")
	}
	return &Detector{opts: opts, edges: edges, finder: finder}, nil
}

// Options returns the detector's settings.
func (d *Detector) Options() Options { return d.opts }

// Result is the output of one pipeline run.
type Result struct {
	// Mask has the input's size; Ink marks text pixels.
	Mask *image.Gray

	// Islands are the clustered text areas in discovery order.
	Islands []geom.Rect

	// Candidates are the forest indices of the accepted regions.
	Candidates []int

	// Regions has the thresholding statistics of each candidate, in the
	// same order as Candidates.
	Regions []RegionStats

	// Forest is the contour forest the run worked on, after pruning.
	Forest *contour.Forest

	// Debug is the visualization requested by DrawContours or DrawRects,
	// nil when neither is set.
	Debug *image.NRGBA
}

// EdgeMap returns the OR-merged per-channel edge image of buf.
func (d *Detector) EdgeMap(buf *imaging.PixelBuffer) (*image.Gray, error) {
	return imaging.BuildEdgeMap(buf, d.edges, imaging.EdgeMapParams{
		Low:          d.opts.CannyLow,
		High:         d.opts.CannyHigh,
		ApertureSize: d.opts.ApertureSize,
		BlurRadius:   d.opts.BlurRadius,
	})
}

// Run executes the full pipeline on buf.
func (d *Detector) Run(buf *imaging.PixelBuffer) (*Result, error) {
	edges, err := d.EdgeMap(buf)
	if err != nil {
		return nil, err
	}

	forest, err := d.finder.FindContours(edges)
	if err != nil {
		return nil, fmt.Errorf("contour extraction failed: %w", err)
	}

	// Islands use every contour, so collect them before pruning matters.
	islands := FindIslands(forest, d.opts.IslandPadding, d.opts.IslandMinSize)

	candidates := SelectCandidates(forest, buf.Width, buf.Height, d.opts.MinRegionSize, d.opts.MaxInteriorChildren)

	mask := NewMask(buf.Width, buf.Height)
	regions := make([]RegionStats, 0, len(candidates))
	// Sibling rects can overlap; later regions overwrite earlier ones.
	for _, i := range candidates {
		regions = append(regions, BinarizeRegion(buf, forest, i, mask))
	}

	log.Debug().
		Int("width", buf.Width).
		Int("height", buf.Height).
		Int("contours", forest.Len()).
		Int("candidates", len(candidates)).
		Int("islands", len(islands)).
		Msg("detection finished")

	res := &Result{
		Mask:       mask,
		Islands:    islands,
		Candidates: candidates,
		Regions:    regions,
		Forest:     forest,
	}
	if d.opts.DrawContours || d.opts.DrawRects {
		res.Debug = d.renderDebug(buf, res)
	}
	return res, nil
}

// Binarize runs the pipeline and returns only the mask.
func (d *Detector) Binarize(buf *imaging.PixelBuffer) (*image.Gray, error) {
	res, err := d.Run(buf)
	if err != nil {
		return nil, err
	}
	return res.Mask, nil
}

// Islands runs edge detection and contour extraction and returns only the
// islands. Candidate selection and binarization are skipped.
func (d *Detector) Islands(buf *imaging.PixelBuffer) ([]geom.Rect, error) {
	edges, err := d.EdgeMap(buf)
	if err != nil {
		return nil, err
	}
	forest, err := d.finder.FindContours(edges)
	if err != nil {
		return nil, fmt.Errorf("contour extraction failed: %w", err)
	}
	return FindIslands(forest, d.opts.IslandPadding, d.opts.IslandMinSize), nil
}
