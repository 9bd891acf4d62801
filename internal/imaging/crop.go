package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/text-islands-mcp/internal/geom"
)

// RegionCrop is one cropped region of a source image.
type RegionCrop struct {
	// Bounds is the crop rect in source image coordinates, after margin and
	// clipping.
	Bounds geom.Rect `json:"bounds"`

	EncodedImage
}

// CropRegions cuts each rect out of img, grown by margin on every side and
// clipped to the image, optionally rescaled, and encodes each crop as PNG.
//
// Parameters:
//   - img: Source image.
//   - rects: Regions to extract, typically text islands.
//   - margin: Extra pixels kept around each rect. Zero keeps the rect as is.
//   - scale: Resize factor applied to each crop (e.g., 2.0 doubles the size
//     for a recognizer that prefers larger glyphs). Values <= 0 mean 1.0.
//
// Rects that fall entirely outside the image are reported as an error.
func CropRegions(img image.Image, rects []geom.Rect, margin int, scale float64) ([]RegionCrop, error) {
	bounds := img.Bounds()
	crops := make([]RegionCrop, 0, len(rects))

	for _, r := range rects {
		area := r.Outset(margin, margin).Image().Add(bounds.Min).Intersect(bounds)
		if area.Empty() {
			return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
		}

		cropped := imaging.Crop(img, area)
		if scale > 0 && scale != 1.0 {
			newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
			newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
			cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
		}

		enc, err := EncodePNG(cropped)
		if err != nil {
			return nil, err
		}
		crops = append(crops, RegionCrop{
			Bounds:       geom.FromImage(area.Sub(bounds.Min)),
			EncodedImage: *enc,
		})
	}

	return crops, nil
}
