package encoder

import (
	"fmt"
	"math"
	"strings"

	"video-compressor/internal/domain"
)

// padFilter rounds both dimensions up to an even pixel count; some encoders
// reject odd dimensions.
const padFilter = "pad=ceil(iw/2)*2:ceil(ih/2)*2"

// FilterGraph composes the comma-joined filter pipeline: transform filters in
// history order, then an optional scale, then the mandatory even-dimension
// padding.
func FilterGraph(actions []domain.TransformAction, dims *domain.Dimensions) string {
	filters := transformFilters(actions)
	if dims != nil {
		filters = append(filters, fmt.Sprintf("scale=%d:%d", dims.Width, dims.Height))
	}
	filters = append(filters, padFilter)
	return strings.Join(filters, ",")
}

// transformFilters maps the edit history onto ffmpeg filters. Rotations and
// flips accumulate in order; when several crops appear, only the last applies.
func transformFilters(actions []domain.TransformAction) []string {
	var filters []string
	var lastCrop *domain.CropRect

	for _, action := range actions {
		switch action.Kind {
		case domain.TransformRotate:
			switch action.Angle % 360 {
			case -90, 270:
				filters = append(filters, "transpose=2")
			case 90, -270:
				filters = append(filters, "transpose=1")
			case 180, -180:
				filters = append(filters, "hflip", "vflip")
			}
		case domain.TransformFlip:
			if action.Horizontal {
				filters = append(filters, "hflip")
			}
			if action.Vertical {
				filters = append(filters, "vflip")
			}
		case domain.TransformCrop:
			crop := action.Crop
			lastCrop = &crop
		}
	}

	if lastCrop != nil {
		filters = append(filters, fmt.Sprintf(
			"crop=%d:%d:%d:%d",
			int64(math.Round(lastCrop.Width)),
			int64(math.Round(lastCrop.Height)),
			int64(math.Round(lastCrop.Left)),
			int64(math.Round(lastCrop.Top)),
		))
	}

	return filters
}
