package domain

import "fmt"

// TransformKind tags one edit-history action.
type TransformKind string

const (
	TransformRotate TransformKind = "rotate"
	TransformFlip   TransformKind = "flip"
	TransformCrop   TransformKind = "crop"
)

// CropRect is a crop rectangle in source pixel coordinates.
type CropRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TransformAction is one entry of the ordered edit history. Only the fields
// matching Kind are meaningful.
type TransformAction struct {
	Kind       TransformKind `json:"kind"`
	Angle      int           `json:"angle,omitempty"`
	Horizontal bool          `json:"horizontal,omitempty"`
	Vertical   bool          `json:"vertical,omitempty"`
	Crop       CropRect      `json:"crop,omitempty"`
}

// Validate rejects actions with an unknown kind.
func (t TransformAction) Validate() error {
	switch t.Kind {
	case TransformRotate, TransformFlip, TransformCrop:
		return nil
	default:
		return fmt.Errorf("unknown transform kind: %q", t.Kind)
	}
}

// ValidateTransforms validates an edit history at the system boundary.
func ValidateTransforms(actions []TransformAction) error {
	for i, action := range actions {
		if err := action.Validate(); err != nil {
			return fmt.Errorf("transform %d: %w", i, err)
		}
	}
	return nil
}
