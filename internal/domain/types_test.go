package domain

import "testing"

// TestIsSupportedExtension checks the target container whitelist.
func TestIsSupportedExtension(t *testing.T) {
	for _, ext := range Extensions {
		if !IsSupportedExtension(ext) {
			t.Errorf("IsSupportedExtension(%q) = false", ext)
		}
	}
	for _, ext := range []string{"", "gif", "wmv", "MP4", ".mp4"} {
		if IsSupportedExtension(ext) {
			t.Errorf("IsSupportedExtension(%q) = true", ext)
		}
	}
}

// TestValidateTransforms checks the boundary validation of edit histories.
func TestValidateTransforms(t *testing.T) {
	valid := []TransformAction{
		{Kind: TransformRotate, Angle: 90},
		{Kind: TransformFlip, Horizontal: true},
		{Kind: TransformCrop, Crop: CropRect{Width: 100, Height: 100}},
	}
	if err := ValidateTransforms(valid); err != nil {
		t.Fatalf("ValidateTransforms: %v", err)
	}

	if err := ValidateTransforms(nil); err != nil {
		t.Fatalf("ValidateTransforms(nil): %v", err)
	}

	invalid := append(valid, TransformAction{Kind: "sharpen"})
	if err := ValidateTransforms(invalid); err == nil {
		t.Fatal("expected error for unknown transform kind")
	}
}
