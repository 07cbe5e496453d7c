package misc

import (
	"image"
	"image/color"
	"testing"
)

func TestLerpFloat64(t *testing.T) {
	tests := []struct {
		v1, v2, fraction, expected float64
	}{
		{0, 10, 0, 0},
		{0, 10, 0.5, 5},
		{0, 10, 1, 10},
		{-2, 2, 0.25, -1},
	}

	for _, tt := range tests {
		if result := LerpFloat64(tt.v1, tt.v2, tt.fraction); result != tt.expected {
			t.Errorf("LerpFloat64(%g, %g, %g) = %g, want %g", tt.v1, tt.v2, tt.fraction, result, tt.expected)
		}
	}
}

func TestLinearInterpolationRGB(t *testing.T) {
	c1 := color.RGBA{R: 0, G: 100, B: 200, A: 0}
	c2 := color.RGBA{R: 100, G: 200, B: 0, A: 0}

	result := LinearInterpolationRGB(c1, c2, 0.5)
	expected := color.RGBA{R: 50, G: 150, B: 100, A: 255}
	if result != expected {
		t.Errorf("LinearInterpolationRGB = %v, want %v", result, expected)
	}
}

func TestEasingEndpoints(t *testing.T) {
	if EaseOutExpo(1) != 1 {
		t.Errorf("EaseOutExpo(1) = %g, want 1", EaseOutExpo(1))
	}
	if EaseInExpo(0) != 0 {
		t.Errorf("EaseInExpo(0) = %g, want 0", EaseInExpo(0))
	}
	if EaseOutExpo(0.5) <= 0.5 {
		t.Errorf("EaseOutExpo should run ahead of linear, got %g at 0.5", EaseOutExpo(0.5))
	}
	if EaseInExpo(0.5) >= 0.5 {
		t.Errorf("EaseInExpo should lag behind linear, got %g at 0.5", EaseInExpo(0.5))
	}
}

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))

	for _, format := range []string{"png", "jpeg", "jpg"} {
		t.Run(format, func(t *testing.T) {
			data, err := EncodeImage(img, format)
			if err != nil {
				t.Fatalf("EncodeImage(%s) failed: %v", format, err)
			}
			if len(data) == 0 {
				t.Errorf("EncodeImage(%s) returned no bytes", format)
			}
		})
	}

	if _, err := EncodeImage(img, "bmp"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}
