package task

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/juju/errors"
)

func TestParametersVerify(t *testing.T) {
	valid := Parameters{CenterX: -0.5, CenterY: 0, ScaleFactor: 0.005, Width: 800, Height: 600}

	tests := []struct {
		name   string
		change func(p Parameters) Parameters
		valid  bool
	}{
		{"valid", func(p Parameters) Parameters { return p }, true},
		{"one pixel", func(p Parameters) Parameters { return p.Resized(1, 1) }, true},
		{"zero width", func(p Parameters) Parameters { return p.Resized(0, 600) }, false},
		{"negative height", func(p Parameters) Parameters { return p.Resized(800, -1) }, false},
		{"nan center", func(p Parameters) Parameters { p.CenterX = math.NaN(); return p }, false},
		{"infinite center", func(p Parameters) Parameters { p.CenterY = math.Inf(-1); return p }, false},
		{"zero scale", func(p Parameters) Parameters { p.ScaleFactor = 0; return p }, false},
		{"negative scale", func(p Parameters) Parameters { p.ScaleFactor = -0.1; return p }, false},
		{"infinite scale", func(p Parameters) Parameters { p.ScaleFactor = math.Inf(1); return p }, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.change(valid).Verify()
			if test.valid && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if !test.valid && !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Verify() = %v, want ErrInvalidParameters", err)
			}
		})
	}
}

func TestParametersNavigation(t *testing.T) {
	p := Parameters{CenterX: 1, CenterY: 2, ScaleFactor: 0.5, Width: 10, Height: 20}

	if z := p.Zoomed(0.5); z.ScaleFactor != 0.25 || z.CenterX != 1 || p.ScaleFactor != 0.5 {
		t.Errorf("Zoomed(0.5) = %s", z.String())
	}
	if s := p.Scrolled(4, -2); s.CenterX != 3 || s.CenterY != 1 {
		t.Errorf("Scrolled(4, -2) = %s", s.String())
	}
	if p.PixelCount() != 200 {
		t.Errorf("PixelCount() = %d", p.PixelCount())
	}
}

func TestFrameRoundTrip(t *testing.T) {
	params := Parameters{CenterX: -0.5, ScaleFactor: 0.01, Width: 3, Height: 2}
	pixels := image.NewRGBA(image.Rect(0, 0, 3, 2))
	pixels.SetRGBA(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	for _, point := range [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}} {
		pixels.SetRGBA(point[0], point[1], color.RGBA{A: 255})
	}
	img := Image{Parameters: params, Pixels: pixels, ScaleFactorUsed: 0.01, MaxIterations: 64, Pass: 1, Final: true}

	frame, err := NewFrame(img)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := frame.Image()
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Parameters != params || decoded.MaxIterations != 64 || decoded.Pass != 1 || !decoded.Final {
		t.Errorf("metadata lost: %s", decoded.String())
	}
	if got := decoded.Pixels.RGBAAt(2, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel (2, 1) = %v", got)
	}

	if _, err = NewFrame(Image{}); err == nil {
		t.Error("frame from an image without pixels")
	}
	empty := Frame{}
	if _, err = empty.Decode(); err == nil {
		t.Error("decoded an empty frame")
	}
}
