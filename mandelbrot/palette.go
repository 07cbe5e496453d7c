package mandelbrot

import (
	"image/color"
	"math"

	"MandelbrotRenderer/misc"

	"github.com/juju/errors"
)

const DefaultColorMapSize = 512

var ErrInvalidColorMapSize = errors.New("color map size must be positive")

// ColorMap is read-only once built so it can be shared with the render goroutine without locking
type ColorMap []color.RGBA

// BuildColorMap spreads size entries across the visible spectrum (380nm to 780nm)
func BuildColorMap(size int) (ColorMap, error) {
	if size <= 0 {
		return nil, errors.Annotatef(ErrInvalidColorMapSize, "size %d", size)
	}
	colorMap := make(ColorMap, size)
	for i := range colorMap {
		colorMap[i] = RGBFromWavelength(380.0 + (float64(i) * 400.0 / float64(size)))
	}
	return colorMap, nil
}

// Color returns the entry used for a point that escaped after iteration steps
func (c ColorMap) Color(iteration int) color.RGBA {
	return c[iteration%len(c)]
}

// RGBFromWavelength approximates the color of light with the given wavelength in nanometers. Wavelengths outside
// the visible range are black.
func RGBFromWavelength(wave float64) color.RGBA {
	r, g, b := 0.0, 0.0, 0.0

	switch {
	case wave >= 380.0 && wave <= 440.0:
		r = -1.0 * (wave - 440.0) / (440.0 - 380.0)
		b = 1.0
	case wave >= 440.0 && wave <= 490.0:
		g = (wave - 440.0) / (490.0 - 440.0)
		b = 1.0
	case wave >= 490.0 && wave <= 510.0:
		g = 1.0
		b = -1.0 * (wave - 510.0) / (510.0 - 490.0)
	case wave >= 510.0 && wave <= 580.0:
		r = (wave - 510.0) / (580.0 - 510.0)
		g = 1.0
	case wave >= 580.0 && wave <= 645.0:
		r = 1.0
		g = -1.0 * (wave - 645.0) / (645.0 - 580.0)
	case wave >= 645.0 && wave <= 780.0:
		r = 1.0
	}

	// intensity falls off near the edges of human vision
	s := 1.0
	if wave > 700.0 {
		s = 0.3 + 0.7*(780.0-wave)/(780.0-700.0)
	} else if wave < 420.0 {
		s = 0.3 + 0.7*(wave-380.0)/(420.0-380.0)
	}

	return color.RGBA{
		R: channel(r * s),
		G: channel(g * s),
		B: channel(b * s),
		A: 255,
	}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	return uint8(math.Pow(v, 0.8) * 255)
}

// GradientSettings describes a run of NumberColors colors going from StartColor towards EndColor
type GradientSettings struct {
	StartColor   color.RGBA `koanf:"start_color"`
	EndColor     color.RGBA `koanf:"end_color"`
	NumberColors int        `koanf:"number_colors"`
}

func (gs *GradientSettings) Generate() []color.RGBA {
	palette := make([]color.RGBA, 0, gs.NumberColors)
	for j := 0; j < gs.NumberColors; j++ {
		fraction := float64(j) / float64(gs.NumberColors)
		palette = append(palette, misc.LinearInterpolationRGB(gs.StartColor, gs.EndColor, fraction))
	}
	return palette
}

// BuildGradientColorMap concatenates every gradient into one color map
func BuildGradientColorMap(gradients []GradientSettings) (ColorMap, error) {
	colorMap := make(ColorMap, 0)
	for i := range gradients {
		colorMap = append(colorMap, gradients[i].Generate()...)
	}
	if len(colorMap) == 0 {
		return nil, errors.Annotate(ErrInvalidColorMapSize, "gradients produced no colors")
	}
	return colorMap, nil
}
