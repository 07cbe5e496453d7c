package mandelbrot

import (
	"fmt"
	"image/color"
)

type Settings struct {
	BaseIterations      int                `koanf:"base_iterations"`
	ColorMapSize        int                `koanf:"color_map_size"`
	EscapeColor         color.RGBA         `koanf:"escape_color"`
	EscapeRadius        float64            `koanf:"escape_radius"`
	Gradients           []GradientSettings `koanf:"gradients"`
	IterationCap        int                `koanf:"iteration_cap"`
	IterationsPerOctave int                `koanf:"iterations_per_octave"`
	MaxPixels           int64              `koanf:"max_pixels"`
	Passes              int                `koanf:"passes"`
	ReferenceScale      float64            `koanf:"reference_scale"`
	Workers             int                `koanf:"workers"`
}

const maxPasses = 8

func DefaultSettings() Settings {
	s := Settings{}
	s.Verify()
	return s
}

func (s *Settings) String() string {
	output := "\nMandelbrot settings\n"
	output += fmt.Sprintf("Base Iterations: %d\n", s.BaseIterations)
	output += fmt.Sprintf("Color Map Size: %d\n", s.ColorMapSize)
	output += fmt.Sprintf("Escape Color: %v\n", s.EscapeColor)
	output += fmt.Sprintf("Escape Radius: %g\n", s.EscapeRadius)
	output += fmt.Sprintf("Gradients: %d\n", len(s.Gradients))
	output += fmt.Sprintf("Iteration Cap: %d\n", s.IterationCap)
	output += fmt.Sprintf("Iterations Per Octave: %d\n", s.IterationsPerOctave)
	output += fmt.Sprintf("Max Pixels: %d\n", s.MaxPixels)
	output += fmt.Sprintf("Passes: %d\n", s.Passes)
	output += fmt.Sprintf("Reference Scale: %g\n", s.ReferenceScale)
	output += fmt.Sprintf("Workers: %d\n", s.Workers)
	return output
}

// Verify replaces unusable values with defaults
func (s *Settings) Verify() error {
	if s.BaseIterations <= 0 {
		s.BaseIterations = 256
	}
	if s.ColorMapSize <= 0 {
		s.ColorMapSize = DefaultColorMapSize
	}
	if s.EscapeColor == (color.RGBA{}) {
		s.EscapeColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	}
	if s.EscapeRadius <= 0 {
		s.EscapeRadius = 2
	}
	if s.IterationCap <= 0 {
		s.IterationCap = 1 << 16
	}
	if s.IterationCap < s.BaseIterations {
		s.IterationCap = s.BaseIterations
	}
	if s.IterationsPerOctave <= 0 {
		s.IterationsPerOctave = 64
	}
	if s.MaxPixels <= 0 {
		s.MaxPixels = 1 << 26
	}
	if s.Passes < 1 {
		s.Passes = 1
	}
	if s.Passes > maxPasses {
		s.Passes = maxPasses
	}
	if s.ReferenceScale <= 0 {
		s.ReferenceScale = 0.005
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	return nil
}

// ColorMap builds the gradient color map when gradients are configured, the spectral one otherwise
func (s *Settings) ColorMap() (ColorMap, error) {
	if len(s.Gradients) > 0 {
		return BuildGradientColorMap(s.Gradients)
	}
	return BuildColorMap(s.ColorMapSize)
}
