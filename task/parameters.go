package task

import (
	"fmt"
	"math"

	"github.com/juju/errors"
)

// ErrInvalidParameters is returned for parameters that can never be rendered
var ErrInvalidParameters = errors.New("invalid render parameters")

// Parameters describes one view of the complex plane. ScaleFactor is the distance in the complex plane covered by a
// single pixel, so smaller values zoom in.
type Parameters struct {
	CenterX     float64
	CenterY     float64
	ScaleFactor float64
	Width       int
	Height      int
}

func (p Parameters) String() string {
	output := "{Parameters "
	output += fmt.Sprintf("CenterX: %g ", p.CenterX)
	output += fmt.Sprintf("CenterY: %g ", p.CenterY)
	output += fmt.Sprintf("ScaleFactor: %g ", p.ScaleFactor)
	output += fmt.Sprintf("Size: %dx%d}", p.Width, p.Height)
	return output
}

// Verify rejects parameters with non-positive dimensions, non-finite coordinates or a non-positive scale
func (p Parameters) Verify() error {
	if p.Width <= 0 || p.Height <= 0 {
		return errors.Annotatef(ErrInvalidParameters, "output size %dx%d", p.Width, p.Height)
	}
	if !isFinite(p.CenterX) || !isFinite(p.CenterY) {
		return errors.Annotatef(ErrInvalidParameters, "center (%g, %g)", p.CenterX, p.CenterY)
	}
	if !isFinite(p.ScaleFactor) || p.ScaleFactor <= 0 {
		return errors.Annotatef(ErrInvalidParameters, "scale factor %g", p.ScaleFactor)
	}
	return nil
}

// PixelCount is the number of pixels the parameters ask for
func (p Parameters) PixelCount() int64 {
	return int64(p.Width) * int64(p.Height)
}

// Zoomed returns a copy with the scale multiplied by factor
func (p Parameters) Zoomed(factor float64) Parameters {
	p.ScaleFactor *= factor
	return p
}

// Scrolled returns a copy with the center moved by the given amount of pixels
func (p Parameters) Scrolled(deltaX int, deltaY int) Parameters {
	p.CenterX += float64(deltaX) * p.ScaleFactor
	p.CenterY += float64(deltaY) * p.ScaleFactor
	return p
}

// Resized returns a copy rendering into a different output size
func (p Parameters) Resized(width int, height int) Parameters {
	p.Width = width
	p.Height = height
	return p
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
