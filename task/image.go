package task

import (
	"fmt"
	"image"
	"time"
)

// Image is a completed pass. Once handed to a sink the renderer never touches Pixels again.
type Image struct {
	Parameters      Parameters
	Pixels          *image.RGBA
	ScaleFactorUsed float64
	MaxIterations   int
	Pass            int
	Final           bool
	AllInterior     bool
	Elapsed         time.Duration
}

func (i *Image) String() string {
	output := "{Image "
	output += fmt.Sprintf("Size: %dx%d ", i.Parameters.Width, i.Parameters.Height)
	output += fmt.Sprintf("ScaleFactor: %g ", i.ScaleFactorUsed)
	output += fmt.Sprintf("MaxIterations: %d ", i.MaxIterations)
	output += fmt.Sprintf("Pass: %d ", i.Pass)
	output += fmt.Sprintf("Final: %t ", i.Final)
	output += fmt.Sprintf("Elapsed: %s}", i.Elapsed)
	return output
}

// Failure reports a pass that could not produce an image
type Failure struct {
	Parameters Parameters
	Pass       int
	Err        error
}

func (f *Failure) String() string {
	return fmt.Sprintf("{Failure Parameters: %s Pass: %d Err: %s}", f.Parameters.String(), f.Pass, f.Err)
}
