package controller

import (
	"fmt"
	"math"

	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/task"
)

// TransitionSettings moves the view from one point to another while the magnification changes by
// MagnificationStep per frame. Magnification 1 shows the view's own scale factor.
type TransitionSettings struct {
	EndX               float64 `koanf:"end_x"`
	EndY               float64 `koanf:"end_y"`
	MagnificationStart float64 `koanf:"magnification_start"`
	MagnificationEnd   float64 `koanf:"magnification_end"`
	MagnificationStep  float64 `koanf:"magnification_step"`
	StartX             float64 `koanf:"start_x"`
	StartY             float64 `koanf:"start_y"`
}

func (ts *TransitionSettings) String() string {
	return fmt.Sprintf("{Transition (%g, %g) -> (%g, %g) magnification %g -> %g step %g}",
		ts.StartX, ts.StartY, ts.EndX, ts.EndY, ts.MagnificationStart, ts.MagnificationEnd, ts.MagnificationStep)
}

func (ts *TransitionSettings) Verify() error {
	if ts.StartX < -4 || ts.StartX > 4 {
		ts.StartX = 0
	}
	if ts.StartY < -4 || ts.StartY > 4 {
		ts.StartY = 0
	}
	if ts.EndX < -4 || ts.EndX > 4 {
		ts.EndX = 0
	}
	if ts.EndY < -4 || ts.EndY > 4 {
		ts.EndY = 0
	}
	if ts.MagnificationEnd <= 0 {
		ts.MagnificationEnd = 1.5
	}
	if ts.MagnificationStart <= 0 {
		ts.MagnificationStart = 0.5
	}
	if ts.MagnificationStep <= 1 {
		ts.MagnificationStep = 1.1
	}
	return nil
}

/*
 * The magnification of frame n is start * step^n (or start / step^n when zooming out), so the number of frames
 * needed to get from start to end is
 *
 * n = |ln(end / start)| / ln(step)
 *
 * plus one for the starting frame. The small tolerance keeps rounding in the logarithms from adding a frame.
 */
func (ts *TransitionSettings) FrameCount() int {
	steps := math.Ceil(math.Abs(math.Log(ts.MagnificationEnd/ts.MagnificationStart))/math.Log(ts.MagnificationStep) - 1e-9)
	return int(steps) + 1
}

// Magnification of the given frame, never overshooting MagnificationEnd
func (ts *TransitionSettings) Magnification(frame int) float64 {
	change := math.Pow(ts.MagnificationStep, float64(frame))
	if ts.MagnificationEnd >= ts.MagnificationStart {
		return math.Min(ts.MagnificationStart*change, ts.MagnificationEnd)
	}
	return math.Max(ts.MagnificationStart/change, ts.MagnificationEnd)
}

// Parameters of the given frame rendered at the size and base scale of view. The center moves early while zooming
// in and late while zooming out, so it is only ever moving while the view is wide.
func (ts *TransitionSettings) Parameters(frame int, view ViewSettings) task.Parameters {
	fraction := 1.0
	if count := ts.FrameCount(); count > 1 {
		fraction = float64(frame) / float64(count-1)
	}
	eased := misc.EaseOutExpo(fraction)
	if ts.MagnificationEnd < ts.MagnificationStart {
		eased = misc.EaseInExpo(fraction)
	}

	return task.Parameters{
		CenterX:     misc.LerpFloat64(ts.StartX, ts.EndX, eased),
		CenterY:     misc.LerpFloat64(ts.StartY, ts.EndY, eased),
		ScaleFactor: view.ScaleFactor / ts.Magnification(frame),
		Width:       view.Width,
		Height:      view.Height,
	}
}
