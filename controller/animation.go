package controller

import (
	"context"
	"time"

	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/juju/errors"
)

// Animation submits the frames of a list of transitions one after another
type Animation struct {
	// AwaitFrame, when set, is called after every submission and should return once that frame has been rendered.
	// Without it frames are only spaced by FrameDelay and the renderer may skip the ones it cannot keep up with.
	AwaitFrame func(ctx context.Context, params task.Parameters) error
	FrameDelay time.Duration

	logger      bslogger.Logger
	submitter   Submitter
	transitions []TransitionSettings
	view        ViewSettings
}

func NewAnimation(view ViewSettings, transitions []TransitionSettings, submitter Submitter, logger bslogger.Logger) *Animation {
	view.Verify()
	for i := range transitions {
		transitions[i].Verify()
	}
	return &Animation{
		logger:      logger,
		submitter:   submitter,
		transitions: transitions,
		view:        view,
	}
}

// Frames lists the parameters of every frame in order. Without transitions the view itself is the only frame.
func (a *Animation) Frames() []task.Parameters {
	if len(a.transitions) == 0 {
		return []task.Parameters{a.view.Parameters()}
	}
	var frames []task.Parameters
	for i := range a.transitions {
		for frame := 0; frame < a.transitions[i].FrameCount(); frame++ {
			frames = append(frames, a.transitions[i].Parameters(frame, a.view))
		}
	}
	return frames
}

// Run submits every frame and returns the number submitted. It stops early when ctx is done.
func (a *Animation) Run(ctx context.Context) (int, error) {
	frames := a.Frames()
	a.logger.Infof("Animating %d frames over %d transitions", len(frames), len(a.transitions))

	var ticker *time.Ticker
	if a.FrameDelay > 0 {
		ticker = time.NewTicker(a.FrameDelay)
		defer ticker.Stop()
	}

	for i, params := range frames {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := a.submitter.Submit(params); err != nil {
			return i, errors.Annotatef(err, "submitting frame %d", i)
		}
		if a.AwaitFrame != nil {
			if err := a.AwaitFrame(ctx, params); err != nil {
				return i + 1, errors.Annotatef(err, "waiting for frame %d", i)
			}
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return i + 1, ctx.Err()
			case <-ticker.C:
			}
		}
		a.logger.Debugf("Frame %d/%d submitted", i+1, len(frames))
	}
	return len(frames), nil
}
