// Package sink holds the consumers a coordinator can deliver rendered images to.
package sink

import "MandelbrotRenderer/task"

type Sink interface {
	ImageReady(image task.Image)
	PassFailed(failure task.Failure)
}

// Funcs adapts plain functions to a Sink. Either function may be nil.
type Funcs struct {
	OnImage   func(task.Image)
	OnFailure func(task.Failure)
}

func (f Funcs) ImageReady(image task.Image) {
	if f.OnImage != nil {
		f.OnImage(image)
	}
}

func (f Funcs) PassFailed(failure task.Failure) {
	if f.OnFailure != nil {
		f.OnFailure(failure)
	}
}

// Multi hands every result to each of its sinks in order. Images are shared, not copied.
type Multi []Sink

func (m Multi) ImageReady(image task.Image) {
	for _, s := range m {
		s.ImageReady(image)
	}
}

func (m Multi) PassFailed(failure task.Failure) {
	for _, s := range m {
		s.PassFailed(failure)
	}
}
