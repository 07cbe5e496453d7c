package sink

import (
	"sync"

	"MandelbrotRenderer/task"
)

// Latest keeps only the newest image and the newest failure
type Latest struct {
	mutex      sync.Mutex
	failure    task.Failure
	hasFailure bool
	hasImage   bool
	image      task.Image
	updated    chan struct{}
}

func NewLatest() *Latest {
	return &Latest{
		updated: make(chan struct{}, 1),
	}
}

func (l *Latest) ImageReady(image task.Image) {
	l.mutex.Lock()
	l.image = image
	l.hasImage = true
	l.mutex.Unlock()
	l.notify()
}

func (l *Latest) PassFailed(failure task.Failure) {
	l.mutex.Lock()
	l.failure = failure
	l.hasFailure = true
	l.mutex.Unlock()
	l.notify()
}

func (l *Latest) notify() {
	select {
	case l.updated <- struct{}{}:
	default:
	}
}

// Updated receives a value after something new arrived. Several arrivals between two reads collapse into one.
func (l *Latest) Updated() <-chan struct{} {
	return l.updated
}

func (l *Latest) Image() (task.Image, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.image, l.hasImage
}

func (l *Latest) Failure() (task.Failure, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.failure, l.hasFailure
}
