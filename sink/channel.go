package sink

import (
	"sync/atomic"

	"MandelbrotRenderer/task"
)

// Channel buffers results for a consumer goroutine. It never blocks the producer: when a buffer is full the
// oldest entry is dropped to make room.
type Channel struct {
	dropped  atomic.Uint64
	failures chan task.Failure
	images   chan task.Image
}

func NewChannel(capacity int) *Channel {
	if capacity < 1 {
		capacity = 1
	}
	return &Channel{
		failures: make(chan task.Failure, capacity),
		images:   make(chan task.Image, capacity),
	}
}

func (c *Channel) Images() <-chan task.Image {
	return c.images
}

func (c *Channel) Failures() <-chan task.Failure {
	return c.failures
}

// Dropped counts the images and failures discarded because nobody read them in time
func (c *Channel) Dropped() uint64 {
	return c.dropped.Load()
}

func (c *Channel) ImageReady(image task.Image) {
	for {
		select {
		case c.images <- image:
			return
		default:
		}
		select {
		case <-c.images:
			c.dropped.Add(1)
		default:
		}
	}
}

func (c *Channel) PassFailed(failure task.Failure) {
	for {
		select {
		case c.failures <- failure:
			return
		default:
		}
		select {
		case <-c.failures:
			c.dropped.Add(1)
		default:
		}
	}
}
