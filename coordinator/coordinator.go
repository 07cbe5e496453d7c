package coordinator

import (
	"context"
	"sync"
	"time"

	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/juju/errors"
)

// Sink receives the results of the render worker. Both methods are called on the worker goroutine, so a sink that
// does real work should hand the value off to its own goroutine. A sink must never call Shutdown.
type Sink interface {
	ImageReady(image task.Image)
	PassFailed(failure task.Failure)
}

// Evaluator computes one progressive pass of an image
type Evaluator interface {
	Passes() int
	EvaluatePass(params task.Parameters, colorMap mandelbrot.ColorMap, pass int, interrupt func() bool) (task.Image, error)
}

type State int

const (
	Idle State = iota
	Computing
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Computing:
		return "Computing"
	case Terminated:
		return "Terminated"
	}
	return "Unknown"
}

type Stats struct {
	Abandoned  uint64
	Coalesced  uint64
	Duplicates uint64
	Emitted    uint64
	Failed     uint64
	Rejected   uint64
	Submitted  uint64
	State      State
}

// Coordinator owns one render goroutine and a single "latest request" slot. Every Submit replaces whatever is
// pending and asks the worker to abandon the pass it is running, so only the most recent parameters get rendered.
type Coordinator struct {
	colorMap  mandelbrot.ColorMap
	condition *sync.Cond
	done      chan struct{}
	evaluator Evaluator
	logger    bslogger.Logger
	sink      Sink
	stopOnce  sync.Once

	// guarded by mutex
	mutex    sync.Mutex
	current  *task.Parameters // being computed, or the last emitted
	pending  *task.Parameters
	restart  bool
	shutdown bool
	state    State
	stats    Stats
}

type Option func(*Coordinator)

// WithLogger replaces the default logger, e.g. with one that also writes to a run log file
func WithLogger(logger bslogger.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// NewCoordinator builds the color map described by settings and starts the render goroutine
func NewCoordinator(settings mandelbrot.Settings, sink Sink, options ...Option) (*Coordinator, error) {
	if err := settings.Verify(); err != nil {
		return nil, errors.Annotate(err, "verifying mandelbrot settings")
	}
	colorMap, err := settings.ColorMap()
	if err != nil {
		return nil, errors.Annotate(err, "building color map")
	}
	return NewCoordinatorWithEvaluator(mandelbrot.NewMandelbrot(settings), colorMap, sink, options...)
}

func NewCoordinatorWithEvaluator(evaluator Evaluator, colorMap mandelbrot.ColorMap, sink Sink, options ...Option) (*Coordinator, error) {
	if evaluator == nil {
		return nil, errors.New("no evaluator supplied")
	}
	if sink == nil {
		return nil, errors.New("no sink supplied")
	}
	if len(colorMap) == 0 {
		return nil, errors.Annotate(mandelbrot.ErrInvalidColorMapSize, "empty color map")
	}

	c := &Coordinator{
		colorMap:  colorMap,
		done:      make(chan struct{}),
		evaluator: evaluator,
		logger:    bslogger.NewLogger("Coordinator", bslogger.Normal, nil),
		sink:      sink,
		state:     Idle,
	}
	c.condition = sync.NewCond(&c.mutex)
	for _, option := range options {
		option(c)
	}

	go c.run()
	c.logger.Infof("Render worker started with %d colors and %d passes", len(colorMap), evaluator.Passes())

	return c, nil
}

// Submit makes params the next image to render. It never waits for the worker. Invalid parameters are rejected
// without touching the pending request. Submissions after Shutdown are accepted and never rendered.
func (c *Coordinator) Submit(params task.Parameters) error {
	if err := params.Verify(); err != nil {
		c.mutex.Lock()
		c.stats.Rejected++
		c.mutex.Unlock()
		c.logger.Warningf("Rejected %s: %s", params.String(), err)
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stats.Submitted++
	if c.pending == nil && c.current != nil && *c.current == params {
		// already being rendered or already delivered
		c.stats.Duplicates++
		return nil
	}
	if c.pending != nil {
		c.stats.Coalesced++
	}

	c.pending = &params
	c.restart = true
	c.condition.Signal()
	return nil
}

// Shutdown stops the render worker and blocks until it has exited. A pass in progress is abandoned at the next row.
// It is safe to call more than once and from several goroutines.
func (c *Coordinator) Shutdown() {
	c.stopOnce.Do(func() {
		c.mutex.Lock()
		c.shutdown = true
		c.condition.Broadcast()
		c.mutex.Unlock()
	})
	<-c.done
}

// Done is closed once the render worker has exited
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

func (c *Coordinator) Stats() Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	stats := c.stats
	stats.State = c.state
	return stats
}

func (c *Coordinator) ColorMap() mandelbrot.ColorMap {
	return c.colorMap
}

// Heartbeat logs the counters every interval until ctx is done or the worker has stopped
func (c *Coordinator) Heartbeat(ctx context.Context, interval time.Duration) {
	heartBeat := time.NewTicker(interval)
	defer heartBeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-heartBeat.C:
			s := c.Stats()
			c.logger.Infof("Requests [Submitted: %d] [Coalesced: %d] [Duplicates: %d] [Rejected: %d] | Passes [Emitted: %d] [Abandoned: %d] [Failed: %d] | %s",
				s.Submitted, s.Coalesced, s.Duplicates, s.Rejected, s.Emitted, s.Abandoned, s.Failed, s.State)
		}
	}
}
