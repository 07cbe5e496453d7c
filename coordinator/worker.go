package coordinator

import (
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/task"

	"github.com/juju/errors"
)

// run is the render loop. Waiting on the condition variable is the only place it blocks.
func (c *Coordinator) run() {
	defer close(c.done)

	for {
		c.mutex.Lock()
		for c.pending == nil && !c.shutdown {
			c.state = Idle
			c.condition.Wait()
		}
		if c.shutdown {
			c.state = Terminated
			c.mutex.Unlock()
			c.logger.Info("Render worker stopped")
			return
		}

		params := *c.pending
		c.pending = nil
		c.restart = false
		c.current = &params
		c.state = Computing
		c.mutex.Unlock()

		c.render(params)
	}
}

// interrupted is polled by the evaluator between rows
func (c *Coordinator) interrupted() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.restart || c.shutdown
}

func (c *Coordinator) render(params task.Parameters) {
	passes := c.evaluator.Passes()

	for pass := 0; pass < passes; pass++ {
		img, err := c.evaluator.EvaluatePass(params, c.colorMap, pass, c.interrupted)
		if errors.Is(err, mandelbrot.ErrInterrupted) {
			c.abandon(params, pass)
			return
		}
		if err != nil {
			c.fail(params, pass, err)
			return
		}

		// a request that arrived after the last row still makes this image stale
		if c.interrupted() {
			c.abandon(params, pass)
			return
		}
		c.emit(img)

		// nothing escaped in the preview, the intermediate passes would look the same
		if pass == 0 && img.AllInterior && passes > 2 {
			pass = passes - 2
		}
	}
}

func (c *Coordinator) emit(img task.Image) {
	c.mutex.Lock()
	c.stats.Emitted++
	c.mutex.Unlock()

	c.logger.Infof("Rendered pass %d/%d of %s in %s", img.Pass+1, c.evaluator.Passes(), img.Parameters.String(), img.Elapsed)
	c.sink.ImageReady(img)
}

func (c *Coordinator) abandon(params task.Parameters, pass int) {
	c.mutex.Lock()
	c.stats.Abandoned++
	c.current = nil
	c.mutex.Unlock()

	c.logger.Debugf("Abandoned pass %d of %s", pass+1, params.String())
}

func (c *Coordinator) fail(params task.Parameters, pass int, err error) {
	c.mutex.Lock()
	c.stats.Failed++
	c.current = nil
	c.mutex.Unlock()

	c.logger.Warningf("Pass %d of %s failed: %s", pass+1, params.String(), err)
	c.sink.PassFailed(task.Failure{
		Parameters: params,
		Pass:       pass,
		Err:        err,
	})
}
