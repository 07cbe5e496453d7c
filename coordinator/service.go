package coordinator

import (
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/sink"
	"MandelbrotRenderer/task"

	"github.com/juju/errors"
)

// ServiceName is the name RenderService is registered under on the rpc servers
const ServiceName = "RenderService"

var ErrNoImage = errors.New("no image rendered yet")

// RenderService exposes a coordinator to remote viewers. Every method is safe to call concurrently.
type RenderService struct {
	coordinator *Coordinator
	latest      *sink.Latest
	settings    mandelbrot.Settings
}

// NewRenderService answers Latest from latest, which has to be one of the sinks the coordinator delivers to
func NewRenderService(coordinator *Coordinator, latest *sink.Latest, settings mandelbrot.Settings) *RenderService {
	return &RenderService{
		coordinator: coordinator,
		latest:      latest,
		settings:    settings,
	}
}

func (rs *RenderService) Submit(params task.Parameters, reply *misc.Nothing) error {
	return rs.coordinator.Submit(params)
}

// Latest replies with the newest image delivered, encoded so it can cross the wire
func (rs *RenderService) Latest(nothing misc.Nothing, frame *task.Frame) error {
	img, ok := rs.latest.Image()
	if !ok {
		return ErrNoImage
	}
	encoded, err := task.NewFrame(img)
	if err != nil {
		return errors.Annotate(err, "encoding latest image")
	}
	*frame = encoded
	return nil
}

func (rs *RenderService) Stats(nothing misc.Nothing, stats *Stats) error {
	*stats = rs.coordinator.Stats()
	return nil
}

func (rs *RenderService) GetMandelbrotSettings(nothing misc.Nothing, settings *mandelbrot.Settings) error {
	*settings = rs.settings
	return nil
}

func (rs *RenderService) RollCall(nothing misc.Nothing, present *bool) error {
	*present = true
	return nil
}
