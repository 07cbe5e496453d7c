package coordinator

import (
	"image"
	"testing"

	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/sink"
	"MandelbrotRenderer/task"

	"github.com/juju/errors"
)

func TestRenderService(t *testing.T) {
	evaluator := newScriptedEvaluator(1)
	colorMap, _ := mandelbrot.BuildColorMap(8)
	latest := sink.NewLatest()
	c, err := NewCoordinatorWithEvaluator(evaluator, colorMap, latest)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Shutdown()

	settings := mandelbrot.DefaultSettings()
	service := NewRenderService(c, latest, settings)
	var nothing misc.Nothing

	var frame task.Frame
	if err = service.Latest(nothing, &frame); !errors.Is(err, ErrNoImage) {
		t.Errorf("Latest() before rendering = %v", err)
	}

	if err = service.Submit(task.Parameters{Width: 1}, &nothing); !errors.Is(err, task.ErrInvalidParameters) {
		t.Errorf("Submit of invalid parameters = %v", err)
	}
	params := view(0.01)
	if err = service.Submit(params, &nothing); err != nil {
		t.Fatal(err)
	}
	expectCall(t, evaluator.calls)
	evaluator.proceed <- struct{}{}
	<-latest.Updated()

	if err = service.Latest(nothing, &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Parameters != params || len(frame.PNG) == 0 {
		t.Errorf("frame for %s with %d bytes", frame.Parameters.String(), len(frame.PNG))
	}
	decoded, err := frame.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != image.Rect(0, 0, params.Width, params.Height) {
		t.Errorf("decoded bounds %v", decoded.Bounds())
	}

	var stats Stats
	if err = service.Stats(nothing, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Submitted != 1 || stats.Rejected != 1 || stats.Emitted != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}

	var remote mandelbrot.Settings
	if err = service.GetMandelbrotSettings(nothing, &remote); err != nil || remote.ColorMapSize != settings.ColorMapSize {
		t.Errorf("GetMandelbrotSettings() = %v, %v", remote.ColorMapSize, err)
	}

	var present bool
	if err = service.RollCall(nothing, &present); err != nil || !present {
		t.Errorf("RollCall() = %t, %v", present, err)
	}
}
