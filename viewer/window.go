package viewer

import (
	"fmt"
	"image/color"

	"MandelbrotRenderer/controller"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/juju/errors"
)

// Window shows images in an OpenGL window. Run has to be called from the function given to pixelgl.Run.
type Window struct {
	controller *controller.Controller
	failures   <-chan task.Failure
	images     <-chan task.Image
	logger     bslogger.Logger
	sound      *Sound
	title      string
}

func NewWindow(title string, ctrl *controller.Controller, images <-chan task.Image, failures <-chan task.Failure, logger bslogger.Logger) *Window {
	return &Window{
		controller: ctrl,
		failures:   failures,
		images:     images,
		logger:     logger,
		title:      title,
	}
}

func (w *Window) WithSound(sound *Sound) *Window {
	w.sound = sound
	return w
}

// spriteMatrix places an image rendered for img.Parameters so it lines up with view, see Sample
func spriteMatrix(img task.Image, view task.Parameters, center pixel.Vec) pixel.Matrix {
	scale := img.ScaleFactorUsed / view.ScaleFactor
	offset := pixel.V(
		(img.Parameters.CenterX-view.CenterX)/view.ScaleFactor,
		-(img.Parameters.CenterY-view.CenterY)/view.ScaleFactor,
	)
	return pixel.IM.Scaled(pixel.ZV, scale).Moved(center.Add(offset))
}

func (w *Window) Run() error {
	view := w.controller.Parameters()
	cfg := pixelgl.WindowConfig{
		Title:     w.title,
		Bounds:    pixel.R(0, 0, float64(view.Width), float64(view.Height)),
		VSync:     true,
		Resizable: true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return errors.Annotate(err, "creating window")
	}
	defer win.Destroy()

	misc.CheckError(w.controller.Refresh(), w.logger, misc.Warning)

	var shown task.Image
	var sprite *pixel.Sprite
	for !win.Closed() {
		if win.JustPressed(pixelgl.KeyEscape) || win.JustPressed(pixelgl.KeyQ) {
			return nil
		}
		w.handleInput(win)

		select {
		case img := <-w.images:
			picture := pixel.PictureDataFromImage(img.Pixels)
			sprite = pixel.NewSprite(picture, picture.Bounds())
			shown = img
			win.SetTitle(fmt.Sprintf("%s - pass %d, %d iterations", w.title, img.Pass+1, img.MaxIterations))
			if img.Final && w.sound != nil {
				w.sound.Chime()
			}
		case failure := <-w.failures:
			w.logger.Warningf("Render failed: %s", failure.String())
			if w.sound != nil {
				w.sound.Buzz()
			}
		default:
		}

		win.Clear(color.Black)
		if sprite != nil {
			sprite.Draw(win, spriteMatrix(shown, w.controller.Parameters(), win.Bounds().Center()))
		}
		win.Update()
	}
	return nil
}

func (w *Window) handleInput(win *pixelgl.Window) {
	var err error
	switch {
	case win.JustPressed(pixelgl.KeyLeft):
		err = w.controller.Step(-1, 0)
	case win.JustPressed(pixelgl.KeyRight):
		err = w.controller.Step(1, 0)
	case win.JustPressed(pixelgl.KeyUp):
		err = w.controller.Step(0, -1)
	case win.JustPressed(pixelgl.KeyDown):
		err = w.controller.Step(0, 1)
	case win.JustPressed(pixelgl.KeyEqual), win.JustPressed(pixelgl.KeyKPAdd):
		err = w.controller.ZoomIn()
	case win.JustPressed(pixelgl.KeyMinus), win.JustPressed(pixelgl.KeyKPSubtract):
		err = w.controller.ZoomOut()
	case win.JustPressed(pixelgl.KeyR):
		err = w.controller.Refresh()
	}
	misc.CheckError(err, w.logger, misc.Warning)

	if scroll := win.MouseScroll(); scroll.Y != 0 {
		factor := controller.DefaultZoomInFactor
		if scroll.Y < 0 {
			factor = controller.DefaultZoomOutFactor
		}
		position := win.MousePosition()
		column := int(position.X)
		row := int(win.Bounds().H() - position.Y)
		misc.CheckError(w.controller.ZoomAt(column, row, factor), w.logger, misc.Warning)
	}

	view := w.controller.Parameters()
	width, height := int(win.Bounds().W()), int(win.Bounds().H())
	if width > 0 && height > 0 && (width != view.Width || height != view.Height) {
		misc.CheckError(w.controller.Resize(width, height), w.logger, misc.Warning)
	}
}
