package viewer

import (
	"context"
	"fmt"
	"image/color"

	"MandelbrotRenderer/controller"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/gdamore/tcell/v2"
)

// Screen is the part of tcell.Screen the terminal viewer draws with
type Screen interface {
	Clear()
	PollEvent() tcell.Event
	SetContent(x int, y int, primary rune, combining []rune, style tcell.Style)
	Show()
	Size() (int, int)
}

// Terminal draws two image rows per text row with upper half blocks and keeps the last line for status
type Terminal struct {
	controller *controller.Controller
	failures   <-chan task.Failure
	image      task.Image
	images     <-chan task.Image
	logger     bslogger.Logger
	screen     Screen
	sound      *Sound
	status     string
}

func NewTerminal(screen Screen, ctrl *controller.Controller, images <-chan task.Image, failures <-chan task.Failure, logger bslogger.Logger) *Terminal {
	return &Terminal{
		controller: ctrl,
		failures:   failures,
		images:     images,
		logger:     logger,
		screen:     screen,
	}
}

// WithSound plays a chime for every final image and a buzz for every failure
func (t *Terminal) WithSound(sound *Sound) *Terminal {
	t.sound = sound
	return t
}

// Run handles input and redraws until the user quits or ctx is done. The caller owns the screen and finalizes it
// afterwards, which also ends the event goroutine.
func (t *Terminal) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	t.resize()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !t.handleEvent(ev) {
				return nil
			}
		case img := <-t.images:
			t.image = img
			t.status = fmt.Sprintf("pass %d, %d iterations, %s", img.Pass+1, img.MaxIterations, img.Elapsed)
			if img.Final && t.sound != nil {
				t.sound.Chime()
			}
		case failure := <-t.failures:
			t.status = fmt.Sprintf("failed: %s", failure.Err)
			if t.sound != nil {
				t.sound.Buzz()
			}
		}
		t.draw()
	}
}

func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		t.resize()
	}
	return true
}

// handleKey reports false when the viewer should close
func (t *Terminal) handleKey(key tcell.Key, r rune) bool {
	var err error
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		err = t.controller.Step(-1, 0)
	case tcell.KeyRight:
		err = t.controller.Step(1, 0)
	case tcell.KeyUp:
		err = t.controller.Step(0, -1)
	case tcell.KeyDown:
		err = t.controller.Step(0, 1)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case '+', '=':
			err = t.controller.ZoomIn()
		case '-', '_':
			err = t.controller.ZoomOut()
		case 'r':
			err = t.controller.Refresh()
		}
	}
	if misc.CheckError(err, t.logger, misc.Warning) {
		t.status = err.Error()
	}
	return true
}

// resize renders for the current screen size, one row is kept for the status line
func (t *Terminal) resize() {
	columns, rows := t.screen.Size()
	if rows > 1 {
		rows--
	}
	err := t.controller.Resize(columns, rows*2)
	if misc.CheckError(err, t.logger, misc.Warning) {
		t.status = err.Error()
	}
}

// cellColors picks the colors of the upper and lower half of the text cell at (column, row)
func cellColors(img task.Image, view task.Parameters, column int, row int) (top color.RGBA, bottom color.RGBA) {
	top, _ = Sample(img, view, column, row*2)
	bottom, _ = Sample(img, view, column, row*2+1)
	return top, bottom
}

func (t *Terminal) draw() {
	view := t.controller.Parameters()
	columns, rows := t.screen.Size()
	t.screen.Clear()

	for row := 0; row < rows-1; row++ {
		for column := 0; column < columns; column++ {
			top, bottom := cellColors(t.image, view, column, row)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(column, row, '▀', nil, style)
		}
	}

	status := fmt.Sprintf("(%.8g, %.8g) scale %.4g | %s | arrows move, +/- zoom, q quits", view.CenterX, view.CenterY, view.ScaleFactor, t.status)
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	column := 0
	for _, r := range status {
		if column >= columns {
			break
		}
		t.screen.SetContent(column, rows-1, r, nil, statusStyle)
		column++
	}
	t.screen.Show()
}
