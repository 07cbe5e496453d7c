package controller

import (
	"fmt"
	"sync"

	"MandelbrotRenderer/task"
)

const (
	DefaultCenterX       = -0.637011
	DefaultCenterY       = -0.0395159
	DefaultScaleFactor   = 0.00403897
	DefaultWidth         = 550
	DefaultHeight        = 400
	DefaultZoomInFactor  = 0.8
	DefaultZoomOutFactor = 1 / DefaultZoomInFactor
	DefaultScrollStep    = 20
)

// Submitter accepts render requests without waiting for them
type Submitter interface {
	Submit(params task.Parameters) error
}

type ViewSettings struct {
	CenterX       float64 `koanf:"center_x"`
	CenterY       float64 `koanf:"center_y"`
	Height        int     `koanf:"height"`
	ScaleFactor   float64 `koanf:"scale_factor"`
	ScrollStep    int     `koanf:"scroll_step"`
	Width         int     `koanf:"width"`
	ZoomInFactor  float64 `koanf:"zoom_in_factor"`
	ZoomOutFactor float64 `koanf:"zoom_out_factor"`
}

func DefaultViewSettings() ViewSettings {
	vs := ViewSettings{}
	vs.Verify()
	return vs
}

func (vs *ViewSettings) String() string {
	output := "\nView settings\n"
	output += fmt.Sprintf("Center: (%g, %g)\n", vs.CenterX, vs.CenterY)
	output += fmt.Sprintf("Scale Factor: %g\n", vs.ScaleFactor)
	output += fmt.Sprintf("Size: %dx%d\n", vs.Width, vs.Height)
	output += fmt.Sprintf("Zoom: in %g out %g\n", vs.ZoomInFactor, vs.ZoomOutFactor)
	output += fmt.Sprintf("Scroll Step: %d\n", vs.ScrollStep)
	return output
}

func (vs *ViewSettings) Verify() error {
	if vs.ScaleFactor <= 0 {
		vs.ScaleFactor = DefaultScaleFactor
		if vs.CenterX == 0 && vs.CenterY == 0 {
			vs.CenterX = DefaultCenterX
			vs.CenterY = DefaultCenterY
		}
	}
	if vs.Width <= 0 {
		vs.Width = DefaultWidth
	}
	if vs.Height <= 0 {
		vs.Height = DefaultHeight
	}
	if vs.ZoomInFactor <= 0 || vs.ZoomInFactor >= 1 {
		vs.ZoomInFactor = DefaultZoomInFactor
	}
	if vs.ZoomOutFactor <= 1 {
		vs.ZoomOutFactor = DefaultZoomOutFactor
	}
	if vs.ScrollStep <= 0 {
		vs.ScrollStep = DefaultScrollStep
	}
	return nil
}

// Parameters is the view the settings start at
func (vs *ViewSettings) Parameters() task.Parameters {
	return task.Parameters{
		CenterX:     vs.CenterX,
		CenterY:     vs.CenterY,
		ScaleFactor: vs.ScaleFactor,
		Width:       vs.Width,
		Height:      vs.Height,
	}
}

// Controller turns navigation input into render requests. The view only moves when the request is accepted.
type Controller struct {
	mutex     sync.Mutex
	params    task.Parameters
	settings  ViewSettings
	submitter Submitter
}

func NewController(settings ViewSettings, submitter Submitter) *Controller {
	settings.Verify()
	return &Controller{
		params:    settings.Parameters(),
		settings:  settings,
		submitter: submitter,
	}
}

func (c *Controller) Parameters() task.Parameters {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.params
}

// Refresh asks for the current view again
func (c *Controller) Refresh() error {
	return c.update(func(p task.Parameters) task.Parameters { return p })
}

func (c *Controller) ZoomIn() error {
	return c.Zoom(c.settings.ZoomInFactor)
}

func (c *Controller) ZoomOut() error {
	return c.Zoom(c.settings.ZoomOutFactor)
}

// Zoom scales the view around its center, factors below 1 zoom in
func (c *Controller) Zoom(factor float64) error {
	return c.update(func(p task.Parameters) task.Parameters { return p.Zoomed(factor) })
}

// ZoomAt zooms while keeping the point under pixel (column, row) where it is
func (c *Controller) ZoomAt(column int, row int, factor float64) error {
	return c.update(func(p task.Parameters) task.Parameters {
		offsetX := float64(column - p.Width/2)
		offsetY := float64(row - p.Height/2)
		x := p.CenterX + offsetX*p.ScaleFactor
		y := p.CenterY + offsetY*p.ScaleFactor

		p = p.Zoomed(factor)
		p.CenterX = x - offsetX*p.ScaleFactor
		p.CenterY = y - offsetY*p.ScaleFactor
		return p
	})
}

// Scroll moves the center by the given number of pixels
func (c *Controller) Scroll(deltaX int, deltaY int) error {
	return c.update(func(p task.Parameters) task.Parameters { return p.Scrolled(deltaX, deltaY) })
}

// Step scrolls by whole scroll steps, e.g. Step(-1, 0) for the left arrow
func (c *Controller) Step(stepsX int, stepsY int) error {
	return c.Scroll(stepsX*c.settings.ScrollStep, stepsY*c.settings.ScrollStep)
}

func (c *Controller) Resize(width int, height int) error {
	return c.update(func(p task.Parameters) task.Parameters { return p.Resized(width, height) })
}

func (c *Controller) update(change func(task.Parameters) task.Parameters) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	next := change(c.params)
	if err := c.submitter.Submit(next); err != nil {
		return err
	}
	c.params = next
	return nil
}
