package mandelbrot

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"MandelbrotRenderer/task"

	"github.com/juju/errors"
)

var (
	// ErrInterrupted means the pass was abandoned and every computed pixel discarded
	ErrInterrupted = errors.New("pass interrupted")
	// ErrResourceExhausted means the output buffer for a pass could not be allocated
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Points are compared against a saved orbit point every periodLength iterations
const periodLength = 20

type Mandelbrot struct {
	settings Settings
}

func NewMandelbrot(settings Settings) *Mandelbrot {
	settings.Verify()
	return &Mandelbrot{
		settings: settings,
	}
}

func (m *Mandelbrot) Settings() Settings {
	return m.settings
}

func (m *Mandelbrot) Passes() int {
	return m.settings.Passes
}

// Evaluate renders the full resolution pass for params. interrupt is polled before every row; once it returns true
// Evaluate returns ErrInterrupted and no image.
func (m *Mandelbrot) Evaluate(params task.Parameters, colorMap ColorMap, interrupt func() bool) (task.Image, error) {
	return m.EvaluatePass(params, colorMap, m.settings.Passes-1, interrupt)
}

// EvaluatePass renders one progressive pass. Pass Passes()-1 is the final one.
func (m *Mandelbrot) EvaluatePass(params task.Parameters, colorMap ColorMap, pass int, interrupt func() bool) (task.Image, error) {
	startTime := time.Now()

	if err := params.Verify(); err != nil {
		return task.Image{}, err
	}
	if len(colorMap) == 0 {
		return task.Image{}, errors.Annotate(ErrInvalidColorMapSize, "empty color map")
	}

	pixels, err := m.allocate(params)
	if err != nil {
		return task.Image{}, err
	}

	maxIterations := m.settings.PassIterations(params.ScaleFactor, pass)
	var escaped atomic.Bool

	renderRow := func(row int) {
		offset := row * pixels.Stride
		for column := 0; column < params.Width; column++ {
			x, y := PixelToComplex(params, column, row)
			iteration := m.EscapeTime(x, y, maxIterations)

			c := m.settings.EscapeColor
			if iteration < maxIterations {
				c = colorMap.Color(iteration)
				escaped.Store(true)
			}
			setPixel(pixels.Pix[offset+column*4:], c)
		}
	}

	var interrupted bool
	if m.settings.Workers <= 1 || params.Height == 1 {
		for row := 0; row < params.Height; row++ {
			if interrupt() {
				interrupted = true
				break
			}
			renderRow(row)
		}
	} else {
		interrupted = m.renderRowsConcurrently(params.Height, renderRow, interrupt)
	}

	if interrupted {
		return task.Image{}, ErrInterrupted
	}

	return task.Image{
		Parameters:      params,
		Pixels:          pixels,
		ScaleFactorUsed: params.ScaleFactor,
		MaxIterations:   maxIterations,
		Pass:            pass,
		Final:           pass >= m.settings.Passes-1,
		AllInterior:     !escaped.Load(),
		Elapsed:         time.Since(startTime),
	}, nil
}

// renderRowsConcurrently hands rows out to Workers goroutines. Every goroutine polls interrupt before taking a row.
func (m *Mandelbrot) renderRowsConcurrently(height int, renderRow func(row int), interrupt func() bool) bool {
	var nextRow atomic.Int64
	var interrupted atomic.Bool
	var wg sync.WaitGroup

	workers := m.settings.Workers
	if workers > height {
		workers = height
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if interrupted.Load() {
					return
				}
				if interrupt() {
					interrupted.Store(true)
					return
				}
				row := int(nextRow.Add(1) - 1)
				if row >= height {
					return
				}
				renderRow(row)
			}
		}()
	}
	wg.Wait()

	return interrupted.Load()
}

// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Optimized_escape_time_algorithms
func (m *Mandelbrot) EscapeTime(x float64, y float64, maxIterations int) int {
	limit := m.settings.EscapeRadius * m.settings.EscapeRadius
	zx, zy, zx2, zy2 := 0.0, 0.0, 0.0, 0.0
	oldX, oldY := 0.0, 0.0
	period := 0
	iteration := 0

	for zx2+zy2 <= limit && iteration < maxIterations {
		zy = 2*zx*zy + y
		zx = zx2 - zy2 + x
		zx2 = zx * zx
		zy2 = zy * zy
		iteration++

		// A repeated orbit point can never escape
		// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Periodicity_checking
		if zx == oldX && zy == oldY {
			return maxIterations
		}

		period++
		if period > periodLength {
			period = 0
			oldX = zx
			oldY = zy
		}
	}

	return iteration
}

// PixelToComplex maps (column, row) to the complex plane. The center pixel lands exactly on the center of params and
// every pixel covers ScaleFactor in both directions, which keeps the aspect ratio of the output.
func PixelToComplex(params task.Parameters, column int, row int) (float64, float64) {
	halfWidth := params.Width / 2
	halfHeight := params.Height / 2
	x := params.CenterX + float64(column-halfWidth)*params.ScaleFactor
	y := params.CenterY + float64(row-halfHeight)*params.ScaleFactor
	return x, y
}

func (m *Mandelbrot) allocate(params task.Parameters) (pixels *image.RGBA, err error) {
	if params.PixelCount() > m.settings.MaxPixels {
		return nil, errors.Annotatef(ErrResourceExhausted, "%dx%d exceeds the budget of %d pixels", params.Width, params.Height, m.settings.MaxPixels)
	}

	defer func() {
		if r := recover(); r != nil {
			pixels = nil
			err = errors.Annotatef(ErrResourceExhausted, "allocating %dx%d: %v", params.Width, params.Height, r)
		}
	}()
	return image.NewRGBA(image.Rect(0, 0, params.Width, params.Height)), nil
}

func setPixel(pix []uint8, c color.RGBA) {
	pix[0] = c.R
	pix[1] = c.G
	pix[2] = c.B
	pix[3] = c.A
}
