package viewer

import (
	"context"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"MandelbrotRenderer/controller"
	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/gdamore/tcell/v2"
)

// gradientImage colors pixel (x, y) with R = x and G = y
func gradientImage(params task.Parameters) task.Image {
	pixels := image.NewRGBA(image.Rect(0, 0, params.Width, params.Height))
	for y := 0; y < params.Height; y++ {
		for x := 0; x < params.Width; x++ {
			pixels.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return task.Image{Parameters: params, Pixels: pixels, ScaleFactorUsed: params.ScaleFactor, Final: true}
}

func TestSampleSameView(t *testing.T) {
	params := task.Parameters{CenterX: -0.5, CenterY: 0.25, ScaleFactor: 0.01, Width: 40, Height: 30}
	img := gradientImage(params)

	for _, point := range [][2]int{{0, 0}, {39, 29}, {20, 15}, {7, 22}} {
		c, ok := Sample(img, params, point[0], point[1])
		if !ok || int(c.R) != point[0] || int(c.G) != point[1] {
			t.Errorf("Sample at %v = %v %t", point, c, ok)
		}
	}
}

func TestSampleMovedAndZoomedView(t *testing.T) {
	params := task.Parameters{CenterX: 0, CenterY: 0, ScaleFactor: 0.01, Width: 40, Height: 30}
	img := gradientImage(params)

	// scrolled right by 5 pixels, pixel 10 of the view is pixel 15 of the image
	moved := params.Scrolled(5, 0)
	if c, ok := Sample(img, moved, 10, 15); !ok || c.R != 15 || c.G != 15 {
		t.Errorf("moved view samples %v %t", c, ok)
	}
	if _, ok := Sample(img, moved, 39, 15); ok {
		t.Error("pixel that scrolled in from outside has a color")
	}

	// zoomed in by two around the center, view pixel 30 lies halfway between image pixel 20 and the right edge
	zoomed := params.Zoomed(0.5)
	if c, ok := Sample(img, zoomed, 30, 15); !ok || c.R != 25 || c.G != 15 {
		t.Errorf("zoomed view samples %v %t", c, ok)
	}

	if _, ok := Sample(task.Image{}, params, 0, 0); ok {
		t.Error("empty image has a color")
	}
}

func TestCellColors(t *testing.T) {
	params := task.Parameters{ScaleFactor: 0.01, Width: 10, Height: 8}
	img := gradientImage(params)

	top, bottom := cellColors(img, params, 3, 2)
	if top.R != 3 || top.G != 4 || bottom.R != 3 || bottom.G != 5 {
		t.Errorf("cell (3, 2) colors %v and %v", top, bottom)
	}
}

type recordingSubmitter struct {
	mutex     sync.Mutex
	submitted []task.Parameters
}

func (r *recordingSubmitter) Submit(params task.Parameters) error {
	if err := params.Verify(); err != nil {
		return err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.submitted = append(r.submitted, params)
	return nil
}

type fakeScreen struct {
	mutex   sync.Mutex
	cells   map[[2]int]rune
	columns int
	events  chan tcell.Event
	rows    int
	shown   int
}

func newFakeScreen(columns int, rows int) *fakeScreen {
	return &fakeScreen{
		cells:   make(map[[2]int]rune),
		columns: columns,
		events:  make(chan tcell.Event),
		rows:    rows,
	}
}

func (s *fakeScreen) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cells = make(map[[2]int]rune)
}

func (s *fakeScreen) PollEvent() tcell.Event {
	return <-s.events
}

func (s *fakeScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cells[[2]int{x, y}] = primary
}

func (s *fakeScreen) Show() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.shown++
}

func (s *fakeScreen) Size() (int, int) {
	return s.columns, s.rows
}

func (s *fakeScreen) line(row int) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var builder strings.Builder
	for column := 0; column < s.columns; column++ {
		builder.WriteRune(s.cells[[2]int{column, row}])
	}
	return builder.String()
}

func (s *fakeScreen) showCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.shown
}

func newTestTerminal(screen *fakeScreen) (*Terminal, *recordingSubmitter, chan task.Image) {
	submitter := &recordingSubmitter{}
	ctrl := controller.NewController(controller.ViewSettings{ScaleFactor: 0.01}, submitter)
	images := make(chan task.Image)
	terminal := NewTerminal(screen, ctrl, images, make(chan task.Failure), bslogger.NewLogger("TerminalTest", bslogger.Normal, nil))
	return terminal, submitter, images
}

func TestTerminalKeys(t *testing.T) {
	terminal, submitter, _ := newTestTerminal(newFakeScreen(80, 25))
	terminal.resize()

	view := terminal.controller.Parameters()
	if view.Width != 80 || view.Height != 48 {
		t.Fatalf("terminal renders %dx%d, want 80x48", view.Width, view.Height)
	}

	keys := []struct {
		key tcell.Key
		r   rune
	}{
		{tcell.KeyLeft, 0},
		{tcell.KeyDown, 0},
		{tcell.KeyRune, '+'},
		{tcell.KeyRune, '-'},
		{tcell.KeyRune, 'r'},
		{tcell.KeyRune, 'x'},
	}
	for _, k := range keys {
		if !terminal.handleKey(k.key, k.r) {
			t.Fatalf("key %v %q closed the viewer", k.key, k.r)
		}
	}
	if len(submitter.submitted) != 6 {
		t.Errorf("%d requests submitted, want 6", len(submitter.submitted))
	}
	view = terminal.controller.Parameters()
	if math.Abs(view.CenterX+0.2) > 1e-12 || math.Abs(view.CenterY-0.2) > 1e-12 {
		t.Errorf("center (%g, %g) after moving left and down, want (-0.2, 0.2)", view.CenterX, view.CenterY)
	}

	for _, k := range []tcell.Key{tcell.KeyEscape, tcell.KeyCtrlC} {
		if terminal.handleKey(k, 0) {
			t.Errorf("key %v did not close the viewer", k)
		}
	}
	if terminal.handleKey(tcell.KeyRune, 'q') {
		t.Error("q did not close the viewer")
	}
}

func TestTerminalDrawsImages(t *testing.T) {
	screen := newFakeScreen(80, 6)
	terminal, submitter, images := newTestTerminal(screen)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() {
		stopped <- terminal.Run(ctx)
	}()

	img := gradientImage(task.Parameters{ScaleFactor: 0.01, Width: 80, Height: 10})
	img.MaxIterations = 321
	images <- img

	deadline := time.Now().Add(5 * time.Second)
	for screen.showCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("nothing drawn")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-stopped; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}

	if line := screen.line(0); line != strings.Repeat("▀", 80) {
		t.Errorf("first row %q", line)
	}
	if status := screen.line(5); !strings.Contains(status, "321 iterations") {
		t.Errorf("status line %q", status)
	}
	if len(submitter.submitted) != 1 || submitter.submitted[0].Height != 10 {
		t.Errorf("initial request %v", submitter.submitted)
	}
	close(screen.events)
}

func TestToneStaysInRange(t *testing.T) {
	tone := newTone(sampleRate, 440, 0.2)
	samples := make([][2]float64, 4800)
	n, ok := tone.Stream(samples)
	if n != len(samples) || !ok {
		t.Fatalf("Stream() = %d, %t", n, ok)
	}
	if samples[0][0] != 0 {
		t.Errorf("tone does not fade in, first sample %g", samples[0][0])
	}
	for i, sample := range samples {
		if math.Abs(sample[0]) > 0.2 || sample[0] != sample[1] {
			t.Fatalf("sample %d = %v", i, sample)
		}
	}
}

func TestSoundWithoutSpeaker(t *testing.T) {
	s := NewSound()
	s.Chime()
	s.Buzz()
	s.Close()
}
