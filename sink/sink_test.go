package sink

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/juju/errors"
)

func testImage(pass int, final bool) task.Image {
	params := task.Parameters{CenterX: -0.5, ScaleFactor: 0.01, Width: 4, Height: 3}
	return task.Image{
		Parameters:      params,
		Pixels:          image.NewRGBA(image.Rect(0, 0, params.Width, params.Height)),
		ScaleFactorUsed: params.ScaleFactor,
		Pass:            pass,
		Final:           final,
	}
}

func TestChannelDropsOldest(t *testing.T) {
	c := NewChannel(2)
	for pass := 0; pass < 5; pass++ {
		c.ImageReady(testImage(pass, false))
	}

	if c.Dropped() != 3 {
		t.Fatalf("dropped %d images, want 3", c.Dropped())
	}
	first := <-c.Images()
	second := <-c.Images()
	if first.Pass != 3 || second.Pass != 4 {
		t.Errorf("kept passes %d and %d, want 3 and 4", first.Pass, second.Pass)
	}
}

func TestChannelFailures(t *testing.T) {
	c := NewChannel(0)
	c.PassFailed(task.Failure{Pass: 1, Err: errors.New("first")})
	c.PassFailed(task.Failure{Pass: 2, Err: errors.New("second")})

	failure := <-c.Failures()
	if failure.Pass != 2 {
		t.Errorf("got failure of pass %d, want 2", failure.Pass)
	}
	if c.Dropped() != 1 {
		t.Errorf("dropped %d, want 1", c.Dropped())
	}
}

func TestLatest(t *testing.T) {
	l := NewLatest()
	if _, ok := l.Image(); ok {
		t.Fatal("empty sink reported an image")
	}

	l.ImageReady(testImage(0, false))
	l.ImageReady(testImage(1, true))

	select {
	case <-l.Updated():
	default:
		t.Fatal("no update notification")
	}
	select {
	case <-l.Updated():
		t.Fatal("two arrivals produced two notifications")
	default:
	}

	img, ok := l.Image()
	if !ok || img.Pass != 1 || !img.Final {
		t.Errorf("latest image is pass %d final %t, want the final pass 1", img.Pass, img.Final)
	}

	l.PassFailed(task.Failure{Pass: 0, Err: errors.New("boom")})
	if failure, ok := l.Failure(); !ok || failure.Err == nil {
		t.Error("failure was not kept")
	}
	if _, ok := l.Image(); !ok {
		t.Error("a failure must not clear the latest image")
	}
}

func TestMultiAndFuncs(t *testing.T) {
	var images, failures int
	counter := Funcs{
		OnImage:   func(task.Image) { images++ },
		OnFailure: func(task.Failure) { failures++ },
	}
	latest := NewLatest()
	m := Multi{counter, latest, Funcs{}}

	m.ImageReady(testImage(0, true))
	m.PassFailed(task.Failure{})

	if images != 1 || failures != 1 {
		t.Errorf("counted %d images and %d failures, want 1 and 1", images, failures)
	}
	if _, ok := latest.Image(); !ok {
		t.Error("second sink did not receive the image")
	}
}

func TestFileWritesFinalImages(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "frames")
	f, err := NewFile(directory, "png", bslogger.NewLogger("FileTest", bslogger.Normal, nil))
	if err != nil {
		t.Fatal(err)
	}

	f.ImageReady(testImage(0, false))
	f.ImageReady(testImage(1, true))
	f.ImageReady(testImage(1, true))
	if err = f.Close(); err != nil {
		t.Fatal(err)
	}
	// late images are ignored
	f.ImageReady(testImage(1, true))

	if f.Written() != 2 {
		t.Fatalf("wrote %d files, want 2", f.Written())
	}
	for _, name := range []string{"00000.png", "00001.png"} {
		if _, err = os.Stat(filepath.Join(directory, name)); err != nil {
			t.Errorf("missing %s: %s", name, err)
		}
	}
	if _, err = os.Stat(filepath.Join(directory, "00002.png")); !os.IsNotExist(err) {
		t.Error("preview pass was written")
	}
}

func TestFileAllPasses(t *testing.T) {
	f, err := NewFile(t.TempDir(), "jpeg", bslogger.NewLogger("FileTest", bslogger.Normal, nil))
	if err != nil {
		t.Fatal(err)
	}
	f.AllPasses = true

	f.ImageReady(testImage(0, false))
	f.ImageReady(testImage(1, true))
	if err = f.Close(); err != nil {
		t.Fatal(err)
	}
	if err = f.Close(); err != nil {
		t.Fatal("second close:", err)
	}
	if f.Written() != 2 {
		t.Errorf("wrote %d files, want 2", f.Written())
	}
}
