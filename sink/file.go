package sink

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"

	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/task"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/juju/errors"
)

const fileQueueSize = 64

// File writes images to numbered files in a directory on its own goroutine. Only final passes are written unless
// AllPasses is set before the first image arrives. ImageReady blocks while the queue is full so no final image is lost.
type File struct {
	AllPasses bool

	directory string
	format    string
	logger    bslogger.Logger
	queue     chan task.Image
	wait      sync.WaitGroup
	written   atomic.Int64

	mutex  sync.Mutex
	closed bool
}

func NewFile(directory string, format string, logger bslogger.Logger) (*File, error) {
	if err := misc.EnsureDirectory(directory); err != nil {
		return nil, err
	}
	f := &File{
		directory: directory,
		format:    format,
		logger:    logger,
		queue:     make(chan task.Image, fileQueueSize),
	}
	f.wait.Add(1)
	go f.writeImages()
	return f, nil
}

func (f *File) ImageReady(image task.Image) {
	if !image.Final && !f.AllPasses {
		return
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.closed {
		return
	}
	f.queue <- image
}

func (f *File) PassFailed(failure task.Failure) {
	f.logger.Warningf("Not saving %s", failure.String())
}

func (f *File) writeImages() {
	defer f.wait.Done()

	for image := range f.queue {
		contents, err := misc.EncodeImage(image.Pixels, f.format)
		if misc.CheckError(err, f.logger, misc.Warning) {
			continue
		}

		name := filepath.Join(f.directory, fmt.Sprintf("%05d.%s", f.written.Load(), f.format))
		if _, err = misc.WriteFile(name, contents); misc.CheckError(err, f.logger, misc.Warning) {
			continue
		}
		f.written.Add(1)
		f.logger.Debugf("Saved %s", name)
	}
}

// Written is the number of files written so far
func (f *File) Written() int {
	return int(f.written.Load())
}

// Close stops accepting images and waits until the queued ones are on disk
func (f *File) Close() error {
	f.mutex.Lock()
	if f.closed {
		f.mutex.Unlock()
		return nil
	}
	f.closed = true
	close(f.queue)
	f.mutex.Unlock()

	f.wait.Wait()
	return nil
}

// GenerateMovie stitches the written files into movie.mp4 with ffmpeg. Call it after Close.
func (f *File) GenerateMovie(frameRate int) error {
	if frameRate <= 0 {
		frameRate = 24
	}
	movie := filepath.Join(f.directory, "movie.mp4")
	cmd := exec.Command("ffmpeg", "-y",
		"-framerate", fmt.Sprint(frameRate),
		"-i", filepath.Join(f.directory, "%05d."+f.format),
		"-pix_fmt", "yuv420p",
		movie)
	if output, err := cmd.CombinedOutput(); err != nil {
		return errors.Annotatef(err, "running ffmpeg: %s", output)
	}
	f.logger.Infof("Generated %s", movie)
	return nil
}
