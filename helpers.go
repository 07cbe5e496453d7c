package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"MandelbrotRenderer/controller"
	"MandelbrotRenderer/coordinator"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/rpc"
	"MandelbrotRenderer/sink"
	"MandelbrotRenderer/task"
	"MandelbrotRenderer/viewer"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/gdamore/tcell/v2"
	"github.com/juju/errors"
)

const (
	followInterval = 100 * time.Millisecond
	movieFrameRate = 24
)

func parseArguments() {
	flag.StringVar(&mode, "mode", modeWindow, "What to run: zoom, serve, client, window or terminal")
	flag.StringVar(&serverAddress, "serverAddress", "", "Address the render service listens on or the client connects to, overrides the settings file")
	flag.StringVar(&settingsFile, "settingsFile", "", "Toml or json settings file, built in defaults when empty")
	flag.BoolVar(&sound, "sound", false, "Play a tone when an image is complete")
	flag.Parse()
}

// runZoom renders every frame of the configured transitions to the run directory
func runZoom(ctx context.Context, settings coordinator.Settings, logger bslogger.Logger) error {
	logFile, err := settings.PrepareRun(settingsFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger = bslogger.NewLogger("Coordinator", bslogger.Normal, logFile)

	files, err := sink.NewFile(settings.RunDirectory(), settings.ImageFormat, logger)
	if err != nil {
		return err
	}
	frames := sink.NewChannel(4)
	c, err := coordinator.NewCoordinator(settings.MandelbrotSettings, sink.Multi{files, frames}, coordinator.WithLogger(logger))
	if err != nil {
		return err
	}
	go c.Heartbeat(ctx, settings.Heartbeat)

	animation := controller.NewAnimation(settings.View, settings.Transitions, c, logger)
	animation.AwaitFrame = awaitFrame(frames)
	count, err := animation.Run(ctx)

	c.Shutdown()
	misc.CheckError(files.Close(), logger, misc.Warning)
	logger.Infof("Rendered %d frames, saved %d images to %s", count, files.Written(), settings.RunDirectory())
	if err != nil {
		return err
	}

	if settings.GenerateMovie {
		return files.GenerateMovie(movieFrameRate)
	}
	return nil
}

// awaitFrame waits for the final image or the failure of params. A frame identical to the one before is never
// rendered twice so it returns right away.
func awaitFrame(frames *sink.Channel) func(ctx context.Context, params task.Parameters) error {
	var finished task.Parameters
	return func(ctx context.Context, params task.Parameters) error {
		if params == finished {
			return nil
		}
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case img := <-frames.Images():
				if img.Final && img.Parameters == params {
					finished = params
					return nil
				}
			case failure := <-frames.Failures():
				if failure.Parameters == params {
					return failure.Err
				}
			}
		}
	}
}

// runServe renders on behalf of remote viewers until interrupted
func runServe(ctx context.Context, settings coordinator.Settings, logger bslogger.Logger) error {
	latest := sink.NewLatest()
	c, err := coordinator.NewCoordinator(settings.MandelbrotSettings, latest, coordinator.WithLogger(logger))
	if err != nil {
		return err
	}
	defer c.Shutdown()
	go c.Heartbeat(ctx, settings.Heartbeat)

	service := coordinator.NewRenderService(c, latest, settings.MandelbrotSettings)
	server, err := rpc.NewServer(settings.Transport, service, coordinator.ServiceName, settings.ServerAddress, "RenderServer")
	if err != nil {
		return err
	}
	if err = server.Run(); err != nil {
		return err
	}
	defer func() {
		misc.CheckError(server.Stop(), logger, misc.Warning)
	}()

	misc.CheckError(c.Submit(settings.View.Parameters()), logger, misc.Warning)
	<-ctx.Done()
	return nil
}

// runClient drives a remote renderer from the terminal
func runClient(ctx context.Context, settings coordinator.Settings, logger bslogger.Logger) error {
	client, err := rpc.NewClient(settings.Transport, settings.ServerAddress, "RenderClient")
	if err != nil {
		return err
	}
	if err = client.Connect(); err != nil {
		return err
	}
	defer func() {
		misc.CheckError(client.Disconnect(), logger, misc.Warning)
	}()

	renderer := rpc.NewRenderClient(client)
	if err = renderer.RollCall(); err != nil {
		return errors.Annotatef(err, "renderer at %s", settings.ServerAddress)
	}

	results := sink.NewChannel(2)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = renderer.Follow(ctx, followInterval, results)
	}()

	return showInTerminal(ctx, settings, controller.NewController(settings.View, renderer), results, logger)
}

func runTerminal(ctx context.Context, settings coordinator.Settings, logger bslogger.Logger) error {
	results := sink.NewChannel(2)
	c, err := coordinator.NewCoordinator(settings.MandelbrotSettings, results, coordinator.WithLogger(logger))
	if err != nil {
		return err
	}
	defer c.Shutdown()

	return showInTerminal(ctx, settings, controller.NewController(settings.View, c), results, logger)
}

// showInTerminal runs the terminal viewer. Console logging would scribble over the screen, so while it is up the
// process output goes to the run log instead.
func showInTerminal(ctx context.Context, settings coordinator.Settings, ctrl *controller.Controller, results *sink.Channel, logger bslogger.Logger) error {
	logFile, err := settings.PrepareRun(settingsFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	stdout, stderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = logFile, logFile
	defer func() {
		os.Stdout, os.Stderr = stdout, stderr
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Annotate(err, "opening terminal")
	}
	if err = screen.Init(); err != nil {
		return errors.Annotate(err, "initializing terminal")
	}
	defer screen.Fini()

	terminal := viewer.NewTerminal(screen, ctrl, results.Images(), results.Failures(), logger)
	if s := newSound(logger); s != nil {
		defer s.Close()
		terminal.WithSound(s)
	}
	return terminal.Run(ctx)
}

func runWindow(ctx context.Context, settings coordinator.Settings, logger bslogger.Logger) error {
	results := sink.NewChannel(2)
	c, err := coordinator.NewCoordinator(settings.MandelbrotSettings, results, coordinator.WithLogger(logger))
	if err != nil {
		return err
	}
	defer c.Shutdown()
	go c.Heartbeat(ctx, settings.Heartbeat)

	title := fmt.Sprintf("Mandelbrot %s", settings.RunName)
	window := viewer.NewWindow(title, controller.NewController(settings.View, c), results.Images(), results.Failures(), logger)
	if s := newSound(logger); s != nil {
		defer s.Close()
		window.WithSound(s)
	}
	return window.Run()
}

// newSound returns nil when sound is off or there is no audio device
func newSound(logger bslogger.Logger) *viewer.Sound {
	if !sound {
		return nil
	}
	s := viewer.NewSound()
	if misc.CheckError(s.Initialize(), logger, misc.Warning) {
		return nil
	}
	return s
}
