package main

import (
	"context"
	"os"
	"os/signal"

	"MandelbrotRenderer/coordinator"
	"MandelbrotRenderer/misc"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/faiface/pixel/pixelgl"
)

const (
	modeZoom     = "zoom"
	modeServe    = "serve"
	modeClient   = "client"
	modeWindow   = "window"
	modeTerminal = "terminal"
)

var (
	mode, serverAddress, settingsFile string
	sound                             bool
)

func main() {
	parseArguments()
	logger := bslogger.NewLogger("Main", bslogger.Normal, nil)

	settings, err := coordinator.LoadSettings(settingsFile)
	misc.CheckError(err, logger, misc.Fatal)
	if serverAddress != "" {
		settings.ServerAddress = serverAddress
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch mode {
	case modeZoom:
		err = runZoom(ctx, settings, logger)
	case modeServe:
		err = runServe(ctx, settings, logger)
	case modeClient:
		err = runClient(ctx, settings, logger)
	case modeTerminal:
		err = runTerminal(ctx, settings, logger)
	case modeWindow:
		// the window has to live on the main thread
		pixelgl.Run(func() {
			err = runWindow(ctx, settings, logger)
		})
	default:
		logger.Fatalf("Unknown mode %q, expected one of zoom, serve, client, window or terminal", mode)
	}
	if err != nil && ctx.Err() == nil {
		misc.CheckError(err, logger, misc.Fatal)
	}
	logger.Info("Shutting down")
}
