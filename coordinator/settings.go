package coordinator

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"MandelbrotRenderer/controller"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/misc"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/juju/errors"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
)

const (
	TransportTcp  = "tcp"
	TransportHttp = "http"
)

type Settings struct {
	logger bslogger.Logger

	GenerateMovie      bool                            `koanf:"generate_movie"`
	Heartbeat          time.Duration                   `koanf:"heartbeat"`
	ImageFormat        string                          `koanf:"image_format"`
	MandelbrotSettings mandelbrot.Settings             `koanf:"mandelbrot"`
	RunName            string                          `koanf:"run_name"`
	SavePath           string                          `koanf:"save_path"`
	ServerAddress      string                          `koanf:"server_address"`
	Transitions        []controller.TransitionSettings `koanf:"transitions"`
	Transport          string                          `koanf:"transport"`
	View               controller.ViewSettings         `koanf:"view"`
}

var defaults = map[string]interface{}{
	"heartbeat":    "10s",
	"image_format": "png",
	"transport":    TransportTcp,
}

// LoadSettings reads a toml or json settings file on top of the built in defaults. An empty path yields the defaults.
func LoadSettings(settingsFile string) (Settings, error) {
	s := Settings{
		logger: bslogger.NewLogger("CoordinatorSettings", bslogger.Normal, nil),
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return s, errors.Annotate(err, "loading default settings")
	}
	if settingsFile != "" {
		parser, err := parserFor(settingsFile)
		if err != nil {
			return s, err
		}
		if err := k.Load(file.Provider(settingsFile), parser); err != nil {
			return s, errors.Annotatef(err, "loading settings file %q", settingsFile)
		}
	}
	if err := k.Unmarshal("", &s); err != nil {
		return s, errors.Annotatef(err, "decoding settings file %q", settingsFile)
	}
	if err := s.Verify(); err != nil {
		return s, err
	}
	s.logger.Debug(s.String())
	return s, nil
}

func parserFor(settingsFile string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(settingsFile)) {
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	}
	return nil, errors.Errorf("unsupported settings file type %q", filepath.Ext(settingsFile))
}

func (s *Settings) String() string {
	output := "\nCoordinator settings\n"
	output += fmt.Sprintf("Generate Movie: %t\n", s.GenerateMovie)
	output += fmt.Sprintf("Heartbeat: %s\n", s.Heartbeat)
	output += fmt.Sprintf("Image Format: %s\n", s.ImageFormat)
	output += fmt.Sprintf("Run Name: %s\n", s.RunName)
	output += fmt.Sprintf("Save Path: %s\n", s.SavePath)
	output += fmt.Sprintf("Server Address: %s\n", s.ServerAddress)
	output += fmt.Sprintf("Transitions: %d\n", len(s.Transitions))
	output += fmt.Sprintf("Transport: %s\n", s.Transport)
	output += s.View.String()
	output += s.MandelbrotSettings.String()
	return output
}

func (s *Settings) Verify() error {
	if err := s.MandelbrotSettings.Verify(); err != nil {
		return errors.Annotate(err, "verifying mandelbrot settings")
	}
	if err := s.View.Verify(); err != nil {
		return errors.Annotate(err, "verifying view settings")
	}
	if s.Heartbeat <= 0 {
		s.Heartbeat = 10 * time.Second
	}
	switch strings.ToLower(s.ImageFormat) {
	case "png", "jpeg", "jpg":
		s.ImageFormat = strings.ToLower(s.ImageFormat)
	default:
		s.ImageFormat = "png"
	}
	if s.RunName == "" {
		s.RunName = "run_" + time.Now().Format("2006_01_02-03_04_05")
	}
	if s.SavePath == "" {
		s.SavePath, _ = os.Getwd()
	}
	if s.ServerAddress == "" {
		address, err := misc.GetLocalAddress()
		if err != nil {
			address = "127.0.0.1"
		}
		s.ServerAddress = fmt.Sprintf("%s:%s", address, "51000")
	}
	if s.Transport != TransportTcp && s.Transport != TransportHttp {
		return errors.Errorf("unknown transport %q", s.Transport)
	}

	for i := range s.Transitions {
		misc.CheckError(s.Transitions[i].Verify(), s.logger, misc.Warning)
	}

	// If generate movie is set to true, verify ffmpeg is setup
	if s.GenerateMovie {
		cmd := exec.Command("ffmpeg", "-version")
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		misc.CheckError(cmd.Run(), s.logger, misc.Warning)
		if !bytes.Contains(stdout.Bytes(), []byte(`ffmpeg version`)) {
			s.GenerateMovie = false
			s.logger.Info("Ffmpeg is not installed. Disabling GenerateMovie.")
		}
	}

	return nil
}

// RunDirectory is where the images and the log of this run are stored
func (s *Settings) RunDirectory() string {
	return filepath.Join(s.SavePath, s.RunName)
}

// PrepareRun creates the run directory, keeps a copy of the settings file in it and opens the run log
func (s *Settings) PrepareRun(settingsFile string) (*os.File, error) {
	if err := misc.EnsureDirectory(s.RunDirectory()); err != nil {
		return nil, errors.Annotatef(err, "creating run directory %s", s.RunDirectory())
	}
	if settingsFile != "" {
		if err := misc.CopyFile(settingsFile, s.RunDirectory()); err != nil {
			return nil, errors.Annotate(err, "copying settings file")
		}
	}
	logFile, err := os.OpenFile(filepath.Join(s.RunDirectory(), "renderer.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Annotate(err, "opening run log")
	}
	return logFile, nil
}
