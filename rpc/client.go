package rpc

import (
	"bytes"
	"context"
	"time"

	"MandelbrotRenderer/coordinator"
	"MandelbrotRenderer/mandelbrot"
	"MandelbrotRenderer/misc"
	"MandelbrotRenderer/sink"
	"MandelbrotRenderer/task"

	"github.com/juju/errors"
)

type Client interface {
	Connect() error
	Call(method string, request interface{}, reply interface{}) error
	Disconnect() error
}

type Server interface {
	Run() error
	Address() string
	Stop() error
}

// NewServer picks the server type for transport, either coordinator.TransportTcp or coordinator.TransportHttp
func NewServer(transport string, object interface{}, serviceName string, address string, name string) (Server, error) {
	switch transport {
	case coordinator.TransportTcp:
		return NewTcpServer(object, serviceName, address, name), nil
	case coordinator.TransportHttp:
		return NewHttpServer(object, serviceName, address, name), nil
	}
	return nil, errors.Errorf("unknown transport %q", transport)
}

func NewClient(transport string, serverAddress string, name string) (Client, error) {
	switch transport {
	case coordinator.TransportTcp:
		return NewTcpClient(serverAddress, name), nil
	case coordinator.TransportHttp:
		return NewHttpClient(serverAddress, name), nil
	}
	return nil, errors.Errorf("unknown transport %q", transport)
}

// RenderClient talks to a remote coordinator.RenderService. It satisfies controller.Submitter so a viewer can
// drive a renderer in another process.
type RenderClient struct {
	client Client
}

func NewRenderClient(client Client) *RenderClient {
	return &RenderClient{client: client}
}

func (rc *RenderClient) method(name string) string {
	return coordinator.ServiceName + "." + name
}

func (rc *RenderClient) Submit(params task.Parameters) error {
	var nothing misc.Nothing
	return rc.client.Call(rc.method("Submit"), params, &nothing)
}

func (rc *RenderClient) Latest() (task.Frame, error) {
	var frame task.Frame
	err := rc.client.Call(rc.method("Latest"), misc.Nothing(false), &frame)
	return frame, err
}

func (rc *RenderClient) Stats() (coordinator.Stats, error) {
	var stats coordinator.Stats
	err := rc.client.Call(rc.method("Stats"), misc.Nothing(false), &stats)
	return stats, err
}

func (rc *RenderClient) MandelbrotSettings() (mandelbrot.Settings, error) {
	var settings mandelbrot.Settings
	err := rc.client.Call(rc.method("GetMandelbrotSettings"), misc.Nothing(false), &settings)
	return settings, err
}

func (rc *RenderClient) RollCall() error {
	var present bool
	if err := rc.client.Call(rc.method("RollCall"), misc.Nothing(false), &present); err != nil {
		return err
	}
	if !present {
		return errors.New("renderer did not answer roll call")
	}
	return nil
}

// Follow polls Latest every interval and hands each new image to target until ctx is done
func (rc *RenderClient) Follow(ctx context.Context, interval time.Duration, target sink.Sink) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last task.Frame
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		frame, err := rc.Latest()
		if err != nil {
			// nothing rendered yet
			continue
		}
		if frame.Parameters == last.Parameters && frame.Pass == last.Pass && bytes.Equal(frame.PNG, last.PNG) {
			continue
		}
		last = frame

		img, err := frame.Image()
		if err != nil {
			target.PassFailed(task.Failure{Parameters: frame.Parameters, Pass: frame.Pass, Err: err})
			continue
		}
		target.ImageReady(img)
	}
}
