package rpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/rpc"

	"github.com/BrugadaSyndrome/bslogger"
)

type HttpServer struct {
	address     string
	done        chan struct{}
	listener    net.Listener
	mux         *http.ServeMux
	object      interface{}
	server      *http.Server
	serviceName string

	Logger bslogger.Logger
	Name   string
}

func NewHttpServer(object interface{}, serviceName string, address string, name string) *HttpServer {
	return &HttpServer{
		address:     address,
		done:        make(chan struct{}),
		mux:         http.NewServeMux(),
		object:      object,
		serviceName: serviceName,
		Logger:      bslogger.NewLogger(name, bslogger.Normal, nil),
		Name:        name,
	}
}

func (hs *HttpServer) Run() error {
	handler := rpc.NewServer()
	err := handler.RegisterName(hs.serviceName, hs.object)
	if err != nil {
		hs.Logger.Errorf("Registering %s", hs.serviceName)
		return err
	}

	// Mount on this server's own mux so several servers can live in one process
	// https://github.com/golang/go/issues/13395
	hs.mux.Handle(rpc.DefaultRPCPath, handler)

	// Make a new listener for this object
	hs.listener, err = net.Listen("tcp", hs.address)
	if err != nil {
		hs.Logger.Errorf("Listening at address %s", hs.address)
		return err
	}

	// Start the server until a stop signal is received
	hs.server = &http.Server{Addr: hs.address, Handler: hs.mux}
	go func() {
		defer close(hs.done)
		if err := hs.server.Serve(hs.listener); !errors.Is(err, http.ErrServerClosed) {
			hs.Logger.Errorf("Error serving at address %s: %s", hs.Address(), err)
		}
	}()

	hs.Logger.Infof("Running server at address %s", hs.Address())
	return nil
}

func (hs *HttpServer) Address() string {
	if hs.listener == nil {
		return hs.address
	}
	return hs.listener.Addr().String()
}

func (hs *HttpServer) Stop() error {
	if hs.server == nil {
		return errors.New("server is not running")
	}
	if err := hs.server.Shutdown(context.Background()); err != nil {
		hs.Logger.Errorf("Shutting down server at address %s", hs.Address())
		return err
	}
	<-hs.done
	hs.Logger.Infof("Shut down server at address %s", hs.Address())
	return nil
}
