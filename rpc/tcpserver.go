package rpc

import (
	"errors"
	"net"
	"net/rpc"
	"sync"
	"time"

	"github.com/BrugadaSyndrome/bslogger"
)

type TcpServer struct {
	address     string
	done        chan struct{}
	listener    *net.TCPListener
	object      interface{}
	serviceName string
	shutdown    chan bool
	stopOnce    sync.Once

	Logger bslogger.Logger
	Name   string
}

// NewTcpServer serves the exported methods of object under serviceName once Run is called
func NewTcpServer(object interface{}, serviceName string, address string, name string) *TcpServer {
	return &TcpServer{
		address:     address,
		done:        make(chan struct{}),
		object:      object,
		serviceName: serviceName,
		shutdown:    make(chan bool, 1),
		Logger:      bslogger.NewLogger(name, bslogger.Normal, nil),
		Name:        name,
	}
}

func (ts *TcpServer) Run() error {
	handler := rpc.NewServer()
	err := handler.RegisterName(ts.serviceName, ts.object)
	if err != nil {
		ts.Logger.Errorf("Registering %s", ts.serviceName)
		return err
	}

	tcpAddress, err := net.ResolveTCPAddr("tcp", ts.address)
	if err != nil {
		ts.Logger.Errorf("Resolving tcp address %s", ts.address)
		return err
	}

	ts.listener, err = net.ListenTCP("tcp", tcpAddress)
	if err != nil {
		ts.Logger.Errorf("Listening at address %s", ts.address)
		return err
	}

	go func() {
		defer close(ts.done)
		for {
			select {
			case <-ts.shutdown:
				// Server has been give the signal to shutdown
				err := ts.listener.Close()
				if err != nil {
					ts.Logger.Infof("Server closed connection to client - %s", err)
				}
				return
			default:
				// Poll this connection periodically
				_ = ts.listener.SetDeadline(time.Now().Add(250 * time.Millisecond))
			}

			conn, err := ts.listener.Accept()
			if err != nil {
				var netErr net.Error
				if errors.As(err, &netErr) && netErr.Timeout() {
					// Deadline timeout has occurred
					continue
				}
				// There was actually an error listening
				ts.Logger.Warningf("Accepting connection at address %s - %s", ts.Address(), err.Error())
				continue
			}

			ts.Logger.Infof("Server opened connection to client at address %s", conn.RemoteAddr())
			go handler.ServeConn(conn)
		}
	}()

	ts.Logger.Infof("Running server at address %s", ts.Address())
	return nil
}

// Address is the address the server listens on, with the real port when it was started on port 0
func (ts *TcpServer) Address() string {
	if ts.listener == nil {
		return ts.address
	}
	return ts.listener.Addr().String()
}

// Stop closes the listener and waits for the accept loop to exit. Open connections are served until the client hangs up.
func (ts *TcpServer) Stop() error {
	if ts.listener == nil {
		return errors.New("server is not running")
	}
	ts.stopOnce.Do(func() {
		ts.Logger.Infof("Shutting down server at address %s", ts.Address())
		close(ts.shutdown)
	})
	<-ts.done
	return nil
}
