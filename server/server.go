package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/influxdata/snsalert/alert"
	"github.com/influxdata/snsalert/keyvalue"
	"github.com/influxdata/snsalert/services/diagnostic"
	"github.com/influxdata/snsalert/services/sns"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
)

// SNSCallbackID is the registry ID of the callback built from the [sns] section.
const SNSCallbackID = "sns"

const shutdownTimeout = 5 * time.Second

type Diagnostic interface {
	Error(msg string, err error, ctx ...keyvalue.T)
	Info(msg string, ctx ...keyvalue.T)
	RegisteredCallback(id, name string)
	Listening(addr string)
}

// BuildInfo represents the build details for the server code.
type BuildInfo struct {
	Version string
	Commit  string
	Branch  string
}

// Server owns the registered alarm callbacks and hands every triggered
// check result to each of them.
type Server struct {
	config    *Config
	BuildInfo BuildInfo
	// ServerID identifies this process in /ping responses and logs.
	ServerID uuid.UUID

	DiagService *diagnostic.Service
	diag        Diagnostic

	Registry   *alert.Registry
	SNSService *sns.Service

	metrics *prometheus.Registry

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
	served   chan struct{}
}

// New returns a new instance of Server built from a config.
// The options are passed to the SNS service.
func New(c *Config, buildInfo BuildInfo, diagService *diagnostic.Service, opts ...sns.Option) (*Server, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	s := &Server{
		config:      c,
		BuildInfo:   buildInfo,
		ServerID:    uuid.New(),
		DiagService: diagService,
		diag:        diagService.NewServerHandler(),
		Registry:    alert.NewRegistry(),
		metrics:     prometheus.NewRegistry(),
	}
	if err := s.metrics.Register(sns.PublishTotal); err != nil {
		return nil, errors.Wrap(err, "failed to register sns metrics")
	}

	if c.SNS.Enabled {
		if err := s.appendSNSCallback(opts...); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) appendSNSCallback(opts ...sns.Option) error {
	cb := sns.NewAlarmCallback(s.DiagService.NewSNSHandler(), opts...)
	if err := cb.Initialize(s.config.SNS.Configuration()); err != nil {
		return errors.Wrap(err, "failed to initialize sns callback")
	}
	if err := cb.CheckConfiguration(); err != nil {
		return errors.Wrap(err, "invalid sns configuration")
	}
	s.SNSService = cb.Service()
	s.Registry.Register(SNSCallbackID, cb)
	s.diag.RegisteredCallback(SNSCallbackID, cb.Name())
	return nil
}

// Trigger calls every registered callback with result. A failing callback
// does not prevent the others from being called; all failures are returned.
func (s *Server) Trigger(stream alert.Stream, result alert.CheckResult) error {
	var err error
	for _, id := range s.Registry.Match("") {
		cb, ok := s.Registry.Callback(id)
		if !ok {
			continue
		}
		if cerr := cb.Call(stream, result); cerr != nil {
			s.diag.Error("alarm callback failed", cerr,
				keyvalue.KV("callback", id),
				keyvalue.KV("stream", stream.ID),
			)
			err = multierr.Append(err, errors.Wrapf(cerr, "callback %s", id))
		}
	}
	return err
}

// Open starts the SNS service and, if enabled, the HTTP listener.
func (s *Server) Open() error {
	if s.SNSService != nil {
		if err := s.SNSService.Open(); err != nil {
			return errors.Wrap(err, "open sns service")
		}
	}
	if !s.config.HTTP.Enabled {
		return nil
	}

	l, err := net.Listen("tcp", s.config.HTTP.BindAddress)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.config.HTTP.BindAddress)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Snsalert-Version", s.BuildInfo.Version)
		w.Header().Set("X-Snsalert-Server-Id", s.ServerID.String())
		w.WriteHeader(http.StatusNoContent)
	})

	s.mu.Lock()
	s.listener = l
	s.http = &http.Server{Handler: mux}
	s.served = make(chan struct{})
	srv, served := s.http, s.served
	s.mu.Unlock()

	go func() {
		defer close(served)
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			s.diag.Error("http server stopped", err)
		}
	}()
	s.diag.Listening(l.Addr().String())
	s.diag.Info("server started", keyvalue.KV("server_id", s.ServerID.String()))
	return nil
}

// Addr returns the address of the HTTP listener, or "" when it is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Close() error {
	var err error

	s.mu.Lock()
	srv, served := s.http, s.served
	s.http, s.listener, s.served = nil, nil, nil
	s.mu.Unlock()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = multierr.Append(err, srv.Shutdown(ctx))
		<-served
	}
	if s.SNSService != nil {
		err = multierr.Append(err, s.SNSService.Close())
	}
	return err
}
