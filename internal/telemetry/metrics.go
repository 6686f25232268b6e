package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/dmitrijs2005/biblio/internal/client/gateway"
	"github.com/dmitrijs2005/biblio/internal/logging"
)

// MetricsServer serves /metrics for the gateway collectors.
type MetricsServer struct {
	addr     string
	logger   logging.Logger
	registry *prometheus.Registry

	mu       sync.Mutex
	listener net.Listener
	srv      *http.Server
}

// NewMetricsServer builds a server for addr with its own registry.
func NewMetricsServer(addr string, logger logging.Logger) *MetricsServer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gateway.RegisterMetrics(reg)

	return &MetricsServer{addr: addr, logger: logger, registry: reg}
}

// Registry exposes the server's registry.
func (s *MetricsServer) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the HTTP handler serving the registry.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return oops.In("telemetry").Code("ALREADY_RUNNING").Errorf("metrics server already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return oops.In("telemetry").Code("LISTEN").With("addr", s.addr).Wrapf(err, "listen")
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	s.listener = ln
	s.srv = srv

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(ctx, s.logger, "metrics server stopped", err)
		}
	}()

	s.logger.Info(ctx, "metrics server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server. It is a no-op when the server never started.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return oops.In("telemetry").Code("SHUTDOWN").Wrapf(err, "shutdown metrics server")
	}
	return nil
}
