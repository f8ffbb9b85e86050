package main

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lpc/pkg/glog"
)

// metricsServer 暴露 /metrics
type metricsServer struct {
	addr   string
	server *http.Server
	done   chan struct{}
}

func newMetricsServer(addr string, gatherer prometheus.Gatherer) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &metricsServer{
		addr:   addr,
		server: &http.Server{Addr: addr, Handler: mux},
		done:   make(chan struct{}),
	}
}

func (m *metricsServer) Name() string {
	return "metrics"
}

func (m *metricsServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", m.addr)
	}
	go func() {
		defer close(m.done)
		if err := m.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Error("metrics server stopped", zap.Error(err))
		}
	}()
	glog.Info("metrics server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

func (m *metricsServer) Stop(ctx context.Context) error {
	err := m.server.Shutdown(ctx)
	<-m.done
	return err
}
