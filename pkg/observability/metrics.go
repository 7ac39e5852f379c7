// Package observability serves the prometheus metrics endpoint.
package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	metricsServer *http.Server
	mu            sync.Mutex
)

// StartMetricsServer serves /metrics on addr until ctx is done or
// StopMetricsServer is called.
func StartMetricsServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	mu.Lock()
	metricsServer = server
	mu.Unlock()

	go func() {
		<-ctx.Done()

		_ = StopMetricsServer(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// StopMetricsServer shuts the metrics server down if it is running.
func StopMetricsServer(ctx context.Context) error {
	mu.Lock()
	server := metricsServer
	metricsServer = nil
	mu.Unlock()

	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}
