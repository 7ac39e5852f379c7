package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	//nolint:gosec // only exposed if pprofAddr config is set
	_ "net/http/pprof"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/web3-connect/pkg/api"
	"github.com/ethpandaops/web3-connect/pkg/observability"
	"github.com/ethpandaops/web3-connect/pkg/web3"
	"github.com/ethpandaops/web3-connect/pkg/web3/geth"
)

type Server struct {
	log       logrus.FieldLogger
	config    *Config
	namespace string

	env      *geth.Environment
	state    *web3.State
	resolver *web3.Resolver

	pprofServer  *http.Server
	healthServer *http.Server
	apiServer    *http.Server
}

func NewServer(ctx context.Context, log logrus.FieldLogger, namespace string, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	web3Log := log.WithField("component", "web3")
	dialer := geth.NewDialer(web3Log)

	env, err := geth.NewEnvironment(ctx, web3Log, &config.Web3, dialer)
	if err != nil {
		return nil, fmt.Errorf("failed to create web3 environment: %w", err)
	}

	state := web3.NewState()

	return &Server{
		config:    config,
		log:       log,
		namespace: namespace,
		env:       env,
		state:     state,
		resolver:  web3.NewResolver(web3Log, namespace, &config.Web3, env, dialer, state),
	}, nil
}

// State returns the observable state published by the resolver.
func (s *Server) State() *web3.State {
	return s.state
}

// Resolve runs the resolution attempt and waits for it to settle. It returns
// the published handle, or nil if none could be resolved.
func (s *Server) Resolve(ctx context.Context, opts ...web3.ResolveOption) *web3.Handle {
	done := s.resolver.Resolve(ctx, func(handle *web3.Handle, isFallback bool) {
		s.log.WithFields(logrus.Fields{
			"handle":   handle.String(),
			"fallback": isFallback,
		}).Debug("Resolution callback invoked")
	}, opts...)

	select {
	case <-done:
	case <-ctx.Done():
		s.log.WithError(ctx.Err()).Warn("Stopped waiting for resolution")
	}

	return s.state.Handle()
}

func (s *Server) Start(ctx context.Context, opts ...web3.ResolveOption) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return observability.StartMetricsServer(ctx, s.config.MetricsAddr)
	})

	if s.config.PProfAddr != nil {
		g.Go(func() error {
			if err := s.startPProf(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	if s.config.HealthCheckAddr != nil {
		g.Go(func() error {
			if err := s.startHealthCheck(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	if s.config.APIAddr != nil {
		g.Go(func() error {
			if err := s.startAPI(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})
	}

	// Single resolution attempt for the lifetime of the process.
	g.Go(func() error {
		if handle := s.Resolve(ctx, opts...); handle == nil {
			s.log.WithError(s.state.Err()).Warn("No web3 connectivity available")
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		return s.stop(ctx)
	})

	return g.Wait()
}

// Close releases the resolved handle and the provider transports.
func (s *Server) Close() {
	if handle := s.state.Handle(); handle != nil && handle.IsFallback() {
		handle.Close()
	}

	s.env.Close()
}

func (s *Server) stop(ctx context.Context) error {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("Starting graceful shutdown...")

	s.Close()

	if s.pprofServer != nil {
		if err := s.pprofServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown pprof server")
		}
	}

	if s.healthServer != nil {
		if err := s.healthServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown health server")
		}
	}

	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(cleanupCtx); err != nil {
			s.log.WithError(err).Error("failed to shutdown api server")
		}
	}

	if err := observability.StopMetricsServer(cleanupCtx); err != nil {
		s.log.WithError(err).Error("failed to stop metrics server")
	}

	s.log.Info("Server stopped gracefully")

	return nil
}

func (s *Server) startPProf() error {
	s.log.WithField("addr", *s.config.PProfAddr).Info("Starting pprof server")

	s.pprofServer = &http.Server{
		Addr:              *s.config.PProfAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.pprofServer.ListenAndServe()
}

func (s *Server) startHealthCheck() error {
	s.log.WithField("addr", *s.config.HealthCheckAddr).Info("Starting healthcheck server")

	s.healthServer = &http.Server{
		Addr:              *s.config.HealthCheckAddr,
		ReadHeaderTimeout: 120 * time.Second,
	}

	s.healthServer.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s.healthServer.ListenAndServe()
}

func (s *Server) startAPI() error {
	s.log.WithField("addr", *s.config.APIAddr).Info("Starting API server")

	mux := http.NewServeMux()
	api.NewHandler(s.log.WithField("component", "api"), s.state).RegisterRoutes(mux)

	s.apiServer = &http.Server{
		Addr:              *s.config.APIAddr,
		Handler:           mux,
		ReadHeaderTimeout: 120 * time.Second,
	}

	return s.apiServer.ListenAndServe()
}
