package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/shahar-caura/irisform/internal/classifier"
)

// Server answers prediction requests from a decision-tree model.
type Server struct {
	port            int
	modelPath       string // empty means the embedded default model
	version         string
	shutdownTimeout time.Duration
	logger          *slog.Logger

	model   atomic.Pointer[classifier.Model]
	schema  *openapi3.Schema
	metrics *metrics
}

// Options configures a Server.
type Options struct {
	Port            int
	ModelPath       string
	Version         string
	ShutdownTimeout time.Duration
}

// New loads the model and API schema and returns a Server ready to Run.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Server, error) {
	schema, err := loadRequestSchema(ctx)
	if err != nil {
		return nil, err
	}

	model := classifier.Default()
	if opts.ModelPath != "" {
		model, err = classifier.Load(opts.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("loading model: %w", err)
		}
	}

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		port:            opts.Port,
		modelPath:       opts.ModelPath,
		version:         opts.Version,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logger,
		schema:          schema,
		metrics:         newMetrics(),
	}
	s.model.Store(model)
	return s, nil
}

// Model returns the model currently serving requests.
func (s *Server) Model() *classifier.Model { return s.model.Load() }

// Handler returns the HTTP routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())
	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	if s.modelPath != "" {
		go s.WatchModel(ctx)
	}

	// Start listener so we can log the actual port.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("prediction server started", "addr", ln.Addr().String(), "model", s.Model().Name)

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
