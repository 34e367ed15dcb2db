package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/trackscrape/internal/config"
	"github.com/nao1215/trackscrape/internal/model"
	"github.com/nao1215/trackscrape/internal/pipeline"
)

// Error bodies returned by the lookup endpoint.
const (
	MsgMissingQuery  = "Missing required parameter: search_query"
	MsgNotFound      = "Failed to find specialization URL for the query"
	MsgExtractFailed = "Failed to extract track data"
)

// QueryParam is the query string parameter carrying the search text.
const QueryParam = "search_query"

// shutdownTimeout bounds how long in-flight requests may finish on stop.
const shutdownTimeout = 10 * time.Second

// Lookuper performs one track lookup. *pipeline.Service satisfies it.
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*model.TrackReport, error)
}

// Server serves the lookup API.
type Server struct {
	lookup     Lookuper
	logger     *slog.Logger
	addr       string
	engine     *gin.Engine
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// New creates a Server around lookup.
// gin's global mode is left to the caller.
func New(lookup Lookuper, opts ...Option) *Server {
	s := &Server{
		lookup: lookup,
		logger: slog.Default(),
		addr:   config.DefaultListenAddr,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(s.logger))

	engine.GET("/health", s.handleHealth)
	engine.GET("/api/track", s.handleTrack)

	s.engine = engine
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// handleHealth answers liveness probes.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleTrack resolves the query and returns the track record.
func (s *Server) handleTrack(c *gin.Context) {
	query := c.Query(QueryParam)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgMissingQuery})
		return
	}

	report, err := s.lookup.Lookup(c.Request.Context(), query)
	switch {
	case err == nil && report != nil && report.Track != nil:
		c.JSON(http.StatusOK, report.Track)
	case errors.Is(err, pipeline.ErrResolve):
		c.JSON(http.StatusNotFound, gin.H{"error": MsgNotFound})
	default:
		s.logger.Error("track lookup failed", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgExtractFailed})
	}
}
