// Package server exposes the paper converter over HTTP with gin.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/alnah/go-paper2pdf"
	"github.com/alnah/go-paper2pdf/internal/history"
	"github.com/alnah/go-paper2pdf/internal/observability"
)

// DefaultShutdownTimeout bounds graceful shutdown in Serve.
const DefaultShutdownTimeout = 30 * time.Second

// Converter renders submissions. *paper2pdf.Converter satisfies it.
type Converter interface {
	Convert(ctx context.Context, sub paper2pdf.Submission) (*paper2pdf.Result, error)
	Markup(ctx context.Context, sub paper2pdf.Submission) ([]byte, error)
}

// Journal records conversions. *history.Store satisfies it.
type Journal interface {
	Record(ctx context.Context, e history.Entry) error
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Summary(ctx context.Context) (*history.Stats, error)
}

// Compile-time interface implementation checks.
var (
	_ Converter = (*paper2pdf.Converter)(nil)
	_ Journal   = (*history.Store)(nil)
)

// Config holds transport limits.
type Config struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxBodyBytes    int64
	RateLimit       float64 // requests per second; 0 disables limiting
	Burst           int
	Workers         int // concurrent conversions; 0 derives from CPU count
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithMetrics enables Prometheus collection and the /metrics route.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithJournal records every conversion and enables the /api/renders routes.
func WithJournal(j Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// Server is an http.Handler serving the paper API.
type Server struct {
	cfg     Config
	conv    Converter
	log     zerolog.Logger
	metrics *observability.Metrics
	journal Journal
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	router  *gin.Engine
	started time.Time
}

// New builds the router. The converter is shared by all requests.
func New(conv Converter, cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		conv:    conv,
		log:     zerolog.Nop(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sem = semaphore.NewWeighted(int64(paper2pdf.ResolveWorkers(cfg.Workers)))
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}
	if s.cfg.ShutdownTimeout <= 0 {
		s.cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecoveryWithWriter(io.Discard, s.recovered),
		observability.RequestID(),
		observability.RequestLogger(s.log),
	)
	if s.metrics != nil {
		r.Use(observability.RequestMetrics(s.metrics))
	}
	r.Use(cors.New(corsConfig(trimOrigins(s.cfg.CORSOrigins))))

	r.GET("/", s.handleIndex)
	r.GET("/health", s.handleHealth)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.POST("/generate-pdf", s.rateLimit(), s.handleGeneratePDF)
	api.POST("/generate-tex", s.rateLimit(), s.handleGenerateTeX)
	if s.journal != nil {
		api.GET("/renders", s.handleListRenders)
		api.GET("/renders/summary", s.handleRenderSummary)
	}

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info().Msg("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) recovered(c *gin.Context, err any) {
	s.log.Error().
		Str("request_id", observability.RequestIDFrom(c)).
		Interface("panic", err).
		Msg("handler panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
