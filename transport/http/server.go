package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/paseto/log"
	"github.com/kochabx/paseto/transport"
	"github.com/kochabx/paseto/transport/http/metrics"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName              = "http"
	defaultReadHeaderTimeout = 10 * time.Second
)

// Meta is the metadata of the server.
type Meta struct {
	Name string
}

type Server struct {
	meta    Meta
	options Options
	metrics *metrics.Prometheus
	server  *http.Server
}

type Option func(*Server)

func WithMeta(meta Meta) Option {
	return func(s *Server) {
		s.meta = meta
	}
}

// WithMetrics 指定 /metrics 暴露的 registry，默认 metrics.Prom
func WithMetrics(p *metrics.Prometheus) Option {
	return func(s *Server) {
		s.metrics = p
	}
}

func WithMetricsOptions(opt MetricsOption) Option {
	return func(s *Server) {
		if err := opt.init(); err != nil {
			log.Error().Err(err).Send()
			return
		}
		s.options.Metrics = opt
	}
}

func WithHealthOptions(opt HealthOption) Option {
	return func(s *Server) {
		if err := opt.init(); err != nil {
			log.Error().Err(err).Send()
			return
		}
		s.options.Health = opt
	}
}

// NewServer 创建 HTTP 服务，handler 为 *gin.Engine 时按配置挂载 metrics 与 health 路由
func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		meta:    Meta{Name: defaultName},
		metrics: metrics.Prom,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	addr, err := transport.ParseAddress(s.server.Addr)
	if err != nil {
		log.Warn().Err(err).Msgf("using default address %s", transport.DefaultAddress)
		addr = transport.DefaultAddress
	}
	s.server.Addr = addr

	if r, ok := handler.(*gin.Engine); ok {
		s.handleMetrics(r)
		s.handleHealth(r)
	}

	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run 阻塞直到服务停止，Shutdown 触发的关闭返回 nil
func (s *Server) Run() error {
	log.Info().Msgf("%s server listening on %s", s.meta.Name, s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msgf("%s server shutting down", s.meta.Name)
	return s.server.Shutdown(ctx)
}

func (s *Server) handleMetrics(r *gin.Engine) {
	if !s.options.Metrics.Enabled {
		return
	}
	if s.options.Metrics.EnabledGoCollector {
		s.metrics.WithGoCollectorRuntimeMetrics()
	}
	if s.options.Metrics.EnabledBuildInfoCollector {
		s.metrics.WithBuildInfoCollector()
	}

	r.GET(s.options.Metrics.Path, gin.WrapH(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
}

func (s *Server) handleHealth(r *gin.Engine) {
	if !s.options.Health.Enabled {
		return
	}
	r.GET(s.options.Health.Path, func(c *gin.Context) {
		GinJSON(c, gin.H{"status": "ok"})
	})
}
