package metrics

import (
	"regexp"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Prom = New()
)

// Prometheus 独立 registry，不使用 prometheus.DefaultRegisterer
type Prometheus struct {
	registry *prometheus.Registry

	once          sync.Once
	verifications *prometheus.CounterVec
}

func New() *Prometheus {
	return &Prometheus{
		registry: prometheus.NewRegistry(),
	}
}

func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

func (p *Prometheus) WithBuildInfoCollector() {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// TokenVerifications 返回 paseto_token_verifications_total 计数器，首次调用时注册
func (p *Prometheus) TokenVerifications() *prometheus.CounterVec {
	p.once.Do(func() {
		p.verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paseto_token_verifications_total",
			Help: "Bearer token verifications by result.",
		}, []string{"result"})
		p.registry.MustRegister(p.verifications)
	})
	return p.verifications
}
