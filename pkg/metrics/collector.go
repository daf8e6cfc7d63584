// Package metrics mantém estatísticas de desempenho por operação em memória
// e as espelha em métricas Prometheus expostas em /metrics.
package metrics

import (
	"math"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultBufferSize = 256
	defaultNamespace  = "analyst"
)

// Nomes das operações medidas pelo pipeline
const (
	OpAggregate = "aggregate"
	OpValidate  = "validate"
	OpPersist   = "persist"
	OpPipeline  = "pipeline"
	OpNotify    = "notify"
)

// Stats resume as amostras retidas de uma operação
type Stats struct {
	Operation string  `json:"operation"`
	Count     int     `json:"count"`
	AvgMs     float64 `json:"avg_ms"`
	P95Ms     float64 `json:"p95_ms"`
	MaxMs     float64 `json:"max_ms"`
	ErrorRate float64 `json:"error_rate"`
}

type sample struct {
	duration time.Duration
	failed   bool
}

// ring guarda as últimas N amostras de uma operação
type ring struct {
	samples []sample
	next    int
	full    bool
}

func newRing(size int) *ring {
	return &ring{samples: make([]sample, size)}
}

func (r *ring) add(s sample) {
	r.samples[r.next] = s
	r.next = (r.next + 1) % len(r.samples)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) values() []sample {
	if r.full {
		out := make([]sample, len(r.samples))
		copy(out, r.samples[r.next:])
		copy(out[len(r.samples)-r.next:], r.samples[:r.next])
		return out
	}
	out := make([]sample, r.next)
	copy(out, r.samples[:r.next])
	return out
}

// Collector é injetado nos serviços; não há instância global
type Collector struct {
	namespace  string
	bufferSize int
	buckets    []float64
	registry   *prometheus.Registry

	mu     sync.Mutex
	series map[string]*ring

	operationDuration *prometheus.HistogramVec
	operationTotal    *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	qualityScore      prometheus.Gauge
	recordsProcessed  prometheus.Counter
	tasksByStatus     *prometheus.CounterVec
}

func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		namespace:  defaultNamespace,
		bufferSize: defaultBufferSize,
		buckets:    prometheus.DefBuckets,
		series:     make(map[string]*ring),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(c.registry)

	c.operationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Subsystem: "snapshot",
		Name:      "operation_duration_seconds",
		Help:      "Duração das etapas do pipeline de snapshots",
		Buckets:   c.buckets,
	}, []string{"operation"})

	c.operationTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "snapshot",
		Name:      "operations_total",
		Help:      "Total de execuções por etapa e resultado",
	}, []string{"operation", "result"})

	c.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duração das requisições HTTP",
		Buckets:   c.buckets,
	}, []string{"method", "path", "status_code"})

	c.qualityScore = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Subsystem: "snapshot",
		Name:      "last_quality_score",
		Help:      "Nota do último relatório de consistência",
	})

	c.recordsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "snapshot",
		Name:      "records_persisted_total",
		Help:      "Total de snapshots persistidos",
	})

	c.tasksByStatus = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "snapshot",
		Name:      "tasks_finished_total",
		Help:      "Execuções finalizadas por tipo e status",
	}, []string{"kind", "status"})

	return c
}

// Observe registra uma amostra de duração para a operação
func (c *Collector) Observe(operation string, elapsed time.Duration, err error) {
	c.mu.Lock()
	r, ok := c.series[operation]
	if !ok {
		r = newRing(c.bufferSize)
		c.series[operation] = r
	}
	r.add(sample{duration: elapsed, failed: err != nil})
	c.mu.Unlock()

	result := "success"
	if err != nil {
		result = "error"
	}
	c.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	c.operationTotal.WithLabelValues(operation, result).Inc()
}

// Track inicia a medição e devolve a função que a encerra
//
//	done := collector.Track(metrics.OpAggregate)
//	snapshots, err := aggregate()
//	done(err)
func (c *Collector) Track(operation string) func(error) {
	start := time.Now()
	return func(err error) {
		c.Observe(operation, time.Since(start), err)
	}
}

// ObserveRequest implementa middleware.RequestObserver
func (c *Collector) ObserveRequest(method, path string, statusCode int, elapsed time.Duration) {
	c.httpDuration.WithLabelValues(method, path, strconv.Itoa(statusCode)).Observe(elapsed.Seconds())
}

func (c *Collector) SetQualityScore(score float64) {
	c.qualityScore.Set(score)
}

func (c *Collector) AddRecordsPersisted(n int) {
	if n > 0 {
		c.recordsProcessed.Add(float64(n))
	}
}

func (c *Collector) TaskFinished(kind, status string) {
	c.tasksByStatus.WithLabelValues(kind, status).Inc()
}

// Stats calcula o resumo das amostras retidas de uma operação
func (c *Collector) Stats(operation string) Stats {
	c.mu.Lock()
	r, ok := c.series[operation]
	var samples []sample
	if ok {
		samples = r.values()
	}
	c.mu.Unlock()

	return summarize(operation, samples)
}

// All retorna o resumo de todas as operações, ordenado por nome
func (c *Collector) All() []Stats {
	c.mu.Lock()
	names := make([]string, 0, len(c.series))
	for name := range c.series {
		names = append(names, name)
	}
	c.mu.Unlock()

	sort.Strings(names)
	out := make([]Stats, 0, len(names))
	for _, name := range names {
		out = append(out, c.Stats(name))
	}
	return out
}

// Handler expõe o registry no formato Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func summarize(operation string, samples []sample) Stats {
	st := Stats{Operation: operation, Count: len(samples)}
	if len(samples) == 0 {
		return st
	}

	durations := make([]float64, len(samples))
	var sum float64
	var failures int
	for i, s := range samples {
		ms := float64(s.duration) / float64(time.Millisecond)
		durations[i] = ms
		sum += ms
		if s.failed {
			failures++
		}
	}
	sort.Float64s(durations)

	st.AvgMs = sum / float64(len(durations))
	st.MaxMs = durations[len(durations)-1]
	st.P95Ms = percentile(durations, 0.95)
	st.ErrorRate = float64(failures) / float64(len(samples))
	return st
}

// percentile usa nearest-rank sobre valores já ordenados
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
