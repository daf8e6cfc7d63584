package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option configura o Collector
type Option func(*Collector)

// WithNamespace define o namespace das métricas Prometheus
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

// WithBufferSize define quantas amostras por operação ficam em memória
func WithBufferSize(size int) Option {
	return func(c *Collector) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// WithRegistry usa um registry próprio em vez de um novo
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Collector) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithHistogramBuckets define os buckets (em segundos) das durações
func WithHistogramBuckets(buckets []float64) Option {
	return func(c *Collector) {
		if len(buckets) > 0 {
			c.buckets = buckets
		}
	}
}
