// Package metrics exposes authentication outcomes as Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/quotevote/authkeeper/internal/common"
)

const namespace = "authkeeper"

// Auth counts operations by outcome and records their latency. It satisfies
// services.Observer.
type Auth struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg, or on the default
// registerer when reg is nil. Registering twice on one registry reuses the
// existing collectors.
func New(reg prometheus.Registerer) (*Auth, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	a := &Auth{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Authentication operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "auth_operation_duration_seconds",
			Help:      "Latency of authentication operations.",
			// bcrypt dominates; default buckets top out too early.
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}

	var err error
	if a.ops, err = register(reg, a.ops); err != nil {
		return nil, err
	}
	if a.duration, err = register(reg, a.duration); err != nil {
		return nil, err
	}
	return a, nil
}

// Observe records one finished operation. The outcome label is common.Kind(err).
func (a *Auth) Observe(op string, err error, elapsed time.Duration) {
	a.ops.WithLabelValues(op, common.Kind(err)).Inc()
	a.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
