// Package metrics exposes ledger activity as Prometheus collectors.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	applog "budget/internal/log"
)

const namespace = "budget"

// Result labels for ledger operations.
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
)

// Metrics holds the ledger collectors.
type Metrics struct {
	operations *prometheus.CounterVec
	balance    *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by kind and outcome.",
		}, []string{"operation", "result"}),
		balance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_balance",
			Help:      "Current balance of a category.",
		}, []string{"category"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.balance} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveOperation counts one ledger operation.
func (m *Metrics) ObserveOperation(operation string, applied bool) {
	result := ResultApplied
	if !applied {
		result = ResultRejected
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// SetBalance records a category's balance.
func (m *Metrics) SetBalance(category string, balance decimal.Decimal) {
	m.balance.WithLabelValues(category).Set(balance.InexactFloat64())
}

// Dump logs every gathered sample at info level.
func Dump(ctx context.Context, g prometheus.Gatherer, logger *applog.Logger) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	logger = logger.WithComponent(applog.ComponentMetrics)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			args := []any{"metric", family.GetName()}
			for _, label := range metric.GetLabel() {
				args = append(args, label.GetName(), label.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				args = append(args, "value", metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				args = append(args, "value", metric.GetGauge().GetValue())
			}
			logger.InfoContext(ctx, "Metric", args...)
		}
	}
	return nil
}
