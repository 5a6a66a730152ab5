package prefixlist

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/das-schiff-irr-resolver/pkg/irr"
)

const (
	metricsNamespace = "irr"
	metricsSubsystem = "resolver"
	labelOperation   = "operation"
	labelFamily      = "family"
	labelResult      = "result"

	resultSuccess = "success"
)

var (
	// LookupsTotal counts tool invocations by outcome.
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "lookups_total",
			Help:      "Number of IRR lookups by operation, address family and result",
		},
		[]string{labelOperation, labelFamily, labelResult},
	)

	// LookupDuration records how long the query tool ran.
	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of IRR lookups in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{labelOperation},
	)

	// RecordsTotal counts prefixes and ASNs returned by the query tool.
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "records_total",
			Help:      "Number of records returned by IRR lookups",
		},
		[]string{labelOperation, labelFamily},
	)
)

// RegisterMetrics registers the collector metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{LookupsTotal, LookupDuration, RecordsTotal} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// RecordLookup records the outcome of a single lookup.
func RecordLookup(op irr.Operation, family irr.AddressFamily, records int, err error, duration time.Duration) {
	familyLabel := family.String()
	if op == irr.ExpandMembers {
		familyLabel = "any"
	}

	result := resultSuccess
	if err != nil {
		result = irr.KindOf(err).String()
	}

	LookupsTotal.WithLabelValues(op.String(), familyLabel, result).Inc()
	LookupDuration.WithLabelValues(op.String()).Observe(duration.Seconds())
	if err == nil {
		RecordsTotal.WithLabelValues(op.String(), familyLabel).Add(float64(records))
	}
}
