package observability

import (
	"errors"
	"time"

	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/format"
	"github.com/prometheus/client_golang/prometheus"
)

// Parse error kinds used as the "kind" label.
const (
	KindMalformedHeader    = "malformed_header"
	KindTransitionCount    = "transition_count"
	KindTransitionLine     = "transition_line"
	KindInvalidAutomaton   = "invalid_automaton"
	KindUnclassifiedFormat = "other"
)

// Metrics holds the collectors. The zero value is not usable; call NewMetrics.
type Metrics struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cases       *prometheus.CounterVec
	parseErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automata_evaluations_total",
				Help: "Total number of automaton evaluations by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "automata_evaluation_duration_seconds",
				Help:    "Duration of automaton evaluations",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"outcome"},
		),
		cases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automata_batch_cases_total",
				Help: "Total number of batch cases by outcome",
			},
			[]string{"outcome"},
		),
		parseErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automata_parse_errors_total",
				Help: "Total number of rejected automaton definitions by kind",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.evaluations, m.duration, m.cases, m.parseErrors)
	}
	return m
}

// ObserveEvaluation records one Accepts call.
func (m *Metrics) ObserveEvaluation(outcome string, d time.Duration) {
	m.evaluations.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveCase records one batch case outcome.
func (m *Metrics) ObserveCase(outcome string) {
	m.cases.WithLabelValues(outcome).Inc()
}

// ObserveParseError classifies err and counts it.
func (m *Metrics) ObserveParseError(err error) {
	if err == nil {
		return
	}
	m.parseErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind maps a load error to its metric label.
func ErrorKind(err error) string {
	var (
		header *format.MalformedHeaderError
		count  *format.TransitionCountMismatchError
		line   *format.TransitionLineFormatError
	)
	switch {
	case errors.As(err, &header):
		return KindMalformedHeader
	case errors.As(err, &count):
		return KindTransitionCount
	case errors.As(err, &line):
		return KindTransitionLine
	case errors.Is(err, domain.ErrUnknownState),
		errors.Is(err, domain.ErrDuplicateState),
		errors.Is(err, domain.ErrDuplicateSymbol),
		errors.Is(err, domain.ErrDuplicateTransition),
		errors.Is(err, domain.ErrInvalidLabel),
		errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, domain.ErrEmptyAlphabet):
		return KindInvalidAutomaton
	default:
		return KindUnclassifiedFormat
	}
}
