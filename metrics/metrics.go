// Package metrics defines the Prometheus collectors for citation analysis.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Citation kinds used as label values
const (
	KindStatute  = "statute"
	KindDecision = "decision"
)

// Metrics groups the counters exported on /metrics
type Metrics struct {
	CitationsRecognized *prometheus.CounterVec
	CitationsResolved   *prometheus.CounterVec
	LookupFailures      *prometheus.CounterVec
	Analyses            *prometheus.CounterVec
	AnalyzerCalls       *prometheus.CounterVec
	CorpusResets        prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CitationsRecognized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukukai_citations_recognized_total",
			Help: "Citations recognized in analysis text",
		}, []string{"kind"}),
		CitationsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukukai_citations_resolved_total",
			Help: "Recognized citations found in the reference store",
		}, []string{"kind"}),
		LookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukukai_store_lookup_failures_total",
			Help: "Reference store lookups that failed or timed out",
		}, []string{"op"}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukukai_analyses_total",
			Help: "Completed case analyses",
		}, []string{"outcome"}),
		AnalyzerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hukukai_analyzer_calls_total",
			Help: "Calls to the AI analysis model",
		}, []string{"result"}),
		CorpusResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hukukai_corpus_resets_total",
			Help: "Administrative corpus resets",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CitationsRecognized,
			m.CitationsResolved,
			m.LookupFailures,
			m.Analyses,
			m.AnalyzerCalls,
			m.CorpusResets,
		)
	}
	return m
}

// NewNop returns unregistered collectors, for tests and tools that do not export metrics
func NewNop() *Metrics {
	return New(nil)
}
