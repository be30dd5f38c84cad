package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	documents        *prom.CounterVec
	headings         prom.Counter
	documentDuration prom.Histogram
	runDuration      prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "secnum",
			Name:      "documents_total",
			Help:      "Documents processed by outcome",
		}, []string{"result"}),
		headings: prom.NewCounter(prom.CounterOpts{
			Namespace: "secnum",
			Name:      "headings_numbered_total",
			Help:      "Headings that received a section number",
		}),
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "secnum",
			Name:      "document_duration_seconds",
			Help:      "Time spent numbering a single document",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "secnum",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete numbering run",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.documents, pr.headings, pr.documentDuration, pr.runDuration)
	return pr
}

func (p *PrometheusRecorder) IncDocumentResult(result ChapterResult) {
	if p == nil {
		return
	}
	p.documents.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddHeadingsNumbered(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.headings.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

// WriteTextfile writes every metric in the recorder's registry to path in
// the Prometheus text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
