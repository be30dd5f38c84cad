package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncDocumentResult(ResultNumbered)
	pr.IncDocumentResult(ResultNumbered)
	pr.IncDocumentResult(ResultFailed)
	pr.AddHeadingsNumbered(5)
	pr.AddHeadingsNumbered(-1)
	pr.ObserveDocumentDuration(2 * time.Millisecond)
	pr.ObserveRunDuration(150 * time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.documents.WithLabelValues(string(ResultNumbered))), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.documents.WithLabelValues(string(ResultFailed))), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(pr.headings), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncDocumentResult(ResultSkipped)

	path := filepath.Join(t.TempDir(), "secnum.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `secnum_documents_total{result="skipped"} 1`)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncDocumentResult(ResultNumbered)
		pr.AddHeadingsNumbered(1)
		pr.ObserveDocumentDuration(time.Second)
		pr.ObserveRunDuration(time.Second)
	})
}

func TestRecorderImplementations(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)
}
