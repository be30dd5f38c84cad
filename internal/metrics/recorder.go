package metrics

import "time"

// ChapterResult enumerates per-document outcomes for counters.
type ChapterResult string

const (
	ResultNumbered ChapterResult = "numbered"
	ResultSkipped  ChapterResult = "skipped"
	ResultFailed   ChapterResult = "failed"
)

// Recorder defines observability hooks for numbering runs.
type Recorder interface {
	IncDocumentResult(result ChapterResult)
	AddHeadingsNumbered(n int)
	ObserveDocumentDuration(d time.Duration)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocumentResult(ChapterResult)       {}
func (NoopRecorder) AddHeadingsNumbered(int)               {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)      {}
