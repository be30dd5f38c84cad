// Package metrics provides observability hooks for numbering runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	p := preprocessor.New(opts, preprocessor.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder backs the Recorder with client_golang collectors. A
// preprocessor is a short-lived process with nothing to scrape, so instead of
// serving HTTP the recorder writes its registry to a node exporter textfile
// once the run completes.
package metrics
