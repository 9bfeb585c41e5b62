/*
Package observability exposes Prometheus metrics for automaton evaluation.

Metrics implements batch.Recorder, so a batch.Runner built with
batch.WithRecorder reports every evaluation and case outcome. The HTTP and
CLI layers also report load failures through ObserveParseError.
*/
package observability
