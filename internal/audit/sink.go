// Package audit receives structured failure/issue records from the
// indexing pipeline. Recording is best-effort: a sink never raises back
// into the orchestrator.
package audit

// Sink accepts one structured record per call.
type Sink interface {
	Record(category string, fields map[string]interface{})
}

// Nop discards every record. Used in tests and when auditing is disabled.
type Nop struct{}

// Record implements Sink.
func (Nop) Record(string, map[string]interface{}) {}
