package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call made against a Recorder.
type Report struct {
	Level  string
	Id     string
	Params []any
}

// Recorder is an API that keeps every report in memory, it is meant for tests.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(level, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, Report{Level: level, Id: id, Params: params})
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push("broken", id, params)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push("warning", id, params)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push("debug", msg, params)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push("count", id, []any{count})
}

// Reports returns a copy of everything reported at the given level.
func (r *Recorder) Reports(level string) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Report
	for _, rep := range r.reports {
		if rep.Level == level {
			out = append(out, rep)
		}
	}
	return out
}

// Has reports whether something was reported at the given level with an id
// ending in suffix, scoped ids can then be matched without their namespace.
func (r *Recorder) Has(level, suffix string) bool {
	for _, rep := range r.Reports(level) {
		if strings.HasSuffix(rep.Id, suffix) {
			return true
		}
	}
	return false
}
