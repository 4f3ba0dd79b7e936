package diag

import (
	"sync"
	"time"
)

// Timer records how long each named pass took to run, mirroring the
// original linker's per-pass Timer instrumentation
// (original_source/passes.cc: `Timer t("resolve_obj_symbols")` etc). The
// teacher has no equivalent; every pass here reports through a single
// process-lifetime Timer collected from Context so --time-report can
// render it.
type Timer struct {
	mu      sync.Mutex
	records []Record
}

// Record is one completed pass measurement.
type Record struct {
	Name     string
	Start    time.Time
	Duration time.Duration
}

// Start begins timing a pass named name. Call the returned function once
// the pass's parallel fan-out has fully joined.
func (t *Timer) Start(name string) func() {
	begin := time.Now()
	return func() {
		rec := Record{Name: name, Start: begin, Duration: time.Since(begin)}
		t.mu.Lock()
		t.records = append(t.records, rec)
		t.mu.Unlock()
	}
}

// Records returns a snapshot of every completed measurement, in the order
// passes finished.
func (t *Timer) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}
