package telemetry

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	ID     string
	Params []any
}

// TestAPI implements API by writing to the test log and recording every
// broken/warning report so that tests can assert on them.
type TestAPI struct {
	t testing.TB

	mu       sync.Mutex
	broken   []Report
	warnings []Report
	counts   map[string]int64
}

func NewTestAPI(t testing.TB) *TestAPI {
	return &TestAPI{t: t, counts: map[string]int64{}}
}

func (a *TestAPI) ReportBroken(id string, params ...any) {
	a.t.Helper()
	a.t.Logf("BROKEN %s %v", id, params)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.broken = append(a.broken, Report{ID: id, Params: params})
}

func (a *TestAPI) ReportWarning(id string, params ...any) {
	a.t.Helper()
	a.t.Logf("WARN %s %v", id, params)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings = append(a.warnings, Report{ID: id, Params: params})
}

func (a *TestAPI) ReportDebug(msg string, params ...any) {
	a.t.Helper()
	a.t.Logf("DEBUG %s %v", msg, params)
}

func (a *TestAPI) ReportCount(id string, count int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[id] = count
}

// Broken returns the broken reports whose id contains the given substring,
// an empty substring matches everything.
func (a *TestAPI) Broken(contains string) []Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return filterReports(a.broken, contains)
}

func (a *TestAPI) Warnings(contains string) []Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	return filterReports(a.warnings, contains)
}

func (a *TestAPI) Count(id string) (int64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, ok := a.counts[id]
	return n, ok
}

func filterReports(reports []Report, contains string) []Report {
	var out []Report
	for _, r := range reports {
		if strings.Contains(r.ID, contains) {
			out = append(out, r)
		}
	}
	return out
}

func (r Report) String() string {
	return fmt.Sprintf("%s %v", r.ID, r.Params)
}
