package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store   Pinger
	entries Pinger
}

// New creates a Service. entries can be nil when entries share the store.
func New(store Pinger, entries Pinger) *Service {
	return &Service{store: store, entries: entries}
}

// Check pings every backend. One failure degrades the service; all failing
// makes it unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"store": ping(ctx, s.store)}
	if s.entries != nil {
		checks["entries"] = ping(ctx, s.entries)
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
