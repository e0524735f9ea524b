package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer queries.
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
	Status      Status
	Checks      map[string]CheckResult
	Assessments int
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogStatus
	cache   CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(catalog CatalogStatus, cache CachePinger) *Service {
	return &Service{catalog: catalog, cache: cache}
}

// Check runs health checks against all components.
// An unloaded catalog is fatal; a failing cache only degrades.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	n := s.catalog.Len()
	if n > 0 {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	switch {
	case checks["catalog"] == CheckError:
		status = Unhealthy
	case checks["cache"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks, Assessments: n}
}
