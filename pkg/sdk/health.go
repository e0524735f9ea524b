package assessrank

import (
	"context"

	healthuc "github.com/kailas-cloud/assessrank/internal/usecase/health"
)

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status      string            // "ok", "degraded", "error"
	Checks      map[string]string // component → "ok"/"error"
	Assessments int
}

// Health reports whether a catalog is loaded and, when configured, whether the cache answers.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:      string(report.Status),
		Checks:      checks,
		Assessments: report.Assessments,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
