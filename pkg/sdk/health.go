package msgsearch

import (
	"context"

	healthuc "github.com/kailas-cloud/msgsearch/internal/usecase/health"
)

// ComponentState is the outcome of one component check: "ok", "error" or "disabled".
type ComponentState string

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status    string         // "ok", "degraded", "error"
	Search    ComponentState // Elasticsearch partitions
	Cache     ComponentState // shared user cache; "disabled" when memory only
	Directory ComponentState // Discord credentials; "disabled" without tokens
}

// CanSearch reports whether message search and statistics can be served.
func (h HealthStatus) CanSearch() bool { return h.Search == ComponentState(healthuc.CheckOK) }

// ResolvesUsers reports whether user lookups reach the Discord directory.
// When false, lookups answer with fallback identities.
func (h HealthStatus) ResolvesUsers() bool {
	return h.Directory == ComponentState(healthuc.CheckOK)
}

// Health checks the search backend, the shared cache and directory credentials.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	state := func(component string) ComponentState {
		if r, ok := report.Checks[component]; ok {
			return ComponentState(r)
		}
		return ComponentState(healthuc.CheckDisabled)
	}
	return HealthStatus{
		Status:    string(report.Status),
		Search:    state(healthuc.ComponentSearch),
		Cache:     state(healthuc.ComponentCache),
		Directory: state(healthuc.ComponentDirectory),
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
