package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the search backend is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled indicates the component is not configured.
	CheckDisabled CheckResult = "disabled"
)

// Component names used as Report.Checks keys.
const (
	ComponentSearch    = "search"
	ComponentCache     = "cache"
	ComponentDirectory = "directory"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	search    Pinger
	cache     Pinger
	directory CredentialCounter
}

// New creates a Service. cache and directory can be nil.
func New(search, cache Pinger, directory CredentialCounter) *Service {
	return &Service{search: search, cache: cache, directory: directory}
}

// Check runs health checks against all components.
// Without the search backend nothing works, so its failure is Unhealthy;
// cache failure or missing directory credentials only degrade.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)
	status := Healthy

	if err := s.search.Ping(ctx); err != nil {
		checks[ComponentSearch] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentSearch] = CheckOK
	}

	switch {
	case s.cache == nil:
		checks[ComponentCache] = CheckDisabled
	case s.cache.Ping(ctx) != nil:
		checks[ComponentCache] = CheckError
		if status == Healthy {
			status = Degraded
		}
	default:
		checks[ComponentCache] = CheckOK
	}

	if s.directory == nil || s.directory.Credentials() == 0 {
		checks[ComponentDirectory] = CheckDisabled
	} else {
		checks[ComponentDirectory] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
