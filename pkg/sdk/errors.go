package msgsearch

import "github.com/kailas-cloud/msgsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrValidation      = domain.ErrValidation
	ErrSearchExecution = domain.ErrSearchExecution
	ErrStatistics      = domain.ErrStatistics
	ErrNoCredentials   = domain.ErrNoCredentials
)

// ValidationError names the rejected query field. Use errors.As() to extract it.
type ValidationError = domain.ValidationError
