package assessrank

import "github.com/kailas-cloud/assessrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrBuild           = domain.ErrBuild
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrNotReady        = domain.ErrNotReady
)
