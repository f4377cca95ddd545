package kbsearch

import "github.com/kailas-cloud/kbsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound   = domain.ErrNotFound
	ErrValidation = domain.ErrValidation
)
