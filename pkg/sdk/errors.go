package gravityview

import "github.com/GravityKit/GravityView-sub009/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrViewNotFound         = domain.ErrViewNotFound
	ErrFormNotFound         = domain.ErrFormNotFound
	ErrInvalidConfiguration = domain.ErrInvalidConfiguration
	ErrUnknownFieldType     = domain.ErrUnknownFieldType
	ErrSieveNotImplemented  = domain.ErrSieveNotImplemented
)
