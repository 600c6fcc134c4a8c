package domain

import "errors"

var (
	// ErrNotFound: the referenced project does not exist.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidState: the operation is not allowed in the project's current status.
	ErrInvalidState = errors.New("operation not allowed in current project state")
	// ErrInvalidStatus: the submitted status value is not one of the defined set.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrInvalidPrice: quote price out of the accepted range.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrQuotaExceeded: the owner already has the maximum number of active projects.
	ErrQuotaExceeded = errors.New("active project quota exceeded")
)
