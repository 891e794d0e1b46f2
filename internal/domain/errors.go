package domain

import "errors"

// Error taxonomy shared across the service and API layers.
//
// Validation and persistence errors abort the operation before or at the
// first write; dispatch errors are observed but never propagate past the
// session service, because by the time a notification fails the unlock
// is already the durable fact of record.
var (
	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
	ErrDispatch    = errors.New("notification dispatch error")
)
