package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a reservation period overlaps an existing
// reserved or active reservation for the same asset. Expected under
// concurrent booking; the caller decides whether to retry with a
// different period or asset.
var ErrConflict = errors.New("reservation period conflicts with an existing reservation")

// ErrInvalidTransition indicates that a status-changing call was made from a
// status that does not permit it.
var ErrInvalidTransition = errors.New("invalid reservation status transition")

// ErrUnbalanced indicates that the supplied journal lines do not balance
// (sum of debits != sum of credits).
var ErrUnbalanced = errors.New("journal lines do not balance")

// ErrAccountUnknown indicates that a referenced account code does not exist
// or is inactive.
var ErrAccountUnknown = errors.New("account unknown or inactive")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
