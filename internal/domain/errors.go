package domain

import (
	"context"
	"errors"
)

var (
	// ErrOwnerRequired is returned when an order has no owning user.
	ErrOwnerRequired = errors.New("order owner is required")
	// ErrLinesRequired is returned for an order without a single line.
	ErrLinesRequired = errors.New("order must contain at least one line")
	// ErrLineProductRequired is returned for a line without a product reference.
	ErrLineProductRequired = errors.New("line product is required")
	// ErrLineQtyInvalid is returned for a non-positive line quantity.
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// ErrLinePriceInvalid is returned for a negative unit price.
	ErrLinePriceInvalid = errors.New("line unit price must be non-negative")
	// ErrAmountNegative is returned for a negative order amount.
	ErrAmountNegative = errors.New("order amount must be non-negative")
	// ErrAmountMismatch is returned when the amount does not match the line sum.
	ErrAmountMismatch = errors.New("order amount does not match lines sum")
	// ErrInitialStatusInvalid is returned when a placed order does not start as NEW.
	ErrInitialStatusInvalid = errors.New("new order must have status NEW")
	// ErrStatusUnknown is returned for a status outside the defined set.
	ErrStatusUnknown = errors.New("unknown status")

	// ErrComplaintDescriptionRequired is returned for a complaint without text.
	ErrComplaintDescriptionRequired = errors.New("complaint description is required")
	// ErrComplaintTypeRequired is returned for a complaint without a type.
	ErrComplaintTypeRequired = errors.New("complaint type is required")
	// ErrComplaintManagerRequired is returned for a complaint without an assigned manager.
	ErrComplaintManagerRequired = errors.New("complaint manager is required")

	// ErrStationNameRequired is returned for a station without a name.
	ErrStationNameRequired = errors.New("station name is required")

	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound is returned when a referenced product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrComplaintNotFound is returned when a complaint does not exist.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrStationNotFound is returned when a station does not exist.
	ErrStationNotFound = errors.New("station not found")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden is returned when the actor is neither the owner nor in the
	// privileged role set for the operation.
	ErrForbidden = errors.New("operation not permitted for actor")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientStock is returned when a requested quantity exceeds the
	// available product stock at decrement time.
	ErrInsufficientStock = errors.New("insufficient product stock")
	// ErrInvalidTransition is returned for an out-of-sequence status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyExists is returned on a duplicate identifier or reference.
	ErrAlreadyExists = errors.New("entity already exists")
)

// ErrorKind is the caller-visible failure class of a domain error.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

var validationErrs = []error{
	ErrOwnerRequired, ErrLinesRequired, ErrLineProductRequired,
	ErrLineQtyInvalid, ErrLinePriceInvalid, ErrAmountNegative,
	ErrAmountMismatch, ErrInitialStatusInvalid, ErrStatusUnknown,
	ErrComplaintDescriptionRequired, ErrComplaintTypeRequired,
	ErrComplaintManagerRequired, ErrStationNameRequired,
}

var notFoundErrs = []error{
	ErrOrderNotFound, ErrProductNotFound, ErrComplaintNotFound,
	ErrStationNotFound, ErrUserNotFound,
}

// Classify maps err onto exactly one ErrorKind. Anything not recognized,
// including persistence and timeout failures, is internal.
func Classify(err error) ErrorKind {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return KindValidation
		}
	}
	for _, n := range notFoundErrs {
		if errors.Is(err, n) {
			return KindNotFound
		}
	}
	switch {
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidCredentials):
		return KindForbidden
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, context.DeadlineExceeded):
		return KindInternal
	default:
		return KindInternal
	}
}

// IsConflict reports whether err is a conflict-class failure.
func IsConflict(err error) bool {
	return Classify(err) == KindConflict
}
