package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of these.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrConflict           = errors.New("conflict")
	ErrLifecycleViolation = errors.New("lifecycle violation")
	ErrDependencyDegraded = errors.New("dependency degraded")
)

var (
	ErrRoomNotFound        = fmt.Errorf("%w: room not found", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("%w: reservation not found", ErrNotFound)
	ErrClientNotFound      = fmt.Errorf("%w: client not found", ErrNotFound)

	ErrRoomNotBookable = fmt.Errorf("%w: room is not available for booking", ErrInvalidRequest)
	ErrInvalidDates    = fmt.Errorf("%w: check-out date must be after check-in date", ErrInvalidRequest)
	ErrCheckInPast     = fmt.Errorf("%w: check-in date cannot be in the past", ErrInvalidRequest)
	ErrGuestCount      = fmt.Errorf("%w: guest count must be between %d and %d", ErrInvalidRequest, MinGuests, MaxGuests)
	ErrTooManyGuests   = fmt.Errorf("%w: guest count exceeds room capacity", ErrInvalidRequest)
	ErrEmailRequired   = fmt.Errorf("%w: email is required", ErrInvalidRequest)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown reservation status", ErrInvalidRequest)

	ErrInvalidRoomStatus = fmt.Errorf("%w: unknown room status", ErrInvalidRequest)
	ErrPriceRange        = fmt.Errorf("%w: min_price must not exceed max_price", ErrInvalidRequest)

	ErrRoomUnavailable = fmt.Errorf("%w: room is not available for the selected dates", ErrConflict)

	ErrNotActive          = fmt.Errorf("%w: reservation is not active", ErrLifecycleViolation)
	ErrCancellationWindow = fmt.Errorf("%w: reservation is too close to check-in to cancel", ErrLifecycleViolation)
)

const (
	MinGuests = 1
	MaxGuests = 20
)
