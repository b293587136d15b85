package domain

import (
	"errors"
	"fmt"
	"time"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// CapacityError means the requested seats exceed the remaining quota in
// the booking's channel. Available carries the seats still open.
type CapacityError struct {
	Channel   string
	Requested int
	Available int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("not enough %s seats: requested %d, available %d", e.Channel, e.Requested, e.Available)
}

// InvalidStateError rejects an operation attempted from a status that
// does not permit it. Never coerced, always surfaced.
type InvalidStateError struct {
	Status string
	Action string
}

func (e InvalidStateError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("operation not allowed in status %q", e.Status)
	}
	return fmt.Sprintf("cannot %s a booking in status %q", e.Action, e.Status)
}

// CutoffError rejects a reschedule attempted inside the 24-hour window
// before the current trip departs.
type CutoffError struct {
	Departure time.Time
}

func (e CutoffError) Error() string {
	return fmt.Sprintf("reschedule closed: trip departs %s, changes must be made at least 24 hours before departure",
		e.Departure.Format("2006-01-02 15:04"))
}

// RestrictionError means the passenger profile is blocked from booking.
// Until is zero for indefinite blocks.
type RestrictionError struct {
	ProfileID int64
	Until     time.Time
}

func (e RestrictionError) Error() string {
	if e.Until.IsZero() {
		return "booking blocked for this account"
	}
	return fmt.Sprintf("booking blocked until %s", e.Until.Format("2006-01-02 15:04"))
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsCutoff(err error) bool {
	var target CutoffError
	return errors.As(err, &target)
}

func IsRestriction(err error) bool {
	var target RestrictionError
	return errors.As(err, &target)
}
