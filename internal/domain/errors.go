package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrDatesUnavailable   = errors.New("dates unavailable")
	ErrDuplicateOrderID   = errors.New("duplicate order id")
	ErrVehicleUnavailable = errors.New("vehicle not available")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDuplicatePromoCode = errors.New("promo code already exists")
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

// ValidationError carries either a single field message or a field-keyed map.
type ValidationError struct {
	Field  string
	Msg    string
	Fields map[string][]string
	Err    error
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

// FieldErrors returns the per-field messages, folding Field/Msg in when set.
func (e ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = append([]string(nil), v...)
	}
	if e.Field != "" {
		msg := e.Msg
		if msg == "" {
			msg = "invalid " + e.Field
		}
		out[e.Field] = append(out[e.Field], msg)
	}
	return out
}

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

type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
	Err error
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

func (e ForbiddenError) Unwrap() error { return e.Err }

// GatewayError wraps failures of the external payment provider.
type GatewayError struct {
	Op  string
	Err error
}

func (e GatewayError) Error() string {
	if e.Op == "" {
		return "payment gateway error"
	}
	return fmt.Sprintf("payment gateway %s failed", e.Op)
}

func (e GatewayError) Unwrap() error { return e.Err }

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

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsGateway(err error) bool {
	var target GatewayError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
