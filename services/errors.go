package services

import "errors"

// The three error kinds every public operation reports. Handlers map them to
// 400/404/403; nothing is retried internally.

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string { return e.Reason }

func validationErr(reason string) error { return &ValidationError{Reason: reason} }
func notFoundErr(entity string) error   { return &NotFoundError{Entity: entity} }
func permissionErr(reason string) error { return &PermissionError{Reason: reason} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
