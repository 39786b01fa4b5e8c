package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by services. Callers match them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrExternalService = errors.New("external service failed")

	ErrUserNotExist      = errors.New("user does not exist")
	ErrIncorrectPassword = errors.New("incorrect password")
)

func notFound(what string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// lookupErr turns gorm.ErrRecordNotFound into ErrNotFound and wraps the rest.
func lookupErr(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what, id)
	}
	return fmt.Errorf("get %s %v: %w", what, id, err)
}
