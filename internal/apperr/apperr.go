// Package apperr defines the error taxonomy shared by services and
// handlers. Handlers translate these into HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrForbidden  = errors.New("forbidden")

	// ErrMaterialInUse guards raw-material deletion while product
	// links still reference the row.
	ErrMaterialInUse = errors.New("raw material is still required by one or more products")
)

// InsufficientStockError reports which material a reconciliation run
// could not satisfy and by how much.
type InsufficientStockError struct {
	Material  string
	Needed    int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material '%s'. Needed: %d, Available: %d",
		e.Material, e.Needed, e.Available)
}

// Validationf wraps a formatted message with ErrValidation so handlers
// can match it with errors.Is.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
