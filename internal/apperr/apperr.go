// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation flags malformed or out-of-range input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound flags a missing product, sale or supplier where one is required.
	ErrNotFound = errors.New("not found")
)

// InsufficientStockError is returned when a reservation asks for more units
// than the product currently has. Available is reported so the caller can
// show it to the user.
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (available %d)", e.ProductID, e.Available)
}

// AsInsufficientStock unwraps err into an InsufficientStockError if it is one.
func AsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var ise *InsufficientStockError
	if errors.As(err, &ise) {
		return ise, true
	}
	return nil, false
}
