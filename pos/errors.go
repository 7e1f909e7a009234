/*
errors.go - Centralized error types for the pos engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The HTTP layer maps these to status codes via the classifier helpers.

ERROR CATEGORIES:
  1. Input errors     - Malformed or missing request fields (client, 4xx)
  2. Business errors  - Unknown product, insufficient stock (client, 4xx)
  3. Storage errors   - State could not be persisted (server, 5xx)

USAGE:
  Callers match with errors.Is / errors.As:

    var stockErr *pos.InsufficientStockError
    if errors.As(err, &stockErr) {
        // stockErr.Available, stockErr.Requested
    }

SEE ALSO:
  - engine.go: Produces these errors
  - api/handlers.go: Maps them to HTTP responses
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProductNotFound is returned when a referenced product doesn't exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when a sale requests more units than
	// the product has on hand.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPersistence is returned when the state store failed to write.
	// Nothing was durably written, so the operation is safe to retry.
	ErrPersistence = errors.New("failed to persist state")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError carries the human-readable validation message.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }
func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NotFoundError identifies which product id was missing.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

func (e *NotFoundError) Unwrap() error { return ErrProductNotFound }

// InsufficientStockError carries available/requested quantities for display.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or a business-rule violation (HTTP 4xx).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock)
}

// IsNotFound returns true if the error indicates a missing product.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

// invalidInput builds an InvalidInputError with a formatted message.
func invalidInput(format string, args ...any) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
