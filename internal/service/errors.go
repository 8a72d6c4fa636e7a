// Package service provides application-level services for managing users,
// categories, and products.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions callers check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with operation context
// 3. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. The API layer maps this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrSellerRequired indicates the requesting user must have a seller
	// account for the operation. Mapped to HTTP 403 Forbidden.
	ErrSellerRequired = errors.New("seller account required")
)
