package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session gateway
var (
	// Identity mapping errors
	ErrIdentityNotFound    = errors.New("identity not mapped to any customer")
	ErrUpstreamUnavailable = errors.New("upstream registry unavailable")

	// Customer resolution errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrUnknownPartyKind = errors.New("unknown party kind")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidSessionID = errors.New("invalid session id")
	ErrMissingPartyID   = errors.New("party id is required")
	ErrInvalidPartyID   = errors.New("invalid party id")

	// Authentication errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserInfoUnavailable  = errors.New("failed to retrieve user info from identity provider")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedOperation = errors.New("operation not supported by the configured identity provider")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrIdentityUserNotFound = errors.New("user not found in identity provider")

	// Downstream registry errors
	ErrContractNotFound = errors.New("contract not found")
	ErrRoleNotFound     = errors.New("role not found")
	ErrProductNotFound  = errors.New("product not found")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
