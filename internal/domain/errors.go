package domain

import "errors"

var (
	// GSTIN verification errors
	ErrInvalidGSTIN          = errors.New("gstin does not match the required format")
	ErrForbidden             = errors.New("caller is not permitted to perform this action")
	ErrRateLimited           = errors.New("rate limit exceeded")
	ErrProviderNotConfigured = errors.New("gstin verification provider is not configured")
	ErrProviderUnreachable   = errors.New("gstin verification provider is unreachable")
	ErrProviderRejected      = errors.New("gstin verification provider rejected the request")

	// Invoice errors
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrOverpayment     = errors.New("payment exceeds outstanding amount")

	// Duty session errors
	ErrSessionNotFound = errors.New("duty session not found")
	ErrSessionClosed   = errors.New("duty session is already completed")

	// User errors
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailExists           = errors.New("a user with this email already exists")
	ErrEmailDomainNotAllowed = errors.New("email domain is not allowed")
)
