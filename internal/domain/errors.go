package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// infrastructure or provider details. The code-flow messages ("verification code
// not found" etc.) double as the user-facing error strings the client shows, so
// their wording is part of the contract.
var (
	ErrMissingPhone   = errors.New("no phone number on account")
	ErrCodeNotFound   = errors.New("verification code not found")
	ErrCodeExpired    = errors.New("verification code has expired")
	ErrCodeMismatch   = errors.New("invalid verification code")
	ErrDeliveryFailed = errors.New("could not send verification code")
	ErrStore          = errors.New("storage failure")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)
