package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrInvalidCode covers every failed verification outcome: no code was
	// ever issued, the code expired, or it simply did not match. Callers get
	// one indistinguishable answer so the API cannot be used to probe
	// account state.
	ErrInvalidCode = errors.New("invalid or expired verification code")

	// ErrDeliveryFailed means the reset record was persisted but the email
	// never went out. Distinct from ErrPersistence so callers know a
	// re-request is the right move.
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrPersistence wraps store-level failures where nothing was written.
	ErrPersistence = errors.New("persistence failed")
)
