package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrRedactionPolicy is returned by normalize.Normalize when guest mode is
// requested without a redaction rule set. Defaulting either way could leak
// private fields or strip public ones, so the caller must always supply the
// policy explicitly. Handlers should map this to HTTP 500 — it is a wiring
// bug, not a client error.
var ErrRedactionPolicy = errors.New("redaction policy required for guest access")
