// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package api

import "errors"

// Error codes used in APIError.Code.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "AUTHENTICATION_ERROR"
	CodeNotReady     = "NOT_READY"
	CodeTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeInternal     = "INTERNAL_ERROR"
)

var (
	// ErrMissingToken means no bearer token was sent.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrBadToken means the bearer token did not match.
	ErrBadToken = errors.New("invalid bearer token")
)
