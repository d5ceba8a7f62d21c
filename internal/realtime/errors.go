// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"errors"

	"github.com/gorilla/websocket"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/auth"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/metrics"
)

// Delivery errors.
var (
	ErrConnectionClosed  = errors.New("connection closed")
	ErrSendBufferFull    = errors.New("send buffer full")
	ErrUnknownConnection = errors.New("unknown connection")
)

// Protocol errors. The offending frame is dropped; the connection stays open.
var (
	ErrMalformedFrame   = errors.New("malformed frame")
	ErrUnknownFrameType = errors.New("unknown frame type")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrEmptyPrincipal   = errors.New("empty principal id")
)

// protocolReason maps an error to its metrics label.
func protocolReason(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return metrics.ReasonNotAuthenticated
	case errors.Is(err, ErrUnknownFrameType):
		return metrics.ReasonUnknownType
	case errors.Is(err, ErrInvalidPayload):
		return metrics.ReasonInvalidPayload
	case errors.Is(err, auth.ErrInvalidCredential):
		return metrics.ReasonInvalidToken
	case errors.Is(err, ErrRateLimited):
		return metrics.ReasonRateLimited
	case errors.Is(err, websocket.ErrReadLimit):
		return metrics.ReasonMessageTooLarge
	default:
		return metrics.ReasonMalformedFrame
	}
}
