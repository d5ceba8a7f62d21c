// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package auth turns the credential carried by a websocket auth frame into a
// principal id.
//
// Sessions are issued elsewhere; this package only verifies what the client
// presents. Two modes exist:
//
//	none  the credential is the principal id (trusted network, development)
//	jwt   the credential is an HS256 token; the principal is its sub claim
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/config"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/validation"
)

// ErrInvalidCredential is returned for any credential that does not resolve.
var ErrInvalidCredential = errors.New("invalid credential")

// PrincipalResolver maps a credential to a principal id.
type PrincipalResolver interface {
	Resolve(ctx context.Context, credential string) (string, error)
}

// ResolverFunc adapts a function to PrincipalResolver.
type ResolverFunc func(ctx context.Context, credential string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, credential string) (string, error) {
	return f(ctx, credential)
}

// NewResolver builds the resolver selected by cfg.Mode.
func NewResolver(cfg *config.AuthConfig) (PrincipalResolver, error) {
	switch strings.ToLower(cfg.Mode) {
	case "", config.AuthModeNone:
		return IdentityResolver{}, nil
	case config.AuthModeJWT:
		r, err := NewJWTResolver(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// IdentityResolver accepts the credential itself as the principal id.
type IdentityResolver struct{}

func (IdentityResolver) Resolve(_ context.Context, credential string) (string, error) {
	principal := strings.TrimSpace(credential)
	if !validation.IsTopicKey(principal) {
		return "", fmt.Errorf("%w: principal id is not usable", ErrInvalidCredential)
	}
	return principal, nil
}
