// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package services

import "context"

// ContextGateway is satisfied by *realtime.Gateway.
type ContextGateway interface {
	RunWithContext(ctx context.Context) error
}

// GatewayService supervises the realtime gateway. RunWithContext refreshes
// the gauges and, on cancellation, closes every connection.
type GatewayService struct {
	gw   ContextGateway
	name string
}

// NewGatewayService wraps gw.
func NewGatewayService(gw ContextGateway) *GatewayService {
	return &GatewayService{gw: gw, name: "realtime-gateway"}
}

// Serve implements suture.Service.
func (g *GatewayService) Serve(ctx context.Context) error {
	return g.gw.RunWithContext(ctx)
}

// String implements fmt.Stringer.
func (g *GatewayService) String() string {
	return g.name
}
