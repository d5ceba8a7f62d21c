// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package services adapts the gateway's components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete type,
// so the package imports neither realtime nor relay and can be tested with
// doubles. Every wrapper implements fmt.Stringer for supervisor logs.
package services
