// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package services

import (
	"context"
	"errors"
	"fmt"
)

// Runner is satisfied by *relay.Mirror and *relay.Ingest.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerService supervises a Run loop. A loop that exits before the context
// is done is reported as a failure so that suture restarts it.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps r under name.
func NewRunnerService(name string, r Runner) *RunnerService {
	return &RunnerService{runner: r, name: name}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("exited unexpectedly")
	}
	return fmt.Errorf("%s: %w", s.name, err)
}

// String implements fmt.Stringer.
func (s *RunnerService) String() string {
	return s.name
}
