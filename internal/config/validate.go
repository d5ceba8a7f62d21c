// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Auth modes.
const (
	AuthModeNone = "none"
	AuthModeJWT  = "jwt"
)

// minJWTSecretLength matches the HS256 key size.
const minJWTSecretLength = 32

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateRealtime(),
		c.validateAuth(),
		c.validateNATS(),
		c.validateSecurity(),
		c.validateLogging(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateRealtime() error {
	r := c.Realtime
	var errs []error
	if r.WriteWait <= 0 {
		errs = append(errs, errors.New("WS_WRITE_WAIT must be positive"))
	}
	if r.PongWait <= 0 {
		errs = append(errs, errors.New("WS_PONG_WAIT must be positive"))
	}
	if r.MaxMessageSize <= 0 {
		errs = append(errs, errors.New("WS_MAX_MESSAGE_SIZE must be positive"))
	}
	if r.SendBuffer < 1 {
		errs = append(errs, fmt.Errorf("WS_SEND_BUFFER must be at least 1, got %d", r.SendBuffer))
	}
	if r.InboundRate <= 0 || r.InboundBurst < 1 {
		errs = append(errs, errors.New("WS_INBOUND_RATE and WS_INBOUND_BURST must be positive"))
	}
	if r.StatsInterval <= 0 {
		errs = append(errs, errors.New("WS_STATS_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateAuth() error {
	switch strings.ToLower(c.Auth.Mode) {
	case AuthModeNone:
		return nil
	case AuthModeJWT:
		if len(c.Auth.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
		return nil
	default:
		return fmt.Errorf("AUTH_MODE must be one of %q or %q, got %q", AuthModeNone, AuthModeJWT, c.Auth.Mode)
	}
}

func (c *Config) validateNATS() error {
	n := c.NATS
	if !n.Enabled {
		return nil
	}
	var errs []error
	if !n.EmbeddedServer {
		u, err := url.Parse(n.URL)
		if err != nil || u.Host == "" {
			errs = append(errs, fmt.Errorf("NATS_URL is invalid: %q", n.URL))
		}
	} else if n.Port < -1 || n.Port > 65535 {
		// -1 asks the embedded server for a random free port.
		errs = append(errs, fmt.Errorf("NATS_PORT must be between -1 and 65535, got %d", n.Port))
	}
	if n.MirrorEnabled {
		if n.SubjectPrefix == "" || strings.ContainsAny(n.SubjectPrefix, " *>") {
			errs = append(errs, fmt.Errorf("NATS_SUBJECT_PREFIX is not a valid subject: %q", n.SubjectPrefix))
		}
		if n.MirrorBuffer < 1 {
			errs = append(errs, errors.New("NATS_MIRROR_BUFFER must be at least 1"))
		}
	}
	if n.IngestEnabled && n.IngestSubject == "" {
		errs = append(errs, errors.New("NATS_INGEST_SUBJECT is required when NATS_INGEST_ENABLED=true"))
	}
	// Mirrored records are valid publications, so an overlap would loop them.
	if n.IngestEnabled && n.MirrorEnabled && n.IngestSubject != "" && n.SubjectPrefix != "" &&
		subjectsOverlap(n.IngestSubject, n.SubjectPrefix+".>") {
		errs = append(errs, fmt.Errorf("NATS_INGEST_SUBJECT %q overlaps mirrored subjects %s.>", n.IngestSubject, n.SubjectPrefix))
	}
	return errors.Join(errs...)
}

// subjectsOverlap reports whether some subject matches both NATS subject
// patterns a and b.
func subjectsOverlap(a, b string) bool {
	at, bt := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; ; i++ {
		if i == len(at) || i == len(bt) {
			return len(at) == len(bt)
		}
		x, y := at[i], bt[i]
		if x == ">" || y == ">" {
			return true
		}
		if x != "*" && y != "*" && x != y {
			return false
		}
	}
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.RateLimitDisabled {
		return nil
	}
	if s.RateLimitReqs < 1 || s.RateLimitWindow <= 0 {
		return errors.New("RATE_LIMIT_REQS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
