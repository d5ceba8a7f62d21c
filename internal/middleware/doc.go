// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package middleware provides the HTTP middleware shared by the gateway's
// chi router.
//
// RequestID assigns or propagates X-Request-ID and seeds the logging context
// with request and correlation ids. PrometheusMetrics records request
// counts, latency and in-flight requests labelled by the chi route pattern,
// so that path parameters such as principal ids do not explode label
// cardinality.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
package middleware
