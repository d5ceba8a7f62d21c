// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/validation"
)

// Inbound frame types.
const (
	FrameAuth                 = "auth"
	FrameSubscribeEntity      = "subscribe:entity"
	FrameSubscribeCareTasks   = "subscribe:caretasks"
	FrameSubscribeWeather     = "subscribe:weather"
	FrameUnsubscribeEntity    = "unsubscribe:entity"
	FrameUnsubscribeCareTasks = "unsubscribe:caretasks"
	FrameUnsubscribeWeather   = "unsubscribe:weather"
	FramePing                 = "ping"
)

var knownFrameTypes = map[string]bool{
	FrameAuth:                 true,
	FrameSubscribeEntity:      true,
	FrameSubscribeCareTasks:   true,
	FrameSubscribeWeather:     true,
	FrameUnsubscribeEntity:    true,
	FrameUnsubscribeCareTasks: true,
	FrameUnsubscribeWeather:   true,
	FramePing:                 true,
}

// Frame is a client to server message.
type Frame struct {
	Type    string          `json:"type" validate:"required,max=64"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func decodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	if verr := validation.ValidateStruct(&f); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, verr)
	}
	return &f, nil
}

// stringPayload reads a payload that is either a bare JSON string or an
// object holding the value under one of keys.
func stringPayload(raw json.RawMessage, keys ...string) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return s, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		for _, k := range keys {
			v, ok := obj[k]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return "", fmt.Errorf("%w: %s must be a string", ErrInvalidPayload, k)
			}
			return s, nil
		}
		return "", fmt.Errorf("%w: expected one of %v", ErrInvalidPayload, keys)
	default:
		return "", fmt.Errorf("%w: expected string or object", ErrInvalidPayload)
	}
}

// topicKeyPayload reads a stringPayload and checks it can be embedded in a topic.
func topicKeyPayload(raw json.RawMessage, field string, keys ...string) (string, error) {
	s, err := stringPayload(raw, keys...)
	if err != nil {
		return "", err
	}
	if verr := validation.ValidateVar(field, s, "topickey"); verr != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, verr)
	}
	return s, nil
}

// frameLabel keeps metric cardinality bounded.
func frameLabel(frameType string) string {
	if knownFrameTypes[frameType] {
		return frameType
	}
	return "unknown"
}
