// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package events defines the closed vocabulary of realtime events pushed to
// websocket clients.
//
// Every event is a concrete struct implementing Event. The interface has an
// unexported method, so only this package can add members to the set and the
// gateway can never be handed an arbitrary payload. Each event serializes as
// its payload; Encode wraps it in the wire envelope:
//
//	{"eventName":"care:task:created","payload":{"id":"t1"}}
package events

import (
	"fmt"

	"github.com/goccy/go-json"
)

// SchemaVersion is bumped on breaking payload changes.
const SchemaVersion = 1

// Event is one member of the outbound vocabulary.
type Event interface {
	// Name is the wire eventName, e.g. "plant:created".
	Name() string
	event()
}

// Event names.
const (
	NamePlantCreated        = "plant:created"
	NamePlantUpdated        = "plant:updated"
	NamePlantDeleted        = "plant:deleted"
	NamePlantImageAdded     = "plant:image:added"
	NameHealthCheckStarted  = "health:check:started"
	NameHealthCheckComplete = "health:check:completed"
	NameHealthStatusUpdated = "health:status:updated"
	NameTaskCreated         = "care:task:created"
	NameTaskUpdated         = "care:task:updated"
	NameTaskCompleted       = "care:task:completed"
	NameTaskDeleted         = "care:task:deleted"
	NameTaskSnoozed         = "care:task:snoozed"
	NamePostCreated         = "community:post:created"
	NamePostLiked           = "community:post:liked"
	NamePostUnliked         = "community:post:unliked"
	NameCommentAdded        = "community:comment:added"
	NameNotificationSent    = "notification:sent"
	NameNotificationRead    = "notification:read"
	NameWeatherUpdated      = "weather:updated"
	NameAIResponse          = "ai:response"
	NameAIDiseaseDetected   = "ai:disease:detected"
	NameUserOnline          = "user:online"
	NameUserOffline         = "user:offline"
	NamePong                = "pong"
)

// Names lists every event name in the vocabulary.
func Names() []string {
	return []string{
		NamePlantCreated, NamePlantUpdated, NamePlantDeleted, NamePlantImageAdded,
		NameHealthCheckStarted, NameHealthCheckComplete, NameHealthStatusUpdated,
		NameTaskCreated, NameTaskUpdated, NameTaskCompleted, NameTaskDeleted, NameTaskSnoozed,
		NamePostCreated, NamePostLiked, NamePostUnliked, NameCommentAdded,
		NameNotificationSent, NameNotificationRead,
		NameWeatherUpdated,
		NameAIResponse, NameAIDiseaseDetected,
		NameUserOnline, NameUserOffline,
		NamePong,
	}
}

// Envelope is the outbound frame.
type Envelope struct {
	EventName string `json:"eventName"`
	Payload   Event  `json:"payload"`
}

// Encode renders e as a wire frame. The gateway calls it once per emission
// and shares the bytes across every recipient.
func Encode(e Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("encode event: nil event")
	}
	data, err := json.Marshal(Envelope{EventName: e.Name(), Payload: e})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Name(), err)
	}
	return data, nil
}
