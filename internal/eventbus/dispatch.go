// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package eventbus

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/events"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/validation"
)

var (
	// ErrUnknownKind is returned by Dispatch for kinds outside the vocabulary.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrInvalidPublication wraps decoding and validation failures.
	ErrInvalidPublication = errors.New("invalid publication")
)

// Publication is a domain event submitted by an out-of-process producer,
// over HTTP or NATS. Kind is an event name such as "care:task:created".
type Publication struct {
	Kind        string          `json:"kind" validate:"required,max=64"`
	PrincipalID string          `json:"principalId,omitempty" validate:"omitempty,topickey"`
	EntityID    string          `json:"entityId,omitempty" validate:"omitempty,topickey"`
	Data        json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

// DecodePublication parses and validates a wire publication.
func DecodePublication(raw []byte) (*Publication, error) {
	var p Publication
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublication, err)
	}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublication, verr)
	}
	return &p, nil
}

// Kinds lists the kinds Dispatch accepts, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(dispatchers))
	for k := range dispatchers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Dispatch routes p to the matching bus method. Unlike the methods
// themselves it reports errors, so that ingestion can reject bad input.
func (b *Bus) Dispatch(p *Publication) error {
	if p == nil {
		return fmt.Errorf("%w: nil publication", ErrInvalidPublication)
	}
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublication, verr)
	}
	d, ok := dispatchers[p.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
	if d.principal && p.PrincipalID == "" {
		return invalid("principalId", "%s requires principalId", p.Kind)
	}
	return d.fn(b, p)
}

type dispatcher struct {
	principal bool // principalId is required
	fn        func(b *Bus, p *Publication) error
}

var dispatchers = map[string]dispatcher{
	events.NamePlantCreated: {true, func(b *Bus, p *Publication) error {
		plant, err := decode[events.Plant](p.Data)
		if err == nil {
			b.PlantCreated(p.PrincipalID, plant)
		}
		return err
	}},
	events.NamePlantUpdated: {true, func(b *Bus, p *Publication) error {
		plant, err := decode[events.Plant](p.Data)
		if err == nil {
			b.PlantUpdated(p.PrincipalID, plant)
		}
		return err
	}},
	events.NamePlantDeleted: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			PlantID string `json:"plantId"`
		}](p.Data)
		if err != nil {
			return err
		}
		id, err := entityID(p, d.PlantID)
		if err == nil {
			b.PlantDeleted(p.PrincipalID, id)
		}
		return err
	}},
	events.NamePlantImageAdded: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			PlantID string            `json:"plantId"`
			Image   events.PlantImage `json:"image"`
		}](p.Data)
		if err != nil {
			return err
		}
		id, err := entityID(p, d.PlantID)
		if err == nil {
			b.PlantImageAdded(p.PrincipalID, id, d.Image)
		}
		return err
	}},

	events.NameHealthCheckStarted: {true, func(b *Bus, p *Publication) error {
		id, err := entityID(p, "")
		if err == nil {
			b.HealthCheckStarted(id, p.PrincipalID)
		}
		return err
	}},
	events.NameHealthCheckComplete: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			Results events.HealthResults `json:"results"`
		}](p.Data)
		if err != nil {
			return err
		}
		id, err := entityID(p, "")
		if err == nil {
			b.HealthCheckComplete(id, p.PrincipalID, d.Results)
		}
		return err
	}},
	events.NameHealthStatusUpdated: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			Status string `json:"status" validate:"required,max=64"`
		}](p.Data)
		if err != nil {
			return err
		}
		id, err := entityID(p, "")
		if err == nil {
			b.HealthStatusUpdated(id, p.PrincipalID, d.Status)
		}
		return err
	}},

	events.NameTaskCreated: {true, func(b *Bus, p *Publication) error {
		task, err := decode[events.Task](p.Data)
		if err == nil {
			b.TaskCreated(p.PrincipalID, task)
		}
		return err
	}},
	events.NameTaskUpdated: {true, func(b *Bus, p *Publication) error {
		task, err := decode[events.Task](p.Data)
		if err == nil {
			b.TaskUpdated(p.PrincipalID, task)
		}
		return err
	}},
	events.NameTaskCompleted: {true, func(b *Bus, p *Publication) error {
		task, err := decode[events.Task](p.Data)
		if err == nil {
			b.TaskCompleted(p.PrincipalID, task.ID, task)
		}
		return err
	}},
	events.NameTaskDeleted: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			TaskID string `json:"taskId" validate:"required,max=128"`
		}](p.Data)
		if err == nil {
			b.TaskDeleted(p.PrincipalID, d.TaskID)
		}
		return err
	}},
	events.NameTaskSnoozed: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			TaskID     string    `json:"taskId" validate:"required,max=128"`
			NewDueDate time.Time `json:"newDueDate" validate:"required"`
		}](p.Data)
		if err == nil {
			b.TaskSnoozed(p.PrincipalID, d.TaskID, d.NewDueDate)
		}
		return err
	}},

	events.NamePostCreated: {false, func(b *Bus, p *Publication) error {
		post, err := decode[events.Post](p.Data)
		if err == nil {
			b.PostCreated(post)
		}
		return err
	}},
	events.NamePostLiked: {false, func(b *Bus, p *Publication) error {
		d, err := decode[likeData](p.Data)
		if err == nil {
			b.PostLiked(d.PostID, p.PrincipalID, d.LikeCount)
		}
		return err
	}},
	events.NamePostUnliked: {false, func(b *Bus, p *Publication) error {
		d, err := decode[likeData](p.Data)
		if err == nil {
			b.PostUnliked(d.PostID, p.PrincipalID, d.LikeCount)
		}
		return err
	}},
	events.NameCommentAdded: {false, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			PostID  string         `json:"postId" validate:"required,max=128"`
			Comment events.Comment `json:"comment"`
		}](p.Data)
		if err == nil {
			b.CommentAdded(d.PostID, d.Comment)
		}
		return err
	}},

	events.NameNotificationSent: {true, func(b *Bus, p *Publication) error {
		n, err := decode[events.Notification](p.Data)
		if err == nil {
			b.NotificationSent(p.PrincipalID, n)
		}
		return err
	}},
	events.NameNotificationRead: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			NotificationID string `json:"notificationId" validate:"required,max=128"`
		}](p.Data)
		if err == nil {
			b.NotificationRead(p.PrincipalID, d.NotificationID)
		}
		return err
	}},

	events.NameWeatherUpdated: {false, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			LocationKey string               `json:"locationKey" validate:"required,topickey"`
			Report      events.WeatherReport `json:"report"`
		}](p.Data)
		if err == nil {
			b.WeatherUpdated(d.LocationKey, d.Report)
		}
		return err
	}},

	events.NameAIResponse: {true, func(b *Bus, p *Publication) error {
		answer, err := decode[events.AIAnswer](p.Data)
		if err == nil {
			b.AIResponse(p.PrincipalID, answer)
		}
		return err
	}},
	events.NameAIDiseaseDetected: {true, func(b *Bus, p *Publication) error {
		d, err := decode[struct {
			PlantID   string                  `json:"plantId" validate:"omitempty,topickey"`
			Detection events.DiseaseDetection `json:"detection"`
		}](p.Data)
		if err != nil {
			return err
		}
		plantID := d.PlantID
		if plantID == "" {
			plantID = p.EntityID
		}
		b.AIDiseaseDetection(p.PrincipalID, plantID, d.Detection)
		return nil
	}},
}

type likeData struct {
	PostID    string `json:"postId" validate:"required,max=128"`
	LikeCount int    `json:"likeCount" validate:"gte=0"`
}

// decode unmarshals and validates a publication's data. Missing data decodes
// to the zero value, which then fails any required fields.
func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &v); err != nil {
			return v, fmt.Errorf("%w: data: %w", ErrInvalidPublication, err)
		}
	}
	if verr := validation.ValidateStruct(&v); verr != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidPublication, verr)
	}
	return v, nil
}

// entityID prefers the id carried in data and falls back to p.EntityID.
func entityID(p *Publication, fromData string) (string, error) {
	id := fromData
	if id == "" {
		id = p.EntityID
	}
	if verr := validation.ValidateVar("entityId", id, "required,topickey"); verr != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPublication, verr)
	}
	return id, nil
}

// invalid reports a missing field as a required-field validation failure.
func invalid(field, format string, args ...any) error {
	verr := validation.NewFieldError(field, "required", fmt.Sprintf(format, args...))
	return fmt.Errorf("%w: %w", ErrInvalidPublication, verr)
}
