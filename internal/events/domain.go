// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package events

import "time"

// The types below are the wire shapes producers hand to the event bus.
// Producers own the data; only ids are required, everything else is
// omitted from the payload when empty.

// Plant is a catalogued plant.
type Plant struct {
	ID           string     `json:"id" validate:"required,max=128"`
	Name         string     `json:"name,omitempty"`
	Nickname     string     `json:"nickname,omitempty"`
	Species      string     `json:"species,omitempty"`
	Location     string     `json:"location,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	HealthStatus string     `json:"healthStatus,omitempty"`
	AcquiredAt   *time.Time `json:"acquiredAt,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// PlantImage is an uploaded photo of a plant.
type PlantImage struct {
	ID         string     `json:"id" validate:"required,max=128"`
	URL        string     `json:"url" validate:"required"`
	Caption    string     `json:"caption,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

// HealthResults is the outcome of a plant health check.
type HealthResults struct {
	Status     string   `json:"status,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Issues     []string `json:"issues,omitempty"`
	Advice     []string `json:"advice,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Task is a scheduled care task.
type Task struct {
	ID         string     `json:"id" validate:"required,max=128"`
	PlantID    string     `json:"plantId,omitempty"`
	Title      string     `json:"title,omitempty"`
	Type       string     `json:"type,omitempty"`
	Status     string     `json:"status,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Recurrence string     `json:"recurrence,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
}

// Post is a community post. Only its summary is ever broadcast.
type Post struct {
	ID        string    `json:"id" validate:"required,max=128"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Author    Author    `json:"author"`
	ImageURLs []string  `json:"imageUrls,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author identifies who wrote a post or comment.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Comment is a reply on a community post.
type Comment struct {
	ID        string     `json:"id" validate:"required,max=128"`
	Body      string     `json:"body,omitempty"`
	Author    Author     `json:"author"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Notification is a user-facing notice.
type Notification struct {
	ID        string     `json:"id" validate:"required,max=128"`
	Type      string     `json:"type,omitempty"`
	Title     string     `json:"title,omitempty"`
	Message   string     `json:"message,omitempty"`
	Link      string     `json:"link,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// WeatherReport is the current conditions for a location.
type WeatherReport struct {
	TemperatureC *float64  `json:"temperatureC,omitempty"`
	HumidityPct  *float64  `json:"humidityPct,omitempty"`
	Condition    string    `json:"condition,omitempty"`
	Advisory     string    `json:"advisory,omitempty"`
	ObservedAt   time.Time `json:"observedAt"`
}

// AIAnswer is the result of an assistant or identification request.
type AIAnswer struct {
	RequestID  string   `json:"requestId,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Content    string   `json:"content,omitempty"`
	Species    string   `json:"species,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// DiseaseDetection is an AI diagnosis.
type DiseaseDetection struct {
	Disease     string   `json:"disease"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Severity    string   `json:"severity,omitempty"`
	Treatment   []string `json:"treatment,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Description string   `json:"description,omitempty"`
}
