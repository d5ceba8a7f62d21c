// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package events

import "time"

// Plant lifecycle.

// PlantCreated is sent to the owner and the plant entity when a plant is added.
type PlantCreated struct{ Plant }

// PlantUpdated carries the plant after an edit.
type PlantUpdated struct{ Plant }

// PlantDeleted names the removed plant.
type PlantDeleted struct {
	PlantID string `json:"plantId"`
}

// PlantImageAdded carries an image newly attached to a plant.
type PlantImageAdded struct {
	PlantID string     `json:"plantId"`
	Image   PlantImage `json:"image"`
}

// Health checks.

// HealthCheckStarted marks the start of an AI health check for a plant.
type HealthCheckStarted struct {
	PlantID   string    `json:"plantId"`
	StartedAt time.Time `json:"startedAt"`
}

// HealthCheckCompleted carries the results of a finished health check.
type HealthCheckCompleted struct {
	PlantID     string        `json:"plantId"`
	Results     HealthResults `json:"results"`
	CompletedAt time.Time     `json:"completedAt"`
}

// HealthStatusUpdated carries a plant's new health status.
type HealthStatusUpdated struct {
	PlantID   string    `json:"plantId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Care tasks.

// TaskCreated carries a newly scheduled care task.
type TaskCreated struct{ Task }

// TaskUpdated carries a care task after an edit.
type TaskUpdated struct{ Task }

// TaskCompleted is the task as sent by the producer plus the completion time.
type TaskCompleted struct {
	Task
	CompletedAt time.Time `json:"completedAt"`
}

// TaskDeleted names the removed care task.
type TaskDeleted struct {
	TaskID string `json:"taskId"`
}

// TaskSnoozed carries the new due date of a postponed task.
type TaskSnoozed struct {
	TaskID     string    `json:"taskId"`
	NewDueDate time.Time `json:"newDueDate"`
}

// Community.

// PostCreated carries a post summary. The body is never broadcast.
type PostCreated struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// PostLiked carries a post's like count after a like.
type PostLiked struct {
	PostID    string    `json:"postId"`
	LikeCount int       `json:"likeCount"`
	Timestamp time.Time `json:"timestamp"`
}

// PostUnliked carries a post's like count after a like is withdrawn.
type PostUnliked struct {
	PostID    string    `json:"postId"`
	LikeCount int       `json:"likeCount"`
	Timestamp time.Time `json:"timestamp"`
}

// CommentAdded carries a new comment on a community post.
type CommentAdded struct {
	PostID  string  `json:"postId"`
	Comment Comment `json:"comment"`
}

// Notifications.

// NotificationSent delivers an in-app notification to its recipient.
type NotificationSent struct{ Notification }

// NotificationRead marks a notification as read on every session of its recipient.
type NotificationRead struct {
	NotificationID string    `json:"notificationId"`
	ReadAt         time.Time `json:"readAt"`
}

// WeatherUpdated carries a fresh weather report for a location.
type WeatherUpdated struct {
	LocationKey string        `json:"locationKey"`
	Report      WeatherReport `json:"report"`
}

// AI.

// AIResponse carries the assistant's answer to a principal's question.
type AIResponse struct{ AIAnswer }

// AIDiseaseDetected carries a disease detection result, optionally tied to a plant.
type AIDiseaseDetected struct {
	PlantID   string           `json:"plantId,omitempty"`
	Detection DiseaseDetection `json:"detection"`
}

// Presence. Emitted by the gateway itself to every connection.

// UserOnline reports a principal's first live connection.
type UserOnline struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// UserOffline reports that a principal's last connection closed.
type UserOffline struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Pong answers a client ping.
type Pong struct {
	Timestamp time.Time `json:"timestamp"`
}

func (PlantCreated) Name() string         { return NamePlantCreated }
func (PlantUpdated) Name() string         { return NamePlantUpdated }
func (PlantDeleted) Name() string         { return NamePlantDeleted }
func (PlantImageAdded) Name() string      { return NamePlantImageAdded }
func (HealthCheckStarted) Name() string   { return NameHealthCheckStarted }
func (HealthCheckCompleted) Name() string { return NameHealthCheckComplete }
func (HealthStatusUpdated) Name() string  { return NameHealthStatusUpdated }
func (TaskCreated) Name() string          { return NameTaskCreated }
func (TaskUpdated) Name() string          { return NameTaskUpdated }
func (TaskCompleted) Name() string        { return NameTaskCompleted }
func (TaskDeleted) Name() string          { return NameTaskDeleted }
func (TaskSnoozed) Name() string          { return NameTaskSnoozed }
func (PostCreated) Name() string          { return NamePostCreated }
func (PostLiked) Name() string            { return NamePostLiked }
func (PostUnliked) Name() string          { return NamePostUnliked }
func (CommentAdded) Name() string         { return NameCommentAdded }
func (NotificationSent) Name() string     { return NameNotificationSent }
func (NotificationRead) Name() string     { return NameNotificationRead }
func (WeatherUpdated) Name() string       { return NameWeatherUpdated }
func (AIResponse) Name() string           { return NameAIResponse }
func (AIDiseaseDetected) Name() string    { return NameAIDiseaseDetected }
func (UserOnline) Name() string           { return NameUserOnline }
func (UserOffline) Name() string          { return NameUserOffline }
func (Pong) Name() string                 { return NamePong }

func (PlantCreated) event()         {}
func (PlantUpdated) event()         {}
func (PlantDeleted) event()         {}
func (PlantImageAdded) event()      {}
func (HealthCheckStarted) event()   {}
func (HealthCheckCompleted) event() {}
func (HealthStatusUpdated) event()  {}
func (TaskCreated) event()          {}
func (TaskUpdated) event()          {}
func (TaskCompleted) event()        {}
func (TaskDeleted) event()          {}
func (TaskSnoozed) event()          {}
func (PostCreated) event()          {}
func (PostLiked) event()            {}
func (PostUnliked) event()          {}
func (CommentAdded) event()         {}
func (NotificationSent) event()     {}
func (NotificationRead) event()     {}
func (WeatherUpdated) event()       {}
func (AIResponse) event()           {}
func (AIDiseaseDetected) event()    {}
func (UserOnline) event()           {}
func (UserOffline) event()          {}
func (Pong) event()                 {}
