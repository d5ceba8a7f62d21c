// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package eventbus

import (
	"time"

	"github.com/Vansh-Parate/Cultiva-sub001/internal/events"
	"github.com/Vansh-Parate/Cultiva-sub001/internal/realtime"
)

// toUserAndEntity emits to the owner and to anyone watching the entity.
func (b *Bus) toUserAndEntity(principalID, entityID string, e events.Event) {
	n := b.gw.EmitToUser(principalID, e)
	if entityID != "" {
		n += b.gw.EmitToEntity(entityID, e)
	}
	b.publish(principalID, entityID, e, n)
}

// toUserAndCareTasks emits to the owner and to their care task stream.
func (b *Bus) toUserAndCareTasks(principalID, entityID string, e events.Event) {
	n := b.gw.EmitToUser(principalID, e)
	n += b.gw.EmitToUserScope(principalID, realtime.ScopeCareTasks, e)
	b.publish(principalID, entityID, e, n)
}

func (b *Bus) toUser(principalID, entityID string, e events.Event) {
	b.publish(principalID, entityID, e, b.gw.EmitToUser(principalID, e))
}

func (b *Bus) toEveryone(principalID, entityID string, e events.Event) {
	b.publish(principalID, entityID, e, b.gw.Broadcast(e))
}

// Plants

func (b *Bus) PlantCreated(principalID string, plant events.Plant) {
	b.toUserAndEntity(principalID, plant.ID, events.PlantCreated{Plant: plant})
}

func (b *Bus) PlantUpdated(principalID string, plant events.Plant) {
	b.toUserAndEntity(principalID, plant.ID, events.PlantUpdated{Plant: plant})
}

func (b *Bus) PlantDeleted(principalID, plantID string) {
	b.toUserAndEntity(principalID, plantID, events.PlantDeleted{PlantID: plantID})
}

func (b *Bus) PlantImageAdded(principalID, plantID string, image events.PlantImage) {
	b.toUserAndEntity(principalID, plantID, events.PlantImageAdded{PlantID: plantID, Image: image})
}

// Health checks

// HealthCheckStarted is stamped with the bus clock.
func (b *Bus) HealthCheckStarted(entityID, principalID string) {
	b.toUserAndEntity(principalID, entityID, events.HealthCheckStarted{
		PlantID:   entityID,
		StartedAt: b.now().UTC(),
	})
}

func (b *Bus) HealthCheckComplete(entityID, principalID string, results events.HealthResults) {
	b.toUserAndEntity(principalID, entityID, events.HealthCheckCompleted{
		PlantID:     entityID,
		Results:     results,
		CompletedAt: b.now().UTC(),
	})
}

func (b *Bus) HealthStatusUpdated(entityID, principalID, status string) {
	b.toUserAndEntity(principalID, entityID, events.HealthStatusUpdated{
		PlantID:   entityID,
		Status:    status,
		UpdatedAt: b.now().UTC(),
	})
}

// Care tasks

func (b *Bus) TaskCreated(principalID string, task events.Task) {
	b.toUserAndCareTasks(principalID, task.ID, events.TaskCreated{Task: task})
}

func (b *Bus) TaskUpdated(principalID string, task events.Task) {
	b.toUserAndCareTasks(principalID, task.ID, events.TaskUpdated{Task: task})
}

// TaskCompleted sends the task with taskID as its id and a completion time.
func (b *Bus) TaskCompleted(principalID, taskID string, task events.Task) {
	task.ID = taskID
	b.toUserAndCareTasks(principalID, taskID, events.TaskCompleted{
		Task:        task,
		CompletedAt: b.now().UTC(),
	})
}

func (b *Bus) TaskDeleted(principalID, taskID string) {
	b.toUserAndCareTasks(principalID, taskID, events.TaskDeleted{TaskID: taskID})
}

func (b *Bus) TaskSnoozed(principalID, taskID string, newDueDate time.Time) {
	b.toUserAndCareTasks(principalID, taskID, events.TaskSnoozed{TaskID: taskID, NewDueDate: newDueDate})
}

// Community. Posts and reactions are public; they go to every connection.

// PostCreated broadcasts a summary of post. The body is never sent.
func (b *Bus) PostCreated(post events.Post) {
	ts := post.CreatedAt
	if ts.IsZero() {
		ts = b.now().UTC()
	}
	b.toEveryone(post.Author.ID, post.ID, events.PostCreated{
		ID:        post.ID,
		Title:     post.Title,
		Author:    post.Author,
		Timestamp: ts,
	})
}

func (b *Bus) PostLiked(postID, principalID string, likeCount int) {
	b.toEveryone(principalID, postID, events.PostLiked{
		PostID:    postID,
		LikeCount: likeCount,
		Timestamp: b.now().UTC(),
	})
}

func (b *Bus) PostUnliked(postID, principalID string, likeCount int) {
	b.toEveryone(principalID, postID, events.PostUnliked{
		PostID:    postID,
		LikeCount: likeCount,
		Timestamp: b.now().UTC(),
	})
}

func (b *Bus) CommentAdded(postID string, comment events.Comment) {
	b.toEveryone(comment.Author.ID, postID, events.CommentAdded{PostID: postID, Comment: comment})
}

// Notifications

func (b *Bus) NotificationSent(principalID string, n events.Notification) {
	b.toUser(principalID, n.ID, events.NotificationSent{Notification: n})
}

func (b *Bus) NotificationRead(principalID, notificationID string) {
	b.toUser(principalID, notificationID, events.NotificationRead{
		NotificationID: notificationID,
		ReadAt:         b.now().UTC(),
	})
}

// Weather

func (b *Bus) WeatherUpdated(locationKey string, report events.WeatherReport) {
	e := events.WeatherUpdated{LocationKey: locationKey, Report: report}
	b.publish("", locationKey, e, b.gw.EmitToWeather(locationKey, e))
}

// AI

func (b *Bus) AIResponse(principalID string, answer events.AIAnswer) {
	b.toUser(principalID, answer.RequestID, events.AIResponse{AIAnswer: answer})
}

// AIDiseaseDetection also reaches watchers of plantID when one is given.
func (b *Bus) AIDiseaseDetection(principalID, plantID string, detection events.DiseaseDetection) {
	b.toUserAndEntity(principalID, plantID, events.AIDiseaseDetected{PlantID: plantID, Detection: detection})
}
