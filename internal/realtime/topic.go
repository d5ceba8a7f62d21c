// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

package realtime

import "strings"

// Broadcast is the implicit topic every registered connection belongs to.
const Broadcast = "broadcast"

// ScopeCareTasks is the only user sub-scope in use.
const ScopeCareTasks = "caretasks"

const (
	userPrefix    = "user:"
	entityPrefix  = "entity:"
	weatherPrefix = "weather:"
)

// UserTopic is joined by every connection of a principal at authentication.
func UserTopic(principalID string) string {
	return userPrefix + principalID
}

// UserScopeTopic is an opt-in sub-stream of a principal's events.
func UserScopeTopic(principalID, scope string) string {
	return userPrefix + principalID + ":" + scope
}

func EntityTopic(entityID string) string {
	return entityPrefix + entityID
}

func WeatherTopic(locationKey string) string {
	return weatherPrefix + locationKey
}

// isPrincipalTopic reports whether topic is user:<principalID> or one of its scopes.
func isPrincipalTopic(topic, principalID string) bool {
	base := UserTopic(principalID)
	return topic == base || strings.HasPrefix(topic, base+":")
}
