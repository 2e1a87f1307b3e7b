// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package normalize

import (
	"strings"

	"github.com/mvellano/constellarium/internal/models"
)

// activityWords maps exact lower-cased legacy activity values to
// activity types.
var activityWords = map[string]models.ActivityType{
	"work":     models.ActivityWork,
	"working":  models.ActivityWork,
	"office":   models.ActivityWork,
	"job":      models.ActivityWork,
	"meeting":  models.ActivityWork,
	"meetings": models.ActivityWork,

	"exercise": models.ActivityExercise,
	"workout":  models.ActivityExercise,
	"gym":      models.ActivityExercise,
	"run":      models.ActivityExercise,
	"running":  models.ActivityExercise,
	"walk":     models.ActivityExercise,
	"walking":  models.ActivityExercise,
	"hike":     models.ActivityExercise,
	"hiking":   models.ActivityExercise,
	"yoga":     models.ActivityExercise,
	"swimming": models.ActivityExercise,
	"sports":   models.ActivityExercise,

	"social":  models.ActivitySocial,
	"friend":  models.ActivitySocial,
	"friends": models.ActivitySocial,
	"party":   models.ActivitySocial,
	"meetup":  models.ActivitySocial,
	"hangout": models.ActivitySocial,
	"date":    models.ActivitySocial,

	"food":       models.ActivityFood,
	"meal":       models.ActivityFood,
	"breakfast":  models.ActivityFood,
	"lunch":      models.ActivityFood,
	"dinner":     models.ActivityFood,
	"cooking":    models.ActivityFood,
	"restaurant": models.ActivityFood,
	"coffee":     models.ActivityFood,

	"travel":   models.ActivityTravel,
	"trip":     models.ActivityTravel,
	"vacation": models.ActivityTravel,
	"holiday":  models.ActivityTravel,
	"flight":   models.ActivityTravel,
	"drive":    models.ActivityTravel,
	"driving":  models.ActivityTravel,
	"commute":  models.ActivityTravel,

	"learning": models.ActivityLearning,
	"learn":    models.ActivityLearning,
	"study":    models.ActivityLearning,
	"studying": models.ActivityLearning,
	"reading":  models.ActivityLearning,
	"class":    models.ActivityLearning,
	"course":   models.ActivityLearning,
	"lecture":  models.ActivityLearning,

	"entertainment": models.ActivityEntertainment,
	"movie":         models.ActivityEntertainment,
	"movies":        models.ActivityEntertainment,
	"tv":            models.ActivityEntertainment,
	"gaming":        models.ActivityEntertainment,
	"games":         models.ActivityEntertainment,
	"music":         models.ActivityEntertainment,
	"concert":       models.ActivityEntertainment,

	"health":     models.ActivityHealth,
	"doctor":     models.ActivityHealth,
	"dentist":    models.ActivityHealth,
	"therapy":    models.ActivityHealth,
	"meditation": models.ActivityHealth,
	"sick":       models.ActivityHealth,
	"medical":    models.ActivityHealth,
	"hospital":   models.ActivityHealth,

	"family":   models.ActivityFamily,
	"kids":     models.ActivityFamily,
	"children": models.ActivityFamily,
	"parents":  models.ActivityFamily,
	"home":     models.ActivityFamily,
}

// activityKeywords is the reduced substring fallback, checked in order
// after the exact table misses. Entertainment and health carry no
// fallback keywords: they are reachable only through exact phrases.
var activityKeywords = []struct {
	keywords []string
	activity models.ActivityType
}{
	{[]string{"work", "office"}, models.ActivityWork},
	{[]string{"exercise", "gym"}, models.ActivityExercise},
	{[]string{"friend", "social"}, models.ActivitySocial},
	{[]string{"food", "eat"}, models.ActivityFood},
	{[]string{"travel", "trip"}, models.ActivityTravel},
	{[]string{"learn", "study"}, models.ActivityLearning},
	{[]string{"family", "home"}, models.ActivityFamily},
}

// Activity classifies a raw legacy activity value. Blank input and
// anything unrecognized by both tiers returns models.ActivityUnknown.
func Activity(raw string) models.ActivityType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.ActivityUnknown
	}

	if activity, ok := activityWords[s]; ok {
		return activity
	}

	for _, entry := range activityKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(s, kw) {
				return entry.activity
			}
		}
	}

	return models.ActivityUnknown
}
