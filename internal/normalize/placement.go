// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package normalize

import (
	"github.com/mvellano/constellarium/internal/models"
)

// moodIntensity assigns each mood a fixed intensity in [0, 1].
var moodIntensity = map[models.MoodLevel]float64{
	models.MoodVeryHappy: 1.0,
	models.MoodHappy:     0.8,
	models.MoodNeutral:   0.5,
	models.MoodSad:       0.3,
	models.MoodVerySad:   0.1,
}

// activityLane assigns each activity a fixed depth lane.
var activityLane = map[models.ActivityType]float64{
	models.ActivityWork:          -1.5,
	models.ActivityExercise:      -1.0,
	models.ActivitySocial:        -0.5,
	models.ActivityFood:          0.0,
	models.ActivityTravel:        0.5,
	models.ActivityLearning:      1.0,
	models.ActivityEntertainment: 1.5,
	models.ActivityHealth:        -2.0,
	models.ActivityFamily:        2.0,
	models.ActivityUnknown:       0.0,
}

// Place derives the spatial placement hint for a mood/activity pair.
// X stays zero: the presentation layer assigns it during sequencing.
// Y spreads moods across [-1, 1]; Z is the activity's lane. Undefined
// enum values fall back to the neutral/unknown constants so the
// function stays total.
func Place(mood models.MoodLevel, activity models.ActivityType) models.SpatialPlacement {
	intensity, ok := moodIntensity[mood]
	if !ok {
		intensity = moodIntensity[models.MoodNeutral]
	}
	lane, ok := activityLane[activity]
	if !ok {
		lane = activityLane[models.ActivityUnknown]
	}

	return models.SpatialPlacement{
		X: 0,
		Y: intensity*2 - 1,
		Z: lane,
	}
}
