// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxContentLength is the hard ceiling for entry content. Entries whose
// content exceeds this are rejected at build time, never truncated.
const MaxContentLength = 10000

// MoodLevel is the closed five-value mood classification.
type MoodLevel string

// Mood levels, ordered from highest to lowest intensity.
const (
	MoodVeryHappy MoodLevel = "very_happy"
	MoodHappy     MoodLevel = "happy"
	MoodNeutral   MoodLevel = "neutral"
	MoodSad       MoodLevel = "sad"
	MoodVerySad   MoodLevel = "very_sad"
)

// Valid reports whether m is one of the five defined mood levels.
func (m MoodLevel) Valid() bool {
	switch m {
	case MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad:
		return true
	}
	return false
}

// AllMoodLevels returns the mood levels in intensity order.
// Used by stats aggregation and API parameter validation.
func AllMoodLevels() []MoodLevel {
	return []MoodLevel{MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad}
}

// ActivityType is the closed ten-value activity classification.
// ActivityUnknown is a real member, not an error marker: source values
// that match no curated phrase or keyword land there.
type ActivityType string

// Activity types.
const (
	ActivityWork          ActivityType = "work"
	ActivityExercise      ActivityType = "exercise"
	ActivitySocial        ActivityType = "social"
	ActivityFood          ActivityType = "food"
	ActivityTravel        ActivityType = "travel"
	ActivityLearning      ActivityType = "learning"
	ActivityEntertainment ActivityType = "entertainment"
	ActivityHealth        ActivityType = "health"
	ActivityFamily        ActivityType = "family"
	ActivityUnknown       ActivityType = "unknown"
)

// Valid reports whether a is one of the ten defined activity types.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityWork, ActivityExercise, ActivitySocial, ActivityFood,
		ActivityTravel, ActivityLearning, ActivityEntertainment,
		ActivityHealth, ActivityFamily, ActivityUnknown:
		return true
	}
	return false
}

// AllActivityTypes returns the activity types in declaration order.
func AllActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityWork, ActivityExercise, ActivitySocial, ActivityFood,
		ActivityTravel, ActivityLearning, ActivityEntertainment,
		ActivityHealth, ActivityFamily, ActivityUnknown,
	}
}

// VisualizationCategory is a rendering hint attached to every entry.
// It carries no semantics inside Constellarium beyond being a
// deterministic function of the entry's other fields; downstream
// presentation layers decide what each category looks like.
type VisualizationCategory string

// Visualization categories.
const (
	CategoryCluster       VisualizationCategory = "cluster"
	CategoryPath          VisualizationCategory = "path"
	CategoryConstellation VisualizationCategory = "constellation"
	CategoryOrb           VisualizationCategory = "orb"
	CategoryParticle      VisualizationCategory = "particle"
)

// Valid reports whether c is one of the five defined categories.
func (c VisualizationCategory) Valid() bool {
	switch c {
	case CategoryCluster, CategoryPath, CategoryConstellation, CategoryOrb, CategoryParticle:
		return true
	}
	return false
}

// AllCategories returns the visualization categories in declaration order.
func AllCategories() []VisualizationCategory {
	return []VisualizationCategory{
		CategoryCluster, CategoryPath, CategoryConstellation, CategoryOrb, CategoryParticle,
	}
}

// SpatialPlacement is a three-component rendering hint derived from an
// entry's mood and activity. X is always zero at build time; it is
// reserved for a sequencing assignment made by the presentation layer.
type SpatialPlacement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// JournalEntry is the canonical, validated record persisted by the
// entry store.
//
// Invariants (enforced at build time, assumed everywhere else):
//   - Content is non-empty after trimming and at most MaxContentLength
//     characters
//   - Latitude and Longitude are either both nil or both set, with
//     latitude in [-90, 90] and longitude in [-180, 180]
//   - Tags are trimmed, lower-cased, non-empty, in original source order
//   - Mood, Activity and Category are always valid enum members
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`

	// Optional coordinate pair. Both present or both absent.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Tags []string `json:"tags,omitempty"`

	// Classification results. Always valid members of their enums.
	Mood     MoodLevel             `json:"mood"`
	Activity ActivityType          `json:"activity"`
	Category VisualizationCategory `json:"visualization_category"`

	// Placement is a downstream rendering hint, not user data.
	Placement SpatialPlacement `json:"placement"`
}

// HasLocation reports whether the entry carries a coordinate pair.
func (e *JournalEntry) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}
