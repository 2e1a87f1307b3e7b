// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package normalize

import (
	"strconv"
	"strings"

	"github.com/mvellano/constellarium/internal/models"
)

// moodWords maps exact lower-cased legacy mood values to mood levels.
// The single-digit entries come from sources that stored a 1-5 scale as
// text; they are matched here before the numeric bands apply.
var moodWords = map[string]models.MoodLevel{
	"very happy": models.MoodVeryHappy,
	"excited":    models.MoodVeryHappy,
	"ecstatic":   models.MoodVeryHappy,
	"joyful":     models.MoodVeryHappy,
	"elated":     models.MoodVeryHappy,
	"5":          models.MoodVeryHappy,

	"happy":    models.MoodHappy,
	"good":     models.MoodHappy,
	"positive": models.MoodHappy,
	"cheerful": models.MoodHappy,
	"content":  models.MoodHappy,
	"4":        models.MoodHappy,

	"neutral": models.MoodNeutral,
	"okay":    models.MoodNeutral,
	"fine":    models.MoodNeutral,
	"normal":  models.MoodNeutral,
	"average": models.MoodNeutral,
	"3":       models.MoodNeutral,

	"sad":        models.MoodSad,
	"down":       models.MoodSad,
	"low":        models.MoodSad,
	"unhappy":    models.MoodSad,
	"melancholy": models.MoodSad,
	"2":          models.MoodSad,

	"very sad":   models.MoodVerySad,
	"depressed":  models.MoodVerySad,
	"terrible":   models.MoodVerySad,
	"awful":      models.MoodVerySad,
	"devastated": models.MoodVerySad,
	"1":          models.MoodVerySad,
}

// moodBands maps integers from the legacy rating scales to mood levels.
// Each band holds two values from the 1-10 scale and one from the 1-5
// scale. The scales overlap (5 sits in both), so band order is
// load-bearing: the first band containing the value wins.
var moodBands = []struct {
	values []int
	mood   models.MoodLevel
}{
	{[]int{9, 10, 5}, models.MoodVeryHappy},
	{[]int{7, 8, 4}, models.MoodHappy},
	{[]int{5, 6, 3}, models.MoodNeutral},
	{[]int{3, 4, 2}, models.MoodSad},
	{[]int{1, 2, 1}, models.MoodVerySad},
}

// Mood classifies a raw legacy mood value. Blank input and anything
// unrecognized by every tier returns models.MoodNeutral.
func Mood(raw string) models.MoodLevel {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.MoodNeutral
	}

	if mood, ok := moodWords[s]; ok {
		return mood
	}

	if n, err := strconv.Atoi(s); err == nil {
		for _, band := range moodBands {
			for _, v := range band.values {
				if n == v {
					return band.mood
				}
			}
		}
		return models.MoodNeutral
	}

	switch {
	case strings.Contains(s, "happy"), strings.Contains(s, "great"), strings.Contains(s, "excellent"):
		return models.MoodHappy
	case strings.Contains(s, "sad"), strings.Contains(s, "bad"), strings.Contains(s, "awful"):
		return models.MoodSad
	}

	return models.MoodNeutral
}
