// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package normalize

import (
	"testing"

	"github.com/mvellano/constellarium/internal/models"
)

// FuzzMood verifies mood normalization is total: any input maps to a
// valid canonical mood without panicking.
func FuzzMood(f *testing.F) {
	f.Add("happy")
	f.Add("VERY HAPPY")
	f.Add("7")
	f.Add("-3")
	f.Add("")
	f.Add("   ")
	f.Add("feeling really awful today")
	f.Add("4.5")
	f.Add("\x00mood")
	f.Add("😀")
	f.Add(string(make([]byte, 10000)))

	f.Fuzz(func(t *testing.T, raw string) {
		mood := Mood(raw)
		if !mood.Valid() {
			t.Errorf("Mood(%q) = %q, not a canonical mood", raw, mood)
		}
	})
}

// FuzzActivity verifies activity normalization is total.
func FuzzActivity(f *testing.F) {
	f.Add("running")
	f.Add("OFFICE PARTY")
	f.Add("dinner with friends")
	f.Add("")
	f.Add("movie night")
	f.Add("\x00")
	f.Add("日記")

	f.Fuzz(func(t *testing.T, raw string) {
		activity := Activity(raw)
		if !activity.Valid() {
			t.Errorf("Activity(%q) = %q, not a canonical activity", raw, activity)
		}
	})
}

// FuzzCategory verifies categorization is total over arbitrary content
// and mood strings for every activity and location combination.
func FuzzCategory(f *testing.F) {
	f.Add("went hiking", "very happy", true)
	f.Add("", "", false)
	f.Add(string(make([]byte, 500)), "9", true)

	f.Fuzz(func(t *testing.T, content, rawMood string, hasLocation bool) {
		for _, activity := range models.AllActivityTypes() {
			category := Category(activity, hasLocation, content, rawMood)
			if !category.Valid() {
				t.Errorf("Category(%q, %v, ...) = %q, not a canonical category",
					activity, hasLocation, category)
			}
		}
	})
}

// FuzzPlace verifies placement never produces coordinates outside the
// documented ranges, even for non-canonical inputs.
func FuzzPlace(f *testing.F) {
	f.Add("happy", "work")
	f.Add("", "")
	f.Add("bogus", "unknown")

	f.Fuzz(func(t *testing.T, mood, activity string) {
		p := Place(models.MoodLevel(mood), models.ActivityType(activity))

		if p.X != 0 {
			t.Errorf("Place x = %v, want 0", p.X)
		}
		if p.Y < -1 || p.Y > 1 {
			t.Errorf("Place y = %v, outside [-1, 1]", p.Y)
		}
		if p.Z < -2 || p.Z > 2 {
			t.Errorf("Place z = %v, outside [-2, 2]", p.Z)
		}
	})
}
