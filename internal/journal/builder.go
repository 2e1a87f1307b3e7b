// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mvellano/constellarium/internal/models"
	"github.com/mvellano/constellarium/internal/normalize"
	"github.com/mvellano/constellarium/internal/source"
)

// classify runs the normalizers over a record's raw fields. Total:
// any input, including junk, yields valid enum members.
func classify(rec *source.LegacyRecord) (models.MoodLevel, models.ActivityType, models.VisualizationCategory, models.SpatialPlacement) {
	mood := normalize.Mood(rec.Mood)
	activity := normalize.Activity(rec.Activity)

	hasLocation := rec.Latitude != nil && rec.Longitude != nil
	category := normalize.Category(activity, hasLocation, strings.TrimSpace(rec.Content), rec.Mood)
	placement := normalize.Place(mood, activity)

	return mood, activity, category, placement
}

// buildEntry assembles and validates a canonical entry from a record
// and its classification. Content is trimmed for storage; an entry is
// never built from blank content, so emptiness is checked on the raw
// record here and again on the assembled entry in validateEntry.
func buildEntry(rec *source.LegacyRecord, mood models.MoodLevel, activity models.ActivityType, category models.VisualizationCategory, placement models.SpatialPlacement) (*models.JournalEntry, error) {
	content := strings.TrimSpace(rec.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if n := utf8.RuneCountInString(content); n > models.MaxContentLength {
		return nil, fmt.Errorf("%w: %d characters", ErrContentTooLong, n)
	}
	if err := validateLocation(rec.Latitude, rec.Longitude); err != nil {
		return nil, err
	}

	entry := &models.JournalEntry{
		ID:        uuid.New(),
		Timestamp: rec.Timestamp.UTC(),
		Content:   content,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Tags:      cleanTags(rec.Tags),
		Mood:      mood,
		Activity:  activity,
		Category:  category,
		Placement: placement,
	}

	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// validateEntry re-checks invariants on the assembled entry. Blank
// content must be unbuildable no matter what assembly does.
func validateEntry(e *models.JournalEntry) error {
	if strings.TrimSpace(e.Content) == "" {
		return ErrEmptyContent
	}
	if n := utf8.RuneCountInString(e.Content); n > models.MaxContentLength {
		return fmt.Errorf("%w: %d characters", ErrContentTooLong, n)
	}
	return validateLocation(e.Latitude, e.Longitude)
}

// validateLocation enforces the coordinate pair invariant: both
// present or both absent, latitude in [-90, 90] and longitude in
// [-180, 180], bounds inclusive.
func validateLocation(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return fmt.Errorf("%w: only one coordinate present", ErrInvalidLocation)
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("%w: latitude %g out of range", ErrInvalidLocation, *lat)
	}
	if *lng < -180 || *lng > 180 {
		return fmt.Errorf("%w: longitude %g out of range", ErrInvalidLocation, *lng)
	}
	return nil
}

// cleanTags trims and lower-cases tags, dropping empties. Source order
// is preserved and repeats survive; tags are a sequence, not a set.
func cleanTags(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return nil
	}
	return tags
}
