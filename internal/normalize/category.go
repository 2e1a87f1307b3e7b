// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/mvellano/constellarium/internal/models"
)

// longContentRunes is the content length above which an entry renders
// as an orb.
const longContentRunes = 200

// Category derives the visualization category for an entry. First
// matching rule wins; the activity rules are checked before the
// location rule, so a located exercise entry is a path, not a cluster.
func Category(activity models.ActivityType, hasLocation bool, content, rawMood string) models.VisualizationCategory {
	switch {
	case activity == models.ActivityTravel || activity == models.ActivityExercise:
		return models.CategoryPath
	case activity == models.ActivitySocial || activity == models.ActivityFamily:
		return models.CategoryConstellation
	case hasLocation:
		return models.CategoryCluster
	case utf8.RuneCountInString(content) > longContentRunes ||
		strings.Contains(strings.ToLower(rawMood), "very"):
		return models.CategoryOrb
	default:
		return models.CategoryParticle
	}
}
