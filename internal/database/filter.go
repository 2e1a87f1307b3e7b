// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package database

import (
	"strings"

	"github.com/mvellano/constellarium/internal/models"
)

// buildFilterConditions turns an EntryFilter into parameterized WHERE
// clauses. All conditions combine with AND; every user-supplied value
// travels through an argument placeholder, never the SQL text.
func buildFilterConditions(filter *models.EntryFilter) ([]string, []interface{}) {
	whereClauses := []string{}
	args := []interface{}{}

	if filter == nil {
		return whereClauses, args
	}

	if filter.Mood != nil {
		whereClauses = append(whereClauses, "mood = ?")
		args = append(args, string(*filter.Mood))
	}

	if filter.Activity != nil {
		whereClauses = append(whereClauses, "activity = ?")
		args = append(args, string(*filter.Activity))
	}

	if filter.Category != nil {
		whereClauses = append(whereClauses, "category = ?")
		args = append(args, string(*filter.Category))
	}

	if filter.Since != nil {
		whereClauses = append(whereClauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}

	if filter.Until != nil {
		whereClauses = append(whereClauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC())
	}

	if filter.HasLocation != nil {
		if *filter.HasLocation {
			whereClauses = append(whereClauses, "latitude IS NOT NULL AND longitude IS NOT NULL")
		} else {
			whereClauses = append(whereClauses, "(latitude IS NULL OR longitude IS NULL)")
		}
	}

	if filter.Search != "" {
		// Case-insensitive substring match. The pattern is an argument,
		// so wildcard characters in user input stay literal data apart
		// from acting as LIKE wildcards, which is the documented behavior.
		whereClauses = append(whereClauses, "content ILIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}

	return whereClauses, args
}

// joinConditions combines WHERE clauses with AND.
func joinConditions(clauses []string) string {
	return strings.Join(clauses, " AND ")
}
