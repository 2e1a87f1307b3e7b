// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package database

import (
	"reflect"
	"testing"
	"time"

	"github.com/mvellano/constellarium/internal/models"
)

func TestBuildFilterConditionsNil(t *testing.T) {
	clauses, args := buildFilterConditions(nil)
	if len(clauses) != 0 {
		t.Errorf("expected no clauses for nil filter, got %v", clauses)
	}
	if len(args) != 0 {
		t.Errorf("expected no args for nil filter, got %v", args)
	}
}

func TestBuildFilterConditionsEmpty(t *testing.T) {
	clauses, args := buildFilterConditions(&models.EntryFilter{})
	if len(clauses) != 0 {
		t.Errorf("expected no clauses for empty filter, got %v", clauses)
	}
	if len(args) != 0 {
		t.Errorf("expected no args for empty filter, got %v", args)
	}
}

func TestBuildFilterConditions(t *testing.T) {
	mood := models.MoodHappy
	activity := models.ActivityExercise
	category := models.CategoryPath
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	hasLoc := true
	noLoc := false

	tests := []struct {
		name       string
		filter     *models.EntryFilter
		wantClause []string
		wantArgs   []interface{}
	}{
		{
			name:       "mood",
			filter:     &models.EntryFilter{Mood: &mood},
			wantClause: []string{"mood = ?"},
			wantArgs:   []interface{}{"happy"},
		},
		{
			name:       "activity",
			filter:     &models.EntryFilter{Activity: &activity},
			wantClause: []string{"activity = ?"},
			wantArgs:   []interface{}{"exercise"},
		},
		{
			name:       "category",
			filter:     &models.EntryFilter{Category: &category},
			wantClause: []string{"category = ?"},
			wantArgs:   []interface{}{"path"},
		},
		{
			name:       "since",
			filter:     &models.EntryFilter{Since: &since},
			wantClause: []string{"timestamp >= ?"},
			wantArgs:   []interface{}{since},
		},
		{
			name:       "until",
			filter:     &models.EntryFilter{Until: &until},
			wantClause: []string{"timestamp <= ?"},
			wantArgs:   []interface{}{until},
		},
		{
			name:       "has location",
			filter:     &models.EntryFilter{HasLocation: &hasLoc},
			wantClause: []string{"latitude IS NOT NULL AND longitude IS NOT NULL"},
			wantArgs:   []interface{}{},
		},
		{
			name:       "without location",
			filter:     &models.EntryFilter{HasLocation: &noLoc},
			wantClause: []string{"(latitude IS NULL OR longitude IS NULL)"},
			wantArgs:   []interface{}{},
		},
		{
			name:       "search",
			filter:     &models.EntryFilter{Search: "coffee"},
			wantClause: []string{"content ILIKE ?"},
			wantArgs:   []interface{}{"%coffee%"},
		},
		{
			name: "mood and search combine",
			filter: &models.EntryFilter{
				Mood:   &mood,
				Search: "run",
			},
			wantClause: []string{"mood = ?", "content ILIKE ?"},
			wantArgs:   []interface{}{"happy", "%run%"},
		},
		{
			name: "limit and offset produce no clauses",
			filter: &models.EntryFilter{
				Limit:  10,
				Offset: 20,
			},
			wantClause: []string{},
			wantArgs:   []interface{}{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses, args := buildFilterConditions(tt.filter)
			if !reflect.DeepEqual(clauses, tt.wantClause) {
				t.Errorf("clauses: got %v, want %v", clauses, tt.wantClause)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args: got %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildFilterConditionsNormalizesTimesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	since := time.Date(2024, 6, 1, 14, 0, 0, 0, loc)

	_, args := buildFilterConditions(&models.EntryFilter{Since: &since})
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(args))
	}

	got, ok := args[0].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time arg, got %T", args[0])
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC arg, got %v", got.Location())
	}
	if !got.Equal(since) {
		t.Errorf("UTC conversion changed the instant: got %v, want %v", got, since)
	}
}

func TestJoinConditions(t *testing.T) {
	tests := []struct {
		name    string
		clauses []string
		want    string
	}{
		{"empty", []string{}, ""},
		{"single", []string{"mood = ?"}, "mood = ?"},
		{"multiple", []string{"mood = ?", "activity = ?"}, "mood = ? AND activity = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinConditions(tt.clauses); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
