// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package logging

import (
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short", "abc123", "***"},
		{"boundary", "123456789012", "***"},
		{"long", "a1b2c3d4e5f6g7h8", "a1b2...g7h8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeToken(tt.input); got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTokenNeverLeaksMiddle(t *testing.T) {
	t.Parallel()

	token := "prefixSECRETMIDDLEsuffix"
	got := SanitizeToken(token)

	if strings.Contains(got, "SECRETMIDDLE") {
		t.Errorf("sanitized token leaks middle section: %q", got)
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "connection refused", "connection refused"},
		{"password", "invalid password for user", "authentication error"},
		{"bearer", "Bearer abc rejected", "authentication error"},
		{"token", "token expired", "authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeError(tt.input); got != tt.want {
				t.Errorf("SanitizeError(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeErrorTruncatesLongMessages(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	got := SanitizeError(long)

	if len(got) != 203 { // 200 chars + "..."
		t.Errorf("expected truncation to 203 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}
