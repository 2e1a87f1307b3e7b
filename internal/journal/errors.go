// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import "errors"

var (
	// ErrEmptyContent indicates a record whose content is empty or
	// whitespace-only. The row is skipped and counted as an error.
	ErrEmptyContent = errors.New("entry content is empty")

	// ErrContentTooLong indicates content over the ceiling defined by
	// models.MaxContentLength. Entries are rejected, never truncated.
	ErrContentTooLong = errors.New("entry content exceeds maximum length")

	// ErrInvalidLocation indicates a one-sided coordinate pair or a
	// coordinate outside its valid range.
	ErrInvalidLocation = errors.New("entry location is invalid")

	// ErrPersistence indicates the terminal flush failed. The whole run
	// is reported failed; no counters from it can be trusted.
	ErrPersistence = errors.New("entry store flush failed")

	// ErrAlreadyRunning is returned by Run when another import is in
	// progress on the same Importer.
	ErrAlreadyRunning = errors.New("an import is already in progress")

	// ErrNotRunning is returned by Stop when no import is in progress.
	ErrNotRunning = errors.New("no import in progress")
)
