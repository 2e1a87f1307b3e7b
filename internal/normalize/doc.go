// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package normalize maps free-form legacy field values onto Constellarium's
closed enumerations.

Every function in this package is pure, total and deterministic: any
input, including the empty string and arbitrary junk, yields a defined
enum member. Unclassifiable values land on the explicit defaults
(models.MoodNeutral, models.ActivityUnknown) rather than an error.

Classification strategy, shared by Mood and Activity:

 1. Exact match against curated phrase tables (lower-cased, trimmed)
 2. Numeric-scale fallback for mood (legacy 1-10 and 1-5 scales)
 3. Keyword-substring fallback
 4. Default member

The phrase tables and the numeric band order reproduce the observable
behavior of the legacy datasets these imports come from. The bands
overlap across the two scales; the declared order is authoritative and
must not be rearranged.
*/
package normalize
