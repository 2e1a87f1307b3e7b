// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import (
	"time"

	"github.com/mvellano/constellarium/internal/database"
)

// dedupKey identifies an entry by content and timestamp. Timestamps
// are keyed at microsecond resolution in UTC, matching the store's
// timestamp precision, so an in-run key always equals the key of its
// persisted form.
type dedupKey struct {
	content   string
	unixMicro int64
}

// dedupIndex answers "was an entry with this content and timestamp
// already accepted or persisted" in O(1). It is preloaded from the
// store at run start and extended with every in-run acceptance; it is
// not safe for concurrent use, which the sequential pipeline never
// needs.
type dedupIndex struct {
	seen map[dedupKey]struct{}
}

func newDedupIndex() *dedupIndex {
	return &dedupIndex{seen: make(map[dedupKey]struct{})}
}

func keyFor(content string, ts time.Time) dedupKey {
	return dedupKey{content: content, unixMicro: ts.UTC().UnixMicro()}
}

// preload seeds the index with the keys of every persisted entry.
func (d *dedupIndex) preload(keys []database.EntryKey) {
	for _, k := range keys {
		d.seen[keyFor(k.Content, k.Timestamp)] = struct{}{}
	}
}

// observe records an entry's key and reports whether it was already
// present.
func (d *dedupIndex) observe(content string, ts time.Time) bool {
	k := keyFor(content, ts)
	if _, dup := d.seen[k]; dup {
		return true
	}
	d.seen[k] = struct{}{}
	return false
}

func (d *dedupIndex) size() int {
	return len(d.seen)
}
