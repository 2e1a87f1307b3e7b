// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package websocket

import (
	"github.com/mvellano/constellarium/internal/journal"
)

// Notifier adapts the hub to the importer's run notification interface.
// The importer calls these from its run goroutine; all methods enqueue
// onto the hub's buffered broadcast channel and never block.
type Notifier struct {
	hub *Hub
}

// Compile-time check that Notifier satisfies journal.RunNotifier.
var _ journal.RunNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier that broadcasts run events through hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// ImportProgress broadcasts a live progress snapshot.
func (n *Notifier) ImportProgress(summary *journal.ProgressSummary) {
	n.hub.BroadcastImportProgress(summary)
}

// ImportCompleted broadcasts the final result of a finished run.
func (n *Notifier) ImportCompleted(result *journal.RunResult) {
	n.hub.BroadcastImportCompleted(result)
}

// ImportFailed broadcasts a run failure or cancellation.
func (n *Notifier) ImportFailed(sourcePath string, err error) {
	n.hub.BroadcastImportFailed(sourcePath, err)
}
