package ports

import "context"

// SnapshotMirror receives every published ids map snapshot.
// Notify is called on the tick thread and must not block.
type SnapshotMirror interface {
	Notify(snapshot string)

	// Run drains notifications until ctx is cancelled.
	Run(ctx context.Context) error
}
