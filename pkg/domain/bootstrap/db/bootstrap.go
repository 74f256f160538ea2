package db

import "context"

// BootstrapInterface is the store-side face of one-time initialization.
//
// The lock it hands out is the only ordering primitive replicas share:
// at most one session holds it at any instant, and holding it is what
// makes schema creation and bulk loading safe.
type BootstrapInterface interface {
	// WithInitLock tries to take the init lock without blocking and,
	// when it wins, runs criticalSection while the lock is held.
	//
	// Returns (false, nil) when the lock is already held elsewhere:
	// that is the follower path, not an error. A bounded acquisition
	// timeout is treated the same way, since the current holder may
	// legitimately be slow.
	//
	// The lock is released on every exit path, whether criticalSection
	// returns nil, returns an error, or panics.
	WithInitLock(ctx context.Context, criticalSection func(context.Context) error) (bool, error)

	// EnsureSchema creates the required tables, indexes and cascade
	// rules. Safe to run when the schema already exists.
	EnsureSchema(ctx context.Context) error

	// RealignDocumentSequence moves the document id sequence to the
	// current maximum id in use, so that inserts which bypassed the
	// sequence (explicit ids, bulk load) cannot cause collisions later.
	RealignDocumentSequence(ctx context.Context) error

	// MarkCompleted records that initialization has finished and how
	// many corpus documents were loaded. Upserted, so reruns converge.
	MarkCompleted(ctx context.Context, documents int) error

	// Completed reports whether a completion marker has been recorded.
	//
	// (false, nil) also covers the case where the schema does not
	// exist yet, so health probes can call this at any time.
	Completed(ctx context.Context) (bool, error)
}
