package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	kdbbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db"
	xe "github.com/textlake/textlake/pkg/xerrors"
)

// DefaultLockKey is the advisory lock key all replicas agree on.
const DefaultLockKey int64 = 1234567890

// DefaultLockTimeout bounds the try-acquire round trip. Hitting it is
// treated as "lock busy", not as a failure.
const DefaultLockTimeout = 30 * time.Second

type pgBootstrap struct {
	pool        kpool.Pool
	lockKey     int64
	lockTimeout time.Duration
}

type Option func(*pgBootstrap) *pgBootstrap

func WithLockKey(key int64) Option {
	return func(b *pgBootstrap) *pgBootstrap {
		b.lockKey = key
		return b
	}
}

func WithLockTimeout(d time.Duration) Option {
	return func(b *pgBootstrap) *pgBootstrap {
		b.lockTimeout = d
		return b
	}
}

func New(pool kpool.Pool, options ...Option) kdbbootstrap.BootstrapInterface {
	b := &pgBootstrap{
		pool:        pool,
		lockKey:     DefaultLockKey,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range options {
		b = opt(b)
	}
	return b
}

// WithInitLock takes `pg_try_advisory_lock` on a connection pinned for
// the whole critical section. The lock is session-scoped, so the unlock
// must happen on that same connection, before it goes back to the pool.
func (b *pgBootstrap) WithInitLock(
	ctx context.Context, criticalSection func(context.Context) error,
) (bool, error) {
	acqCtx, cancel := context.WithTimeout(ctx, b.lockTimeout)
	defer cancel()

	conn, err := b.pool.Acquire(acqCtx)
	if err != nil {
		if timedOut(acqCtx, ctx) {
			return false, nil
		}
		return false, xe.Wrap(err)
	}
	defer conn.Release()

	var held bool
	if err := conn.QueryRow(
		acqCtx, `select pg_try_advisory_lock($1)`, b.lockKey,
	).Scan(&held); err != nil {
		if timedOut(acqCtx, ctx) {
			return false, nil
		}
		return false, xe.Wrap(err)
	}
	if !held {
		return false, nil
	}

	defer func() {
		// never skip the unlock: a canceled request context must not
		// leave the lock held until the pool drops the session.
		unlockCtx, cancel := context.WithTimeout(context.Background(), b.lockTimeout)
		defer cancel()
		conn.Exec(unlockCtx, `select pg_advisory_unlock($1)`, b.lockKey)
	}()

	return true, criticalSection(ctx)
}

// timedOut tells whether acqCtx hit its own deadline, as opposed to the
// parent being canceled.
func timedOut(acqCtx, parent context.Context) bool {
	return errors.Is(acqCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil
}

func (b *pgBootstrap) EnsureSchema(ctx context.Context) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	for _, ddl := range []string{
		`
		create table if not exists "documents" (
			"id" serial primary key,
			"filename" text unique,
			"content" text
		)
		`,
		`
		create table if not exists "analyses" (
			"id" serial primary key,
			"document_id" integer unique references "documents"("id") on delete cascade,
			"tokens" jsonb,
			"sentences" jsonb,
			"tags" jsonb,
			"entities" jsonb
		)
		`,
		`
		create index if not exists "idx_analyses_document_id"
		on "analyses"("document_id")
		`,
		`
		create table if not exists "bootstrap" (
			"lock_key" bigint primary key,
			"completed_at" timestamp with time zone not null default now(),
			"documents" integer not null default 0
		)
		`,
	} {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (b *pgBootstrap) RealignDocumentSequence(ctx context.Context) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var maxID int
	if err := tx.QueryRow(
		ctx, `select coalesce(max("id"), 0) from "documents"`,
	).Scan(&maxID); err != nil {
		return xe.Wrap(err)
	}

	if maxID == 0 {
		// setval(_, 0, true) is out of the sequence's range. Park the
		// sequence before 1 instead, so the next insert still gets 1.
		if _, err := tx.Exec(
			ctx,
			`select setval(pg_get_serial_sequence('documents', 'id'), 1, false)`,
		); err != nil {
			return xe.Wrap(err)
		}
	} else {
		if _, err := tx.Exec(
			ctx,
			`select setval(pg_get_serial_sequence('documents', 'id'), $1, true)`,
			maxID,
		); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (b *pgBootstrap) MarkCompleted(ctx context.Context, documents int) error {
	if _, err := b.pool.Exec(
		ctx,
		`
		insert into "bootstrap" ("lock_key", "completed_at", "documents")
		values ($1, now(), $2)
		on conflict ("lock_key") do update
		set "completed_at" = excluded."completed_at",
		    "documents" = excluded."documents"
		`,
		b.lockKey, documents,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (b *pgBootstrap) Completed(ctx context.Context) (bool, error) {
	var completed bool
	if err := b.pool.QueryRow(
		ctx,
		`select exists (select 1 from "bootstrap" where "lock_key" = $1)`,
		b.lockKey,
	).Scan(&completed); err != nil {
		pgErr := new(pgconn.PgError)
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			return false, nil
		}
		return false, xe.Wrap(err)
	}
	return completed, nil
}
