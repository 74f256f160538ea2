package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"
	kdbbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db"
	"github.com/textlake/textlake/pkg/domain/corpus"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
	dberr "github.com/textlake/textlake/pkg/domain/errors/dberrors/postgres"
	"github.com/textlake/textlake/pkg/utils/retry"
	xe "github.com/textlake/textlake/pkg/xerrors"
)

// Code is the outcome of one startup attempt, as seen by process-health
// tooling.
type Code string

const (
	// Initialized: this instance won the acquisition race and set the
	// store up.
	Initialized Code = "INITIALIZED"

	// Skipped: another instance holds (or held) the init lock; this
	// instance did not touch schema or data.
	Skipped Code = "SKIPPED"

	// Failed: this boot attempt could not finish. The supervisor is
	// expected to restart the process; a later attempt (here or on a
	// peer) retries from the lock acquisition.
	Failed Code = "FAILED"
)

type Outcome struct {
	Code Code

	// Documents is the number of corpus items loaded (winner only).
	Documents int

	// SkippedItems lists corpus items that were left out (unreadable,
	// bad encoding). They do not make the attempt fail.
	SkippedItems []corpus.Skip

	// Err is set if and only if Code is Failed.
	Err error
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %s", o.Code, o.Err)
	}
	return string(o.Code)
}

const (
	// DefaultAcquireBudget bounds retries of a transient acquisition
	// failure. Exhausting it is fatal to this instance's startup.
	DefaultAcquireBudget = 90 * time.Second

	defaultBackoffInterval = 100 * time.Millisecond
	defaultBackoffRatio    = 2.0
)

// Coordinator converges any number of concurrently booting replicas to
// exactly-one store initialization.
//
// Each replica runs Run once at boot, before accepting traffic. The
// winner of the store's advisory-lock race creates the schema, loads
// the corpus, realigns the id sequence and records a completion
// marker; every other replica goes straight to serving.
//
// Run is idempotent in effect: any number of runs on any number of
// instances leaves the store in the state of a single run.
type Coordinator struct {
	db        kdbbootstrap.BootstrapInterface
	documents kdbdocument.DocumentInterface
	source    corpus.Source

	acquireBudget time.Duration
	newBackoff    func() retry.Backoff
	logger        zerolog.Logger
}

type Option func(*Coordinator) *Coordinator

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) *Coordinator {
		c.logger = logger
		return c
	}
}

// WithAcquireBudget bounds how long transient acquisition failures are
// retried before the boot attempt is given up.
func WithAcquireBudget(d time.Duration) Option {
	return func(c *Coordinator) *Coordinator {
		c.acquireBudget = d
		return c
	}
}

// WithBackoff replaces the backoff between acquisition retries. The
// factory is called once per Run, since backoffs carry state.
func WithBackoff(newBackoff func() retry.Backoff) Option {
	return func(c *Coordinator) *Coordinator {
		c.newBackoff = newBackoff
		return c
	}
}

func New(
	db kdbbootstrap.BootstrapInterface,
	documents kdbdocument.DocumentInterface,
	source corpus.Source,
	options ...Option,
) *Coordinator {
	c := &Coordinator{
		db:        db,
		documents: documents,
		source:    source,

		acquireBudget: DefaultAcquireBudget,
		newBackoff: func() retry.Backoff {
			return retry.ExponentialBackoff(defaultBackoffInterval, defaultBackoffRatio)
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		c = opt(c)
	}
	return c
}

// Run performs one startup attempt and reports its outcome. It never
// panics on store trouble and never leaves the init lock held.
func (c *Coordinator) Run(ctx context.Context) Outcome {
	var result Outcome

	retryCtx, cancel := context.WithTimeout(ctx, c.acquireBudget)
	defer cancel()

	held, err := retry.Blocking(retryCtx, c.newBackoff(), func() (bool, error) {
		held, err := c.db.WithInitLock(ctx, func(ctx context.Context) error {
			result = c.initialize(ctx)
			return result.Err
		})
		if held {
			// the critical section ran; result carries its outcome,
			// good or bad. No retry within this invocation.
			return true, nil
		}
		if err != nil && dberr.IsTransient(err) {
			c.logger.Warn().Err(err).
				Msg("store unreachable while checking the init lock; retrying")
			return false, fmt.Errorf("lock check: %w", retry.ErrRetry)
		}
		return false, err
	})

	if err != nil {
		out := Outcome{Code: Failed, Err: xe.Wrapf(err, "acquiring init lock")}
		c.log(out)
		return out
	}
	if !held {
		out := Outcome{Code: Skipped}
		c.logger.Info().Msg("another instance is initializing the store; skipping")
		c.log(out)
		return out
	}

	c.log(result)
	return result
}

func (c *Coordinator) log(o Outcome) {
	ev := c.logger.Info()
	if o.Code == Failed {
		ev = c.logger.Error().Err(o.Err)
	}
	ev.Str("outcome", string(o.Code)).
		Int("documents", o.Documents).
		Int("skipped_items", len(o.SkippedItems)).
		Msg("startup coordination finished")
}

// initialize is the critical section. It runs with the init lock held.
func (c *Coordinator) initialize(ctx context.Context) Outcome {
	if err := c.db.EnsureSchema(ctx); err != nil {
		return Outcome{Code: Failed, Err: xe.Wrapf(err, "ensuring schema")}
	}

	items, skips, err := c.source.Read(ctx)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Outcome{Code: Failed, Err: xe.Wrapf(err, "reading corpus")}
		}
		c.logger.Warn().Err(err).Msg("corpus source is missing; loading nothing")
		items, skips = nil, nil
	}
	for _, s := range skips {
		c.logger.Warn().Str("item", s.Name).Str("reason", s.Reason).
			Msg("skipping corpus item")
	}

	loaded := 0
	for _, item := range items {
		if err := c.documents.Upsert(ctx, item.Name, item.Content); err != nil {
			return Outcome{Code: Failed, Err: xe.Wrapf(err, "loading %s", item.Name)}
		}
		loaded += 1
	}

	if err := c.db.RealignDocumentSequence(ctx); err != nil {
		return Outcome{Code: Failed, Err: xe.Wrapf(err, "realigning id sequence")}
	}

	if err := c.db.MarkCompleted(ctx, loaded); err != nil {
		return Outcome{Code: Failed, Err: xe.Wrapf(err, "recording completion marker")}
	}

	return Outcome{Code: Initialized, Documents: loaded, SkippedItems: skips}
}
