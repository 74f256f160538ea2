package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	kdbanalysis "github.com/textlake/textlake/pkg/domain/analysis/db"
	kpganalysis "github.com/textlake/textlake/pkg/domain/analysis/db/postgres"
	kdbbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db"
	kpgbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db/postgres"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
	kpgdocument "github.com/textlake/textlake/pkg/domain/document/db/postgres"
	dbInterface "github.com/textlake/textlake/pkg/domain/textlake/db"
	xe "github.com/textlake/textlake/pkg/xerrors"
)

type textLakeDBPostgres struct {
	pool      *pgxpool.Pool
	document  kdbdocument.DocumentInterface
	analysis  kdbanalysis.AnalysisInterface
	bootstrap kdbbootstrap.BootstrapInterface
}

type Config struct {
	LockKey int64
}

func DefaultConfig() Config {
	return Config{LockKey: kpgbootstrap.DefaultLockKey}
}

type Option func(*Config) *Config

// WithLockKey overrides the advisory lock key used for startup
// coordination. All replicas of one deployment must agree on it.
func WithLockKey(key int64) Option {
	return func(c *Config) *Config {
		c.LockKey = key
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.TextLakeDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)

	return &textLakeDBPostgres{
		pool:      pool,
		document:  kpgdocument.New(p),
		analysis:  kpganalysis.New(p),
		bootstrap: kpgbootstrap.New(p, kpgbootstrap.WithLockKey(c.LockKey)),
	}, nil
}

func (t *textLakeDBPostgres) Document() kdbdocument.DocumentInterface {
	return t.document
}

func (t *textLakeDBPostgres) Analysis() kdbanalysis.AnalysisInterface {
	return t.analysis
}

func (t *textLakeDBPostgres) Bootstrap() kdbbootstrap.BootstrapInterface {
	return t.bootstrap
}

func (t *textLakeDBPostgres) Ping(ctx context.Context) error {
	return xe.Wrap(t.pool.Ping(ctx))
}

func (t *textLakeDBPostgres) Close() error {
	t.pool.Close()
	return nil
}
