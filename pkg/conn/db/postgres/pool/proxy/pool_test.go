package proxy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	"github.com/textlake/textlake/pkg/conn/db/postgres/pool/proxy"
	"github.com/textlake/textlake/pkg/utils/cmp"
)

// fakeQueryer records the SQL it receives and fails when err is set.
type fakeQueryer struct {
	sqls []string
	err  error
}

func (f *fakeQueryer) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	return pgconn.CommandTag(nil), f.err
}

func (f *fakeQueryer) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.sqls = append(f.sqls, sql)
	return nil, f.err
}

func (f *fakeQueryer) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	f.sqls = append(f.sqls, sql)
	return okRow{}
}

type okRow struct{}

func (okRow) Scan(...interface{}) error { return nil }

type fakeTx struct {
	fakeQueryer
	committed  int
	rolledback int
}

var _ kpool.Tx = &fakeTx{}

func (f *fakeTx) Begin(ctx context.Context) (kpool.Tx, error) { return &fakeTx{}, nil }
func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed += 1
	return f.err
}
func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledback += 1
	return f.err
}

type fakeConn struct {
	fakeQueryer
	tx       *fakeTx
	released int
}

var _ kpool.Conn = &fakeConn{}

func (f *fakeConn) Begin(ctx context.Context) (kpool.Tx, error) { return f.tx, nil }
func (f *fakeConn) Release()                                    { f.released += 1 }
func (f *fakeConn) Ping(ctx context.Context) error              { return nil }

type fakePool struct {
	fakeQueryer
	conn *fakeConn
	tx   *fakeTx
}

var _ kpool.Pool = &fakePool{}

func (f *fakePool) Begin(ctx context.Context) (kpool.Tx, error)     { return f.tx, nil }
func (f *fakePool) Acquire(ctx context.Context) (kpool.Conn, error) { return f.conn, nil }
func (f *fakePool) Ping(ctx context.Context) error                  { return nil }

func TestProxyPool_QueryEvents(t *testing.T) {
	t.Run("Before callbacks observe the statement and pass it through", func(t *testing.T) {
		ctx := context.Background()
		base := &fakePool{}
		testee := proxy.Wrap(base)

		seen := []string{}
		testee.Events().Query.Before(func(sql string) error {
			seen = append(seen, sql)
			return nil
		})

		if _, err := testee.Exec(ctx, "select 1"); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Query(ctx, "select 2"); err != nil {
			t.Fatal(err)
		}
		if err := testee.QueryRow(ctx, "select 3").Scan(); err != nil {
			t.Fatal(err)
		}

		want := []string{"select 1", "select 2", "select 3"}
		if !cmp.SliceEq(seen, want) {
			t.Errorf("callback saw %v, want %v", seen, want)
		}
		if !cmp.SliceEq(base.sqls, want) {
			t.Errorf("base received %v, want %v", base.sqls, want)
		}
	})

	t.Run("an error from Before aborts the statement", func(t *testing.T) {
		ctx := context.Background()
		base := &fakePool{}
		testee := proxy.Wrap(base)

		fakeErr := errors.New("injected")
		testee.Events().Query.Before(func(sql string) error { return fakeErr })

		if _, err := testee.Exec(ctx, "select 1"); !errors.Is(err, fakeErr) {
			t.Errorf("Exec: got %v, want %v", err, fakeErr)
		}
		if err := testee.QueryRow(ctx, "select 2").Scan(); !errors.Is(err, fakeErr) {
			t.Errorf("QueryRow.Scan: got %v, want %v", err, fakeErr)
		}
		if len(base.sqls) != 0 {
			t.Errorf("base should not receive aborted statements, got %v", base.sqls)
		}
	})

	t.Run("After callbacks run only when the statement succeeds", func(t *testing.T) {
		ctx := context.Background()
		base := &fakePool{}
		testee := proxy.Wrap(base)

		after := 0
		testee.Events().Query.After(func(sql string) error {
			after += 1
			return nil
		})

		if _, err := testee.Exec(ctx, "select 1"); err != nil {
			t.Fatal(err)
		}
		if after != 1 {
			t.Errorf("After should have run once, ran %d times", after)
		}

		base.err = errors.New("query failed")
		if _, err := testee.Exec(ctx, "select 2"); !errors.Is(err, base.err) {
			t.Errorf("got %v, want %v", err, base.err)
		}
		if after != 1 {
			t.Errorf("After should not run on failure, ran %d times", after)
		}
	})
}

func TestProxyPool_EventsAreInherited(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	conn := &fakeConn{tx: tx}
	base := &fakePool{conn: conn, tx: tx}
	testee := proxy.Wrap(base)

	seen := []string{}
	testee.Events().Query.Before(func(sql string) error {
		seen = append(seen, sql)
		return nil
	})
	commits := 0
	testee.Events().Commit.Before(func(sql string) error {
		commits += 1
		return nil
	})

	pconn, err := testee.Acquire(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := pconn.Exec(ctx, "select on conn"); err != nil {
		t.Fatal(err)
	}

	ptx, err := pconn.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ptx.Exec(ctx, "select on tx"); err != nil {
		t.Fatal(err)
	}
	if err := ptx.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	if want := []string{"select on conn", "select on tx"}; !cmp.SliceEq(seen, want) {
		t.Errorf("callback saw %v, want %v", seen, want)
	}
	if commits != 1 {
		t.Errorf("Commit callback ran %d times, want 1", commits)
	}
	if tx.committed != 1 {
		t.Errorf("base tx committed %d times, want 1", tx.committed)
	}
}

func TestProxyPool_RollbackEvents(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	base := &fakePool{tx: tx}
	testee := proxy.Wrap(base)

	fakeErr := errors.New("no rollback for you")
	testee.Events().Rollback.Before(func(sql string) error { return fakeErr })

	ptx, err := testee.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := ptx.Rollback(ctx); !errors.Is(err, fakeErr) {
		t.Errorf("got %v, want %v", err, fakeErr)
	}
	if tx.rolledback != 0 {
		t.Errorf("base tx should not roll back, did %d times", tx.rolledback)
	}
}
