package proxy

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
)

// Callback is invoked around a SQL statement with the statement text.
//
// When a Callback registered with Before returns non-nil, the statement
// is not sent and the error is returned to the caller instead. This is
// the hook point for fault-injection in tests.
type Callback func(sql string) error

type event struct {
	before []Callback
	after  []Callback
}

func (e *event) Before(cb ...Callback) *event {
	e.before = append(e.before, cb...)
	return e
}

func (e *event) After(cb ...Callback) *event {
	e.after = append(e.after, cb...)
	return e
}

func (e *event) invoke(sql string, f func() error) error {
	if e == nil {
		return f()
	}
	for _, cb := range e.before {
		if err := cb(sql); err != nil {
			return err
		}
	}
	if err := f(); err != nil {
		return err
	}
	for _, cb := range e.after {
		if err := cb(sql); err != nil {
			return err
		}
	}
	return nil
}

type SQLEvents struct {
	Query    *event
	Commit   *event
	Rollback *event
}

func (sq *SQLEvents) Events() *SQLEvents {
	return sq
}

func NewSQLEvents() *SQLEvents {
	return &SQLEvents{
		Query:    new(event),
		Commit:   new(event),
		Rollback: new(event),
	}
}

type sqlEventHost interface {
	Events() *SQLEvents
}

// Proxy object for pool.Pool.
//
//it accepts event handlers invoked before or after each SQL event:
//
// - query    : `Exec`, `Query` and `QueryRow` emit this event.
//
// - commit   : `COMMIT;` sent via the `Commit` method.
//
// - rollback : `ROLLBACK;` sent via the `Rollback` method.
//
// Handlers added on a Pool are inherited by Conn and Tx acquired from
// it, so registering once covers every session of the pool.
type Pool struct {
	Base   kpool.Pool
	events *SQLEvents
}

func (p *Pool) Events() *SQLEvents {
	return p.events
}

var _ kpool.Pool = &Pool{}

func Wrap(p kpool.Pool) *Pool {
	return &Pool{Base: p, events: NewSQLEvents()}
}

func (p *Pool) Acquire(ctx context.Context) (kpool.Conn, error) {
	conn, err := p.Base.Acquire(ctx)
	if w := WrapConn(conn, p); w != nil {
		return w, err
	}
	return nil, err
}
func (p *Pool) Begin(ctx context.Context) (kpool.Tx, error) {
	tx, err := p.Base.Begin(ctx)
	if w := WrapTx(tx, p); w != nil {
		return w, err
	}
	return nil, err
}
func (p *Pool) Exec(ctx context.Context, sql string, arguments ...interface{}) (ctag pgconn.CommandTag, err error) {
	err = p.events.Query.invoke(sql, func() error {
		var qerr error
		ctag, qerr = p.Base.Exec(ctx, sql, arguments...)
		return qerr
	})
	return
}
func (p *Pool) Query(ctx context.Context, sql string, args ...interface{}) (r pgx.Rows, err error) {
	err = p.events.Query.invoke(sql, func() error {
		var qerr error
		r, qerr = p.Base.Query(ctx, sql, args...)
		return qerr
	})
	return
}
func (p *Pool) QueryRow(ctx context.Context, sql string, args ...interface{}) (r pgx.Row) {
	if err := p.events.Query.invoke(sql, func() error {
		r = p.Base.QueryRow(ctx, sql, args...)
		return nil
	}); err != nil {
		return errRow{err}
	}
	return
}
func (p *Pool) Ping(ctx context.Context) error {
	return p.Base.Ping(ctx)
}

func WrapConn(conn kpool.Conn, ev sqlEventHost) *Conn {
	if conn == nil {
		return nil
	}
	return &Conn{Base: conn, events: ev.Events()}
}

type Conn struct {
	Base   kpool.Conn
	events *SQLEvents
}

func (c *Conn) Events() *SQLEvents {
	return c.events
}

var _ kpool.Conn = &Conn{}

func (c *Conn) Begin(ctx context.Context) (kpool.Tx, error) {
	tx, err := c.Base.Begin(ctx)
	if w := WrapTx(tx, c); w != nil {
		return w, err
	}
	return nil, err
}
func (c *Conn) Release() {
	c.Base.Release()
}
func (c *Conn) Exec(ctx context.Context, sql string, arguments ...interface{}) (ctag pgconn.CommandTag, err error) {
	err = c.events.Query.invoke(sql, func() error {
		var qerr error
		ctag, qerr = c.Base.Exec(ctx, sql, arguments...)
		return qerr
	})
	return
}
func (c *Conn) Query(ctx context.Context, sql string, args ...interface{}) (r pgx.Rows, err error) {
	err = c.events.Query.invoke(sql, func() error {
		var qerr error
		r, qerr = c.Base.Query(ctx, sql, args...)
		return qerr
	})
	return
}
func (c *Conn) QueryRow(ctx context.Context, sql string, args ...interface{}) (r pgx.Row) {
	if err := c.events.Query.invoke(sql, func() error {
		r = c.Base.QueryRow(ctx, sql, args...)
		return nil
	}); err != nil {
		return errRow{err}
	}
	return
}
func (c *Conn) Ping(ctx context.Context) error {
	return c.Base.Ping(ctx)
}

func WrapTx(tx kpool.Tx, ev sqlEventHost) *Tx {
	if tx == nil {
		return nil
	}
	return &Tx{Base: tx, events: ev.Events()}
}

type Tx struct {
	Base   kpool.Tx
	events *SQLEvents
}

func (tx *Tx) Events() *SQLEvents {
	return tx.events
}

var _ kpool.Tx = &Tx{}

func (tx *Tx) Begin(ctx context.Context) (kpool.Tx, error) {
	new, err := tx.Base.Begin(ctx)
	if w := WrapTx(new, tx); w != nil {
		return w, err
	}
	return nil, err
}
func (tx *Tx) Commit(ctx context.Context) error {
	return tx.events.Commit.invoke("commit", func() error {
		return tx.Base.Commit(ctx)
	})
}
func (tx *Tx) Rollback(ctx context.Context) error {
	return tx.events.Rollback.invoke("rollback", func() error {
		return tx.Base.Rollback(ctx)
	})
}
func (tx *Tx) Exec(ctx context.Context, sql string, arguments ...interface{}) (ctag pgconn.CommandTag, err error) {
	err = tx.events.Query.invoke(sql, func() error {
		var qerr error
		ctag, qerr = tx.Base.Exec(ctx, sql, arguments...)
		return qerr
	})
	return
}
func (tx *Tx) Query(ctx context.Context, sql string, args ...interface{}) (r pgx.Rows, err error) {
	err = tx.events.Query.invoke(sql, func() error {
		var qerr error
		r, qerr = tx.Base.Query(ctx, sql, args...)
		return qerr
	})
	return
}
func (tx *Tx) QueryRow(ctx context.Context, sql string, args ...interface{}) (r pgx.Row) {
	if err := tx.events.Query.invoke(sql, func() error {
		r = tx.Base.QueryRow(ctx, sql, args...)
		return nil
	}); err != nil {
		return errRow{err}
	}
	return
}

// errRow surfaces an injected error at Scan, like pgx does for
// connection-level failures.
type errRow struct {
	err error
}

var _ pgx.Row = errRow{}

func (r errRow) Scan(...interface{}) error {
	return r.err
}
