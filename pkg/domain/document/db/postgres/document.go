package postgres

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/jackc/pgx/v4"
	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	"github.com/textlake/textlake/pkg/domain"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
	dberr "github.com/textlake/textlake/pkg/domain/errors/dberrors/postgres"
	xe "github.com/textlake/textlake/pkg/xerrors"
)

type pgDocument struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbdocument.DocumentInterface {
	return &pgDocument{pool: pool}
}

func (d *pgDocument) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	rows, err := d.pool.Query(
		ctx, `select "id", "filename" from "documents" order by "id"`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	found := []domain.DocumentSummary{}
	for rows.Next() {
		var s domain.DocumentSummary
		if err := rows.Scan(&s.ID, &s.Filename); err != nil {
			return nil, xe.Wrap(err)
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, xe.Wrap(err)
	}

	return found, nil
}

func (d *pgDocument) Get(ctx context.Context, id int) (domain.Document, error) {
	var doc domain.Document
	if err := d.pool.QueryRow(
		ctx,
		`select "id", "filename", "content" from "documents" where "id" = $1`,
		id,
	).Scan(&doc.ID, &doc.Filename, &doc.Content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Document{}, dberr.Missing{
				Table: "documents", Identity: fmt.Sprintf("id=%d", id),
			}
		}
		return domain.Document{}, xe.Wrap(err)
	}
	return doc, nil
}

func (d *pgDocument) Create(ctx context.Context, filename string, content string) (domain.Document, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return domain.Document{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var maxID int
	if err := tx.QueryRow(
		ctx, `select coalesce(max("id"), 0) from "documents"`,
	).Scan(&maxID); err != nil {
		return domain.Document{}, xe.Wrap(err)
	}
	newID := maxID + 1

	stored, err := vacantFilename(ctx, tx, filename)
	if err != nil {
		return domain.Document{}, err
	}

	if _, err := tx.Exec(
		ctx,
		`insert into "documents" ("id", "filename", "content") values ($1, $2, $3)`,
		newID, stored, content,
	); err != nil {
		return domain.Document{}, xe.Wrap(err)
	}

	// the explicit id above bypassed the serial; realign it.
	if _, err := tx.Exec(
		ctx,
		`select setval(pg_get_serial_sequence('documents', 'id'), $1, true)`,
		newID,
	); err != nil {
		return domain.Document{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Document{}, xe.Wrap(err)
	}

	return domain.Document{ID: newID, Filename: stored, Content: content}, nil
}

// vacantFilename picks the requested filename, or the first numbered
// variant (`name_1.txt`, `name_2.txt`, ...) not yet in the table.
func vacantFilename(ctx context.Context, q kpool.Queryer, filename string) (string, error) {
	base := path.Base(filename)
	stem := strings.TrimSuffix(base, ".txt")

	candidate := base
	for suffix := 1; ; suffix++ {
		var taken bool
		if err := q.QueryRow(
			ctx,
			`select exists (select 1 from "documents" where "filename" = $1)`,
			candidate,
		).Scan(&taken); err != nil {
			return "", xe.Wrap(err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d.txt", stem, suffix)
	}
}

func (d *pgDocument) Upsert(ctx context.Context, filename string, content string) error {
	if _, err := d.pool.Exec(
		ctx,
		`
		insert into "documents" ("filename", "content") values ($1, $2)
		on conflict ("filename") do update set "content" = excluded."content"
		`,
		filename, content,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (d *pgDocument) Delete(ctx context.Context, id int) (string, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return "", xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var filename string
	if err := tx.QueryRow(
		ctx, `select "filename" from "documents" where "id" = $1`, id,
	).Scan(&filename); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", dberr.Missing{
				Table: "documents", Identity: fmt.Sprintf("id=%d", id),
			}
		}
		return "", xe.Wrap(err)
	}

	if _, err := tx.Exec(
		ctx, `delete from "documents" where "id" = $1`, id,
	); err != nil {
		return "", xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", xe.Wrap(err)
	}

	return filename, nil
}
