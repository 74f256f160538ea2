package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	"github.com/textlake/textlake/pkg/domain"
	kdbanalysis "github.com/textlake/textlake/pkg/domain/analysis/db"
	dberr "github.com/textlake/textlake/pkg/domain/errors/dberrors/postgres"
	xe "github.com/textlake/textlake/pkg/xerrors"
)

type pgAnalysis struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdbanalysis.AnalysisInterface {
	return &pgAnalysis{pool: pool}
}

func asJSONB(v any) (pgtype.JSONB, error) {
	j := pgtype.JSONB{}
	if err := j.Set(v); err != nil {
		return pgtype.JSONB{}, xe.Wrap(err)
	}
	return j, nil
}

func (a *pgAnalysis) Store(ctx context.Context, analysis domain.Analysis) error {
	tokens, err := asJSONB(analysis.Tokens)
	if err != nil {
		return err
	}
	sentences, err := asJSONB(analysis.Sentences)
	if err != nil {
		return err
	}
	tags, err := asJSONB(analysis.Tags)
	if err != nil {
		return err
	}
	entities, err := asJSONB(analysis.Entities)
	if err != nil {
		return err
	}

	if _, err := a.pool.Exec(
		ctx,
		`
		insert into "analyses" ("document_id", "tokens", "sentences", "tags", "entities")
		values ($1, $2, $3, $4, $5)
		on conflict ("document_id") do update
		set "tokens" = excluded."tokens",
		    "sentences" = excluded."sentences",
		    "tags" = excluded."tags",
		    "entities" = excluded."entities"
		`,
		analysis.DocumentID, tokens, sentences, tags, entities,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

func (a *pgAnalysis) Get(ctx context.Context, documentID int) (domain.Analysis, error) {
	var tokens, sentences, tags, entities pgtype.JSONB
	if err := a.pool.QueryRow(
		ctx,
		`
		select "tokens", "sentences", "tags", "entities"
		from "analyses" where "document_id" = $1
		`,
		documentID,
	).Scan(&tokens, &sentences, &tags, &entities); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Analysis{}, dberr.Missing{
				Table: "analyses", Identity: fmt.Sprintf("document_id=%d", documentID),
			}
		}
		return domain.Analysis{}, xe.Wrap(err)
	}

	found := domain.Analysis{DocumentID: documentID}
	if err := tokens.AssignTo(&found.Tokens); err != nil {
		return domain.Analysis{}, xe.Wrap(err)
	}
	if err := sentences.AssignTo(&found.Sentences); err != nil {
		return domain.Analysis{}, xe.Wrap(err)
	}
	if err := tags.AssignTo(&found.Tags); err != nil {
		return domain.Analysis{}, xe.Wrap(err)
	}
	if err := entities.AssignTo(&found.Entities); err != nil {
		return domain.Analysis{}, xe.Wrap(err)
	}

	return found, nil
}

func (a *pgAnalysis) Delete(ctx context.Context, documentID int) error {
	ctag, err := a.pool.Exec(
		ctx, `delete from "analyses" where "document_id" = $1`, documentID,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return dberr.Missing{
			Table: "analyses", Identity: fmt.Sprintf("document_id=%d", documentID),
		}
	}
	return nil
}
