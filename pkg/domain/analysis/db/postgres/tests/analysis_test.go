package tests_test

import (
	"context"
	"errors"
	"testing"

	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	"github.com/textlake/textlake/pkg/conn/db/postgres/pool/testenv"
	"github.com/textlake/textlake/pkg/domain"
	kpganalysis "github.com/textlake/textlake/pkg/domain/analysis/db/postgres"
	kpgbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db/postgres"
	kpgdocument "github.com/textlake/textlake/pkg/domain/document/db/postgres"
	kerr "github.com/textlake/textlake/pkg/domain/errors"
	"github.com/textlake/textlake/pkg/utils/try"
)

// prepareDocument sets the schema up and stores one document, returning
// its id for analyses to hang off of.
func prepareDocument(ctx context.Context, t *testing.T, pgpool kpool.Pool) int {
	t.Helper()
	if err := kpgbootstrap.New(pgpool).EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	doc := try.To(
		kpgdocument.New(pgpool).Create(ctx, "a.txt", "The quick brown fox."),
	).OrFatal(t)
	return doc.ID
}

func TestAnalysis_StoreAndGet(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pgpool := poolBroaker.GetPool(ctx, t)
	documentID := prepareDocument(ctx, t, pgpool)

	testee := kpganalysis.New(pgpool)

	stored := domain.Analysis{
		DocumentID: documentID,
		Tokens:     []string{"The", "quick", "brown", "fox", "."},
		Sentences:  []string{"The quick brown fox."},
		Tags: []domain.TokenTag{
			{Text: "The", Tag: "DT"},
			{Text: "quick", Tag: "JJ"},
			{Text: "brown", Tag: "JJ"},
			{Text: "fox", Tag: "NN"},
			{Text: ".", Tag: "."},
		},
		Entities: []domain.Entity{},
	}
	if err := testee.Store(ctx, stored); err != nil {
		t.Fatal(err)
	}

	t.Run("Get returns what was stored", func(t *testing.T) {
		found := try.To(testee.Get(ctx, documentID)).OrFatal(t)
		if !found.Equal(stored) {
			t.Errorf("got %+v, want %+v", found, stored)
		}
	})

	t.Run("storing again replaces the analysis", func(t *testing.T) {
		updated := stored
		updated.Tokens = []string{"rewritten"}
		updated.Sentences = []string{"rewritten"}
		updated.Tags = []domain.TokenTag{{Text: "rewritten", Tag: "VBN"}}
		if err := testee.Store(ctx, updated); err != nil {
			t.Fatal(err)
		}

		found := try.To(testee.Get(ctx, documentID)).OrFatal(t)
		if !found.Equal(updated) {
			t.Errorf("got %+v, want %+v", found, updated)
		}

		var rows int
		if err := pgpool.QueryRow(
			ctx, `select count(*) from "analyses" where "document_id" = $1`, documentID,
		).Scan(&rows); err != nil {
			t.Fatal(err)
		}
		if rows != 1 {
			t.Errorf("analyses rows: got %d, want 1", rows)
		}
	})

	t.Run("Get for a document without analysis reports missing", func(t *testing.T) {
		if _, err := testee.Get(ctx, documentID+1); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("error: got %v, want wrapping %v", err, kerr.ErrMissing)
		}
	})
}

func TestAnalysis_Delete(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pgpool := poolBroaker.GetPool(ctx, t)
	documentID := prepareDocument(ctx, t, pgpool)

	testee := kpganalysis.New(pgpool)

	if err := testee.Store(ctx, domain.Analysis{
		DocumentID: documentID,
		Tokens:     []string{"x"},
		Sentences:  []string{"x"},
		Tags:       []domain.TokenTag{{Text: "x", Tag: "NN"}},
		Entities:   []domain.Entity{},
	}); err != nil {
		t.Fatal(err)
	}

	t.Run("deleting removes the analysis but keeps the document", func(t *testing.T) {
		if err := testee.Delete(ctx, documentID); err != nil {
			t.Fatal(err)
		}
		if _, err := testee.Get(ctx, documentID); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("Get after Delete: got %v, want wrapping %v", err, kerr.ErrMissing)
		}
		if _, err := kpgdocument.New(pgpool).Get(ctx, documentID); err != nil {
			t.Errorf("the document should survive: %s", err)
		}
	})

	t.Run("deleting again reports missing", func(t *testing.T) {
		if err := testee.Delete(ctx, documentID); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("error: got %v, want wrapping %v", err, kerr.ErrMissing)
		}
	})
}

func TestAnalysis_CascadesOnDocumentDelete(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pgpool := poolBroaker.GetPool(ctx, t)
	documentID := prepareDocument(ctx, t, pgpool)

	testee := kpganalysis.New(pgpool)
	if err := testee.Store(ctx, domain.Analysis{
		DocumentID: documentID,
		Tokens:     []string{"x"},
		Sentences:  []string{"x"},
		Tags:       []domain.TokenTag{{Text: "x", Tag: "NN"}},
		Entities:   []domain.Entity{},
	}); err != nil {
		t.Fatal(err)
	}

	try.To(kpgdocument.New(pgpool).Delete(ctx, documentID)).OrFatal(t)

	if _, err := testee.Get(ctx, documentID); !errors.Is(err, kerr.ErrMissing) {
		t.Errorf("the analysis should be gone with its document: got %v", err)
	}
}
