package tests_test

import (
	"context"
	"errors"
	"testing"

	kpool "github.com/textlake/textlake/pkg/conn/db/postgres/pool"
	"github.com/textlake/textlake/pkg/conn/db/postgres/pool/testenv"
	"github.com/textlake/textlake/pkg/domain"
	kpgbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db/postgres"
	kpgdocument "github.com/textlake/textlake/pkg/domain/document/db/postgres"
	kerr "github.com/textlake/textlake/pkg/domain/errors"
	"github.com/textlake/textlake/pkg/utils/cmp"
	"github.com/textlake/textlake/pkg/utils/try"
)

func prepareSchema(ctx context.Context, t *testing.T, pgpool kpool.Pool) {
	t.Helper()
	if err := kpgbootstrap.New(pgpool).EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestDocument_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pgpool := poolBroaker.GetPool(ctx, t)
	prepareSchema(ctx, t, pgpool)

	testee := kpgdocument.New(pgpool)

	if err := testee.Upsert(ctx, "a.txt", "hello"); err != nil {
		t.Fatal(err)
	}
	if err := testee.Upsert(ctx, "b.txt", "world"); err != nil {
		t.Fatal(err)
	}

	t.Run("repeating an upsert updates content, not rows", func(t *testing.T) {
		if err := testee.Upsert(ctx, "a.txt", "hello again"); err != nil {
			t.Fatal(err)
		}

		found := try.To(testee.List(ctx)).OrFatal(t)
		want := []domain.DocumentSummary{
			{ID: 1, Filename: "a.txt"},
			{ID: 2, Filename: "b.txt"},
		}
		if !cmp.SliceEq(found, want) {
			t.Errorf("List: got %+v, want %+v", found, want)
		}

		doc := try.To(testee.Get(ctx, 1)).OrFatal(t)
		if doc.Content != "hello again" {
			t.Errorf("content after upsert: got %q, want %q", doc.Content, "hello again")
		}
	})
}

func TestDocument_Get_Missing(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pgpool := poolBroaker.GetPool(ctx, t)
	prepareSchema(ctx, t, pgpool)

	testee := kpgdocument.New(pgpool)

	if _, err := testee.Get(ctx, 42); !errors.Is(err, kerr.ErrMissing) {
		t.Errorf("error: got %v, want wrapping %v", err, kerr.ErrMissing)
	}
}

func TestDocument_Create(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)

	t.Run("a taken filename gets a numbered variant", func(t *testing.T) {
		pgpool := poolBroaker.GetPool(ctx, t)
		prepareSchema(ctx, t, pgpool)
		testee := kpgdocument.New(pgpool)

		first := try.To(testee.Create(ctx, "note.txt", "one")).OrFatal(t)
		second := try.To(testee.Create(ctx, "note.txt", "two")).OrFatal(t)
		third := try.To(testee.Create(ctx, "note.txt", "three")).OrFatal(t)

		if first.Filename != "note.txt" || first.ID != 1 {
			t.Errorf("first: got %+v", first)
		}
		if second.Filename != "note_1.txt" || second.ID != 2 {
			t.Errorf("second: got %+v", second)
		}
		if third.Filename != "note_2.txt" || third.ID != 3 {
			t.Errorf("third: got %+v", third)
		}
	})

	t.Run("ids keep growing after rows with large ids", func(t *testing.T) {
		pgpool := poolBroaker.GetPool(ctx, t)
		prepareSchema(ctx, t, pgpool)
		testee := kpgdocument.New(pgpool)

		if _, err := pgpool.Exec(
			ctx,
			`insert into "documents" ("id", "filename", "content") values (10, 'a.txt', 'x')`,
		); err != nil {
			t.Fatal(err)
		}

		created := try.To(testee.Create(ctx, "b.txt", "y")).OrFatal(t)
		if created.ID != 11 {
			t.Errorf("id: got %d, want 11", created.ID)
		}

		// Create realigns the serial, so a plain insert continues on.
		var id int
		if err := pgpool.QueryRow(
			ctx,
			`insert into "documents" ("filename", "content") values ('c.txt', 'z') returning "id"`,
		).Scan(&id); err != nil {
			t.Fatal(err)
		}
		if id != 12 {
			t.Errorf("serial id: got %d, want 12", id)
		}
	})

	t.Run("a path is reduced to its base name", func(t *testing.T) {
		pgpool := poolBroaker.GetPool(ctx, t)
		prepareSchema(ctx, t, pgpool)
		testee := kpgdocument.New(pgpool)

		created := try.To(testee.Create(ctx, "../../etc/passwd.txt", "x")).OrFatal(t)
		if created.Filename != "passwd.txt" {
			t.Errorf("filename: got %q, want %q", created.Filename, "passwd.txt")
		}
	})
}

func TestDocument_Delete(t *testing.T) {
	ctx := context.Background()
	poolBroaker := testenv.NewPoolBroaker(ctx, t)
	pgpool := poolBroaker.GetPool(ctx, t)
	prepareSchema(ctx, t, pgpool)

	testee := kpgdocument.New(pgpool)

	if err := testee.Upsert(ctx, "a.txt", "hello"); err != nil {
		t.Fatal(err)
	}
	doc := try.To(testee.Get(ctx, 1)).OrFatal(t)

	t.Run("deleting returns the filename", func(t *testing.T) {
		filename := try.To(testee.Delete(ctx, doc.ID)).OrFatal(t)
		if filename != "a.txt" {
			t.Errorf("filename: got %q, want %q", filename, "a.txt")
		}

		if _, err := testee.Get(ctx, doc.ID); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("Get after Delete: got %v, want wrapping %v", err, kerr.ErrMissing)
		}
	})

	t.Run("deleting a missing document reports missing", func(t *testing.T) {
		if _, err := testee.Delete(ctx, doc.ID); !errors.Is(err, kerr.ErrMissing) {
			t.Errorf("error: got %v, want wrapping %v", err, kerr.ErrMissing)
		}
	})
}
