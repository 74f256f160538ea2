package db

import (
	"context"

	"github.com/textlake/textlake/pkg/domain"
)

type DocumentInterface interface {
	// List retrieves id and filename of all documents, ordered by id.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Get retrieves the full document identified by id.
	//
	// When no such document exists, the error wraps domain ErrMissing.
	Get(ctx context.Context, id int) (domain.Document, error)

	// Create stores a new document under filename.
	//
	// The stored filename may differ from the requested one: when the
	// name is already taken, a numbered variant (`name_1.txt`, ...) is
	// chosen. The id is assigned explicitly as max(id)+1 and the id
	// sequence is realigned in the same transaction, so later inserts
	// do not collide.
	//
	// Returns the document as stored.
	Create(ctx context.Context, filename string, content string) (domain.Document, error)

	// Upsert inserts a document keyed by its unique filename, or
	// replaces the content of the existing row with that name.
	Upsert(ctx context.Context, filename string, content string) error

	// Delete removes the document identified by id and returns its
	// filename. The document's analysis, if any, goes away with it
	// (cascade).
	//
	// When no such document exists, the error wraps domain ErrMissing.
	Delete(ctx context.Context, id int) (string, error)
}
