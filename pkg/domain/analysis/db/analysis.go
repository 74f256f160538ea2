package db

import (
	"context"

	"github.com/textlake/textlake/pkg/domain"
)

type AnalysisInterface interface {
	// Store records the analysis keyed by its DocumentID.
	//
	// A document has at most one analysis: storing again for the same
	// document replaces the previous record in place.
	Store(ctx context.Context, analysis domain.Analysis) error

	// Get retrieves the stored analysis for the document.
	//
	// When none is stored, the error wraps domain ErrMissing.
	Get(ctx context.Context, documentID int) (domain.Analysis, error)

	// Delete removes the stored analysis for the document.
	//
	// When none is stored, the error wraps domain ErrMissing.
	Delete(ctx context.Context, documentID int) error
}
