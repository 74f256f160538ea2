package db

import (
	"context"

	kdbanalysis "github.com/textlake/textlake/pkg/domain/analysis/db"
	kdbbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
)

// TextLakeDatabase bundles every store-side concern of the service.
type TextLakeDatabase interface {
	Document() kdbdocument.DocumentInterface
	Analysis() kdbanalysis.AnalysisInterface
	Bootstrap() kdbbootstrap.BootstrapInterface

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
