package mocks

import (
	"context"
	"errors"

	"github.com/textlake/textlake/pkg/domain"
	kdbanalysis "github.com/textlake/textlake/pkg/domain/analysis/db"
	dbmock "github.com/textlake/textlake/pkg/domain/internal/db/mock"
)

type AnalysisInterface struct {
	Impl struct {
		Store  func(context.Context, domain.Analysis) error
		Get    func(context.Context, int) (domain.Analysis, error)
		Delete func(context.Context, int) error
	}
	Calls struct {
		Store  dbmock.CallLog[struct{ Analysis domain.Analysis }]
		Get    dbmock.CallLog[struct{ DocumentID int }]
		Delete dbmock.CallLog[struct{ DocumentID int }]
	}
}

func NewAnalysisInterface() *AnalysisInterface {
	return &AnalysisInterface{}
}

var _ kdbanalysis.AnalysisInterface = &AnalysisInterface{}

func (ai *AnalysisInterface) Store(ctx context.Context, analysis domain.Analysis) error {
	ai.Calls.Store = append(ai.Calls.Store, struct{ Analysis domain.Analysis }{Analysis: analysis})
	if ai.Impl.Store != nil {
		return ai.Impl.Store(ctx, analysis)
	}
	panic(errors.New("it should not be called"))
}

func (ai *AnalysisInterface) Get(ctx context.Context, documentID int) (domain.Analysis, error) {
	ai.Calls.Get = append(ai.Calls.Get, struct{ DocumentID int }{DocumentID: documentID})
	if ai.Impl.Get != nil {
		return ai.Impl.Get(ctx, documentID)
	}
	panic(errors.New("it should not be called"))
}

func (ai *AnalysisInterface) Delete(ctx context.Context, documentID int) error {
	ai.Calls.Delete = append(ai.Calls.Delete, struct{ DocumentID int }{DocumentID: documentID})
	if ai.Impl.Delete != nil {
		return ai.Impl.Delete(ctx, documentID)
	}
	panic(errors.New("it should not be called"))
}
