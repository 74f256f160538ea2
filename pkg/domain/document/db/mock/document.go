package mocks

import (
	"context"
	"errors"

	"github.com/textlake/textlake/pkg/domain"
	kdbdocument "github.com/textlake/textlake/pkg/domain/document/db"
	dbmock "github.com/textlake/textlake/pkg/domain/internal/db/mock"
)

type DocumentInterface struct {
	Impl struct {
		List   func(context.Context) ([]domain.DocumentSummary, error)
		Get    func(context.Context, int) (domain.Document, error)
		Create func(context.Context, string, string) (domain.Document, error)
		Upsert func(context.Context, string, string) error
		Delete func(context.Context, int) (string, error)
	}
	Calls struct {
		List   dbmock.CallLog[struct{}]
		Get    dbmock.CallLog[struct{ ID int }]
		Create dbmock.CallLog[struct{ Filename, Content string }]
		Upsert dbmock.CallLog[struct{ Filename, Content string }]
		Delete dbmock.CallLog[struct{ ID int }]
	}
}

func NewDocumentInterface() *DocumentInterface {
	return &DocumentInterface{}
}

var _ kdbdocument.DocumentInterface = &DocumentInterface{}

func (di *DocumentInterface) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	di.Calls.List = append(di.Calls.List, struct{}{})
	if di.Impl.List != nil {
		return di.Impl.List(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (di *DocumentInterface) Get(ctx context.Context, id int) (domain.Document, error) {
	di.Calls.Get = append(di.Calls.Get, struct{ ID int }{ID: id})
	if di.Impl.Get != nil {
		return di.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (di *DocumentInterface) Create(ctx context.Context, filename string, content string) (domain.Document, error) {
	di.Calls.Create = append(di.Calls.Create, struct{ Filename, Content string }{
		Filename: filename, Content: content,
	})
	if di.Impl.Create != nil {
		return di.Impl.Create(ctx, filename, content)
	}
	panic(errors.New("it should not be called"))
}

func (di *DocumentInterface) Upsert(ctx context.Context, filename string, content string) error {
	di.Calls.Upsert = append(di.Calls.Upsert, struct{ Filename, Content string }{
		Filename: filename, Content: content,
	})
	if di.Impl.Upsert != nil {
		return di.Impl.Upsert(ctx, filename, content)
	}
	panic(errors.New("it should not be called"))
}

func (di *DocumentInterface) Delete(ctx context.Context, id int) (string, error) {
	di.Calls.Delete = append(di.Calls.Delete, struct{ ID int }{ID: id})
	if di.Impl.Delete != nil {
		return di.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
