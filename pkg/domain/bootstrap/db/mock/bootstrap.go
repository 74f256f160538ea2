package mocks

import (
	"context"
	"errors"

	kdbbootstrap "github.com/textlake/textlake/pkg/domain/bootstrap/db"
	dbmock "github.com/textlake/textlake/pkg/domain/internal/db/mock"
)

type BootstrapInterface struct {
	Impl struct {
		WithInitLock            func(context.Context, func(context.Context) error) (bool, error)
		EnsureSchema            func(context.Context) error
		RealignDocumentSequence func(context.Context) error
		MarkCompleted           func(context.Context, int) error
		Completed               func(context.Context) (bool, error)
	}
	Calls struct {
		WithInitLock            dbmock.CallLog[struct{}]
		EnsureSchema            dbmock.CallLog[struct{}]
		RealignDocumentSequence dbmock.CallLog[struct{}]
		MarkCompleted           dbmock.CallLog[struct{ Documents int }]
		Completed               dbmock.CallLog[struct{}]
	}
}

func NewBootstrapInterface() *BootstrapInterface {
	return &BootstrapInterface{}
}

// Locked makes WithInitLock run the critical section, as the winner of
// the acquisition race would.
func (bi *BootstrapInterface) Locked() *BootstrapInterface {
	bi.Impl.WithInitLock = func(ctx context.Context, criticalSection func(context.Context) error) (bool, error) {
		return true, criticalSection(ctx)
	}
	return bi
}

// Busy makes WithInitLock report "lock held elsewhere", as a follower
// observes.
func (bi *BootstrapInterface) Busy() *BootstrapInterface {
	bi.Impl.WithInitLock = func(context.Context, func(context.Context) error) (bool, error) {
		return false, nil
	}
	return bi
}

var _ kdbbootstrap.BootstrapInterface = &BootstrapInterface{}

func (bi *BootstrapInterface) WithInitLock(
	ctx context.Context, criticalSection func(context.Context) error,
) (bool, error) {
	bi.Calls.WithInitLock = append(bi.Calls.WithInitLock, struct{}{})
	if bi.Impl.WithInitLock != nil {
		return bi.Impl.WithInitLock(ctx, criticalSection)
	}
	panic(errors.New("it should not be called"))
}

func (bi *BootstrapInterface) EnsureSchema(ctx context.Context) error {
	bi.Calls.EnsureSchema = append(bi.Calls.EnsureSchema, struct{}{})
	if bi.Impl.EnsureSchema != nil {
		return bi.Impl.EnsureSchema(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (bi *BootstrapInterface) RealignDocumentSequence(ctx context.Context) error {
	bi.Calls.RealignDocumentSequence = append(bi.Calls.RealignDocumentSequence, struct{}{})
	if bi.Impl.RealignDocumentSequence != nil {
		return bi.Impl.RealignDocumentSequence(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (bi *BootstrapInterface) MarkCompleted(ctx context.Context, documents int) error {
	bi.Calls.MarkCompleted = append(bi.Calls.MarkCompleted, struct{ Documents int }{Documents: documents})
	if bi.Impl.MarkCompleted != nil {
		return bi.Impl.MarkCompleted(ctx, documents)
	}
	panic(errors.New("it should not be called"))
}

func (bi *BootstrapInterface) Completed(ctx context.Context) (bool, error) {
	bi.Calls.Completed = append(bi.Calls.Completed, struct{}{})
	if bi.Impl.Completed != nil {
		return bi.Impl.Completed(ctx)
	}
	panic(errors.New("it should not be called"))
}
