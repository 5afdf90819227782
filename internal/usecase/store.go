package usecase

import (
	"context"
	"errors"
	"time"

	reqdto "couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrDuplicateStoreName = errors.New("store name already exists")
	ErrStoreInUse         = errors.New("store is referenced by coupons")
)

type StoreAdminRepository interface {
	Create(ctx context.Context, name string, now time.Time) (*readmodel.StoreRM, error)
	Update(ctx context.Context, id uuid.UUID, name string, isActive bool, now time.Time) (*readmodel.StoreRM, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.StoreRM, error)
	List(ctx context.Context, activeOnly bool) ([]*readmodel.StoreRM, error)
}

type StoreUseCase interface {
	CreateStore(ctx context.Context, req reqdto.CreateStoreRequest) (*readmodel.StoreRM, error)
	UpdateStore(ctx context.Context, id uuid.UUID, req reqdto.UpdateStoreRequest) (*readmodel.StoreRM, error)
	DeleteStore(ctx context.Context, id uuid.UUID) error
	ListStores(ctx context.Context, activeOnly bool) ([]*readmodel.StoreRM, error)
}

type storeUseCaseImpl struct {
	storeRepo StoreAdminRepository
	clock     clock.Clock
}

func NewStoreUseCase(storeRepo StoreAdminRepository, clock clock.Clock) StoreUseCase {
	return &storeUseCaseImpl{storeRepo: storeRepo, clock: clock}
}

func (u *storeUseCaseImpl) CreateStore(ctx context.Context, req reqdto.CreateStoreRequest) (*readmodel.StoreRM, error) {
	rm, err := u.storeRepo.Create(ctx, req.Name, u.clock.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateStoreName
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rm, nil
}

func (u *storeUseCaseImpl) UpdateStore(ctx context.Context, id uuid.UUID, req reqdto.UpdateStoreRequest) (*readmodel.StoreRM, error) {
	rm, err := u.storeRepo.Update(ctx, id, req.Name, req.IsActive, u.clock.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrStoreNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateStoreName
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rm, nil
}

func (u *storeUseCaseImpl) DeleteStore(ctx context.Context, id uuid.UUID) error {
	if err := u.storeRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrStoreNotFound
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return ErrStoreInUse
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *storeUseCaseImpl) ListStores(ctx context.Context, activeOnly bool) ([]*readmodel.StoreRM, error) {
	stores, err := u.storeRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list stores")
	}
	return stores, nil
}
