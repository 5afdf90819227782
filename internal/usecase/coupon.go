package usecase

import (
	"context"
	"errors"
	"time"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/internal/domain/user"
	reqdto "couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrStoreNotFound  = errors.New("store not found")
	ErrImageNotFound  = errors.New("coupon image not found")

	// ErrUsageConflict means the conditional balance write matched no row: a
	// concurrent update changed used_amount_cents between read and write. The
	// client re-reads and retries; the server never retries on its own.
	ErrUsageConflict = errors.New("usage update conflicts with a concurrent change")

	ErrDomainValidationFailed  = errors.New("domain validation failed")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

type CouponRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) (*readmodel.CouponRM, error)
	FindByID(ctx context.Context, id, groupID uuid.UUID) (*readmodel.CouponRM, error)
	List(ctx context.Context, groupID uuid.UUID, filters readmodel.CouponListFilters, now time.Time) ([]*readmodel.CouponRM, error)
	UpdateUsage(ctx context.Context, id, groupID uuid.UUID, change coupon.UsageChange, now time.Time) (*readmodel.CouponRM, error)
	Update(ctx context.Context, c *coupon.Coupon) (*readmodel.CouponRM, error)
	Delete(ctx context.Context, id, groupID uuid.UUID) error
}

type CouponImageRepository interface {
	Add(ctx context.Context, couponID uuid.UUID, img coupon.Image) (*readmodel.CouponImageRM, error)
	Delete(ctx context.Context, couponID, imageID uuid.UUID) error
	SetPrimary(ctx context.Context, couponID, imageID uuid.UUID) error
}

type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.StoreRM, error)
}

// Resolver maps a multi-coupon program name to its store snapshot at
// creation time. Implemented by the multi-coupon usecase.
type Resolver interface {
	Resolve(ctx context.Context, name string) (coupon.Resolution, error)
}

// UnmappedTracker records an unmapped-name occurrence and alerts
// administrators. Failures inside the tracker never fail coupon creation.
type UnmappedTracker interface {
	RecordUnmapped(ctx context.Context, multiCouponName string, couponID, groupID, createdBy uuid.UUID)
}

type CouponUseCase interface {
	CreateCoupon(ctx context.Context, req reqdto.CreateCouponRequest, groupID, userID uuid.UUID) (*readmodel.CouponRM, error)
	GetCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error)
	ListCoupons(ctx context.Context, groupID, userID uuid.UUID, filters readmodel.CouponListFilters) ([]*readmodel.CouponRM, error)
	UpdateUsage(ctx context.Context, req reqdto.UpdateUsageRequest, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error)
	UpdateCoupon(ctx context.Context, req reqdto.UpdateCouponRequest, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error)
	CancelCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error)
	DeleteCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) error
	AddImage(ctx context.Context, req reqdto.AddImageRequest, groupID, couponID, userID uuid.UUID) (*readmodel.CouponImageRM, error)
	DeleteImage(ctx context.Context, groupID, couponID, imageID, userID uuid.UUID) error
	SetPrimaryImage(ctx context.Context, groupID, couponID, imageID, userID uuid.UUID) error
}

type couponUseCaseImpl struct {
	couponRepo CouponRepository
	imageRepo  CouponImageRepository
	storeRepo  StoreRepository
	groupRepo  GroupRepository
	resolver   Resolver
	tracker    UnmappedTracker
	clock      clock.Clock
}

func NewCouponUseCase(
	couponRepo CouponRepository,
	imageRepo CouponImageRepository,
	storeRepo StoreRepository,
	groupRepo GroupRepository,
	resolver Resolver,
	tracker UnmappedTracker,
	clock clock.Clock,
) CouponUseCase {
	return &couponUseCaseImpl{
		couponRepo: couponRepo,
		imageRepo:  imageRepo,
		storeRepo:  storeRepo,
		groupRepo:  groupRepo,
		resolver:   resolver,
		tracker:    tracker,
		clock:      clock,
	}
}

func (u *couponUseCaseImpl) CreateCoupon(
	ctx context.Context,
	req reqdto.CreateCouponRequest,
	groupID, userID uuid.UUID,
) (*readmodel.CouponRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return nil, err
	}

	now := u.clock.Now()

	title, err := coupon.NewTitle(req.Title)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}
	total, err := coupon.NewAmount(req.GetTotalAmountCents())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}
	currency, err := coupon.NewCurrency(req.Currency)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	var entity *coupon.Coupon
	switch coupon.Type(req.Type) {
	case coupon.TypeSingle:
		entity, err = u.buildSingleCoupon(ctx, req, groupID, userID, title, total, currency, now)
	case coupon.TypeMulti:
		entity, err = u.buildMultiCoupon(ctx, req, groupID, userID, title, total, currency, now)
	default:
		return nil, errs.Mark(coupon.ErrInvalidType, ErrDomainValidationFailed)
	}
	if err != nil {
		return nil, err
	}

	rm, err := u.couponRepo.Create(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrStoreNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if entity.MappingStatus() == coupon.MappingUnmapped {
		u.tracker.RecordUnmapped(ctx, entity.MultiCouponName(), entity.ID(), groupID, userID)
	}

	return rm, nil
}

func (u *couponUseCaseImpl) buildSingleCoupon(
	ctx context.Context,
	req reqdto.CreateCouponRequest,
	groupID, userID uuid.UUID,
	title coupon.Title,
	total coupon.Amount,
	currency coupon.Currency,
	now time.Time,
) (*coupon.Coupon, error) {
	if req.StoreID == nil {
		return nil, errs.Mark(coupon.ErrMissingStoreID, ErrDomainValidationFailed)
	}

	if _, err := u.storeRepo.FindByID(ctx, *req.StoreID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := coupon.NewSingleCoupon(
		groupID, userID, title, *req.StoreID,
		req.ExpiryDate, total, currency, req.GetNotes(), now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}
	return entity, nil
}

func (u *couponUseCaseImpl) buildMultiCoupon(
	ctx context.Context,
	req reqdto.CreateCouponRequest,
	groupID, userID uuid.UUID,
	title coupon.Title,
	total coupon.Amount,
	currency coupon.Currency,
	now time.Time,
) (*coupon.Coupon, error) {
	name := req.GetMultiCouponName()
	if name == "" {
		return nil, errs.Mark(coupon.ErrMissingMultiCouponName, ErrDomainValidationFailed)
	}

	resolution, err := u.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := coupon.NewMultiCoupon(
		groupID, userID, title, name, resolution,
		req.ExpiryDate, total, currency, req.GetNotes(), now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}
	return entity, nil
}

func (u *couponUseCaseImpl) GetCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleViewer); err != nil {
		return nil, err
	}
	return u.findCoupon(ctx, couponID, groupID)
}

func (u *couponUseCaseImpl) ListCoupons(
	ctx context.Context,
	groupID, userID uuid.UUID,
	filters readmodel.CouponListFilters,
) ([]*readmodel.CouponRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleViewer); err != nil {
		return nil, err
	}

	coupons, err := u.couponRepo.List(ctx, groupID, filters, u.clock.Now())
	if err != nil {
		return nil, errs.Wrap(err, "failed to list coupons")
	}
	return coupons, nil
}

func (u *couponUseCaseImpl) UpdateUsage(
	ctx context.Context,
	req reqdto.UpdateUsageRequest,
	groupID, couponID, userID uuid.UUID,
) (*readmodel.CouponRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return nil, err
	}

	mode, err := coupon.NewUsageMode(req.Mode)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	rm, err := u.findCoupon(ctx, couponID, groupID)
	if err != nil {
		return nil, err
	}

	entity, err := reconstructCoupon(rm)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	change, err := entity.PlanUsage(mode, req.GetAmountCents(), u.clock.Now())
	if err != nil {
		return nil, err
	}

	updated, err := u.couponRepo.UpdateUsage(ctx, couponID, groupID, change, u.clock.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, ErrUsageConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return updated, nil
}

func (u *couponUseCaseImpl) UpdateCoupon(
	ctx context.Context,
	req reqdto.UpdateCouponRequest,
	groupID, couponID, userID uuid.UUID,
) (*readmodel.CouponRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return nil, err
	}

	change, err := req.ToChange()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	rm, err := u.findCoupon(ctx, couponID, groupID)
	if err != nil {
		return nil, err
	}

	entity, err := reconstructCoupon(rm)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := entity.ApplyEdit(change, u.clock.Now()); err != nil {
		return nil, err
	}

	updated, err := u.couponRepo.Update(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return updated, nil
}

// CancelCoupon requires the group admin role; cancellation is terminal.
func (u *couponUseCaseImpl) CancelCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) (*readmodel.CouponRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleAdmin); err != nil {
		return nil, err
	}

	rm, err := u.findCoupon(ctx, couponID, groupID)
	if err != nil {
		return nil, err
	}

	entity, err := reconstructCoupon(rm)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity.Cancel(u.clock.Now())

	updated, err := u.couponRepo.Update(ctx, entity)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return updated, nil
}

func (u *couponUseCaseImpl) DeleteCoupon(ctx context.Context, groupID, couponID, userID uuid.UUID) error {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return err
	}

	if err := u.couponRepo.Delete(ctx, couponID, groupID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCouponNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *couponUseCaseImpl) AddImage(
	ctx context.Context,
	req reqdto.AddImageRequest,
	groupID, couponID, userID uuid.UUID,
) (*readmodel.CouponImageRM, error) {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return nil, err
	}

	if _, err := u.findCoupon(ctx, couponID, groupID); err != nil {
		return nil, err
	}

	img, err := coupon.NewImage(req.URL, req.FileName, req.MimeType, req.IsPrimary, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	rm, err := u.imageRepo.Add(ctx, couponID, img)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rm, nil
}

func (u *couponUseCaseImpl) DeleteImage(ctx context.Context, groupID, couponID, imageID, userID uuid.UUID) error {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return err
	}

	if _, err := u.findCoupon(ctx, couponID, groupID); err != nil {
		return err
	}

	if err := u.imageRepo.Delete(ctx, couponID, imageID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrImageNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *couponUseCaseImpl) SetPrimaryImage(ctx context.Context, groupID, couponID, imageID, userID uuid.UUID) error {
	if _, err := requireMembership(ctx, u.groupRepo, groupID, userID, user.RoleEditor); err != nil {
		return err
	}

	if _, err := u.findCoupon(ctx, couponID, groupID); err != nil {
		return err
	}

	if err := u.imageRepo.SetPrimary(ctx, couponID, imageID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrImageNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *couponUseCaseImpl) findCoupon(ctx context.Context, couponID, groupID uuid.UUID) (*readmodel.CouponRM, error) {
	rm, err := u.couponRepo.FindByID(ctx, couponID, groupID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Wrap(err, "failed to find coupon")
	}
	return rm, nil
}

// reconstructCoupon rebuilds the aggregate from a read model so domain rules
// run against persisted state.
func reconstructCoupon(rm *readmodel.CouponRM) (*coupon.Coupon, error) {
	typ, err := coupon.NewType(rm.Type)
	if err != nil {
		return nil, err
	}
	title, err := coupon.NewTitle(rm.Title)
	if err != nil {
		return nil, err
	}
	status, err := coupon.NewStatus(rm.Status)
	if err != nil {
		return nil, err
	}
	currency, err := coupon.NewCurrency(rm.Currency)
	if err != nil {
		return nil, err
	}

	multiCouponName := ""
	if rm.MultiCouponName != nil {
		multiCouponName = *rm.MultiCouponName
	}
	notes := ""
	if rm.Notes != nil {
		notes = *rm.Notes
	}

	return coupon.Reconstruct(
		rm.ID, rm.GroupID, rm.CreatedBy,
		typ, title, rm.StoreID, multiCouponName,
		coupon.MappingStatus(rm.MappingStatus), rm.ResolvedStoreIDs,
		rm.ExpiryDate, rm.TotalAmountCents, rm.UsedAmountCents,
		currency, status, notes,
		rm.CreatedAt, rm.UpdatedAt,
	), nil
}
