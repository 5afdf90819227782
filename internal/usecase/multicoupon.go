package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/internal/domain/multicoupon"
	reqdto "couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/pkg/mail"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrDefinitionNotFound      = errors.New("multi-coupon definition not found")
	ErrDuplicateDefinitionName = errors.New("multi-coupon definition name already exists")
	ErrEventNotFound           = errors.New("unmapped event not found")
)

type DefinitionRepository interface {
	Create(ctx context.Context, d *multicoupon.Definition) (*readmodel.DefinitionRM, error)
	Update(ctx context.Context, d *multicoupon.Definition) (*readmodel.DefinitionRM, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.DefinitionRM, error)
	FindActiveByName(ctx context.Context, name string) (*readmodel.DefinitionRM, error)
	List(ctx context.Context) ([]*readmodel.DefinitionRM, error)
	ListActiveNames(ctx context.Context) ([]string, error)
}

type EventRepository interface {
	Create(ctx context.Context, e *multicoupon.Event) (*readmodel.UnmappedEventRM, error)
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.UnmappedEventRM, error)
	List(ctx context.Context, status *string) ([]*readmodel.UnmappedEventRM, error)
	Update(ctx context.Context, e *multicoupon.Event) (*readmodel.UnmappedEventRM, error)
	MarkHandledForCoupon(ctx context.Context, couponID uuid.UUID, now time.Time) error
}

// UnmappedCouponRepository is the slice of coupon persistence the
// resolve-unmapped batch needs.
type UnmappedCouponRepository interface {
	FindUnmappedByName(ctx context.Context, name string) ([]*readmodel.CouponRM, error)
	Remap(ctx context.Context, id uuid.UUID, storeIDs []uuid.UUID, now time.Time) error
}

// AdminDirectory lists administrators who should hear about unmapped
// multi-coupon names. Backed by the user repository.
type AdminDirectory interface {
	ListNotifiableAdminEmails(ctx context.Context) ([]string, error)
}

type MultiCouponUseCase interface {
	Resolver
	UnmappedTracker

	CreateDefinition(ctx context.Context, req reqdto.CreateDefinitionRequest) (*readmodel.DefinitionRM, error)
	UpdateDefinition(ctx context.Context, id uuid.UUID, req reqdto.UpdateDefinitionRequest) (*readmodel.DefinitionRM, error)
	DeleteDefinition(ctx context.Context, id uuid.UUID) error
	GetDefinition(ctx context.Context, id uuid.UUID) (*readmodel.DefinitionRM, error)
	ListDefinitions(ctx context.Context) ([]*readmodel.DefinitionRM, error)
	ListActiveNames(ctx context.Context) ([]string, error)
	ResolveUnmapped(ctx context.Context, definitionID uuid.UUID) (int, error)
	ListEvents(ctx context.Context, status *string) ([]*readmodel.UnmappedEventRM, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req reqdto.UpdateEventRequest) (*readmodel.UnmappedEventRM, error)
}

type multiCouponUseCaseImpl struct {
	definitionRepo DefinitionRepository
	eventRepo      EventRepository
	couponRepo     UnmappedCouponRepository
	adminDirectory AdminDirectory
	mailer         mail.Mailer
	clock          clock.Clock
}

func NewMultiCouponUseCase(
	definitionRepo DefinitionRepository,
	eventRepo EventRepository,
	couponRepo UnmappedCouponRepository,
	adminDirectory AdminDirectory,
	mailer mail.Mailer,
	clock clock.Clock,
) MultiCouponUseCase {
	return &multiCouponUseCaseImpl{
		definitionRepo: definitionRepo,
		eventRepo:      eventRepo,
		couponRepo:     couponRepo,
		adminDirectory: adminDirectory,
		mailer:         mailer,
		clock:          clock,
	}
}

// Resolve matches the name against active definitions, case-insensitive and
// exact. A hit snapshots the definition's current store ids; a miss yields
// UNMAPPED. Called only at coupon-creation time: later definition changes
// never touch already-resolved coupons.
func (u *multiCouponUseCaseImpl) Resolve(ctx context.Context, name string) (coupon.Resolution, error) {
	definition, err := u.definitionRepo.FindActiveByName(ctx, name)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return coupon.UnmappedResolution(), nil
		}
		return coupon.Resolution{}, errs.Wrap(err, "failed to resolve multi-coupon name")
	}
	return coupon.MappedResolution(definition.StoreIDs), nil
}

// RecordUnmapped persists one open event per unmapped creation and alerts the
// admin roster. Everything here is best-effort relative to coupon creation:
// failures are logged and swallowed.
func (u *multiCouponUseCaseImpl) RecordUnmapped(ctx context.Context, multiCouponName string, couponID, groupID, createdBy uuid.UUID) {
	event := multicoupon.NewEvent(multiCouponName, couponID, groupID, createdBy, u.clock.Now())
	if _, err := u.eventRepo.Create(ctx, event); err != nil {
		slog.Error("failed to record unmapped multi-coupon event",
			"multi_coupon_name", multiCouponName, "coupon_id", couponID, "error", err)
		return
	}

	admins, err := u.adminDirectory.ListNotifiableAdminEmails(ctx)
	if err != nil {
		slog.Error("failed to list admins for unmapped alert", "error", err)
		return
	}
	if len(admins) == 0 {
		return
	}

	subject := fmt.Sprintf("Unmapped multi-coupon name: %s", multiCouponName)
	body := fmt.Sprintf(
		"<p>A coupon was created with the multi-coupon name <b>%s</b>, which matches no active definition.</p>"+
			"<p>Coupon: %s<br>Group: %s</p>"+
			"<p>Create or update a definition and run resolve-unmapped to map it.</p>",
		multiCouponName, couponID, groupID,
	)
	if err := u.mailer.Send(admins, subject, body); err != nil {
		slog.Warn("failed to send unmapped alert email",
			"multi_coupon_name", multiCouponName, "error", err)
	}
}

func (u *multiCouponUseCaseImpl) CreateDefinition(ctx context.Context, req reqdto.CreateDefinitionRequest) (*readmodel.DefinitionRM, error) {
	name, err := multicoupon.NewName(req.Name)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	definition, err := multicoupon.NewDefinition(name, req.StoreIDs, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	rm, err := u.definitionRepo.Create(ctx, definition)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateDefinitionName
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rm, nil
}

func (u *multiCouponUseCaseImpl) UpdateDefinition(ctx context.Context, id uuid.UUID, req reqdto.UpdateDefinitionRequest) (*readmodel.DefinitionRM, error) {
	definition, err := u.loadDefinition(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := multicoupon.NewName(req.Name)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}
	if err := definition.Update(name, req.StoreIDs, req.IsActive, u.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	rm, err := u.definitionRepo.Update(ctx, definition)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrDuplicateDefinitionName
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return rm, nil
}

// DeleteDefinition removes the catalog row only. Coupons resolved through it
// keep their snapshot.
func (u *multiCouponUseCaseImpl) DeleteDefinition(ctx context.Context, id uuid.UUID) error {
	if err := u.definitionRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrDefinitionNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *multiCouponUseCaseImpl) GetDefinition(ctx context.Context, id uuid.UUID) (*readmodel.DefinitionRM, error) {
	rm, err := u.definitionRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, errs.Wrap(err, "failed to find definition")
	}
	return rm, nil
}

func (u *multiCouponUseCaseImpl) ListDefinitions(ctx context.Context) ([]*readmodel.DefinitionRM, error) {
	definitions, err := u.definitionRepo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list definitions")
	}
	return definitions, nil
}

func (u *multiCouponUseCaseImpl) ListActiveNames(ctx context.Context) ([]string, error) {
	names, err := u.definitionRepo.ListActiveNames(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list definition names")
	}
	return names, nil
}

// ResolveUnmapped maps every UNMAPPED coupon whose name equals the
// definition's (case-insensitive) to the definition's current store set and
// closes the coupons' open events. Idempotent: a second run finds nothing.
func (u *multiCouponUseCaseImpl) ResolveUnmapped(ctx context.Context, definitionID uuid.UUID) (int, error) {
	definition, err := u.loadDefinition(ctx, definitionID)
	if err != nil {
		return 0, err
	}

	candidates, err := u.couponRepo.FindUnmappedByName(ctx, definition.Name().String())
	if err != nil {
		return 0, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := u.clock.Now()
	resolved := 0
	for _, candidate := range candidates {
		if err := u.couponRepo.Remap(ctx, candidate.ID, definition.StoreIDs(), now); err != nil {
			return resolved, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := u.eventRepo.MarkHandledForCoupon(ctx, candidate.ID, now); err != nil {
			return resolved, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		resolved++
	}
	return resolved, nil
}

func (u *multiCouponUseCaseImpl) ListEvents(ctx context.Context, status *string) ([]*readmodel.UnmappedEventRM, error) {
	events, err := u.eventRepo.List(ctx, status)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list unmapped events")
	}
	return events, nil
}

func (u *multiCouponUseCaseImpl) UpdateEvent(ctx context.Context, id uuid.UUID, req reqdto.UpdateEventRequest) (*readmodel.UnmappedEventRM, error) {
	rm, err := u.eventRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, errs.Wrap(err, "failed to find unmapped event")
	}

	target, err := multicoupon.NewEventStatus(req.Status)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	event := reconstructEvent(rm)
	if err := event.Transition(target, req.Notes, u.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrDomainValidationFailed)
	}

	updated, err := u.eventRepo.Update(ctx, event)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return updated, nil
}

func (u *multiCouponUseCaseImpl) loadDefinition(ctx context.Context, id uuid.UUID) (*multicoupon.Definition, error) {
	rm, err := u.definitionRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrDefinitionNotFound
		}
		return nil, errs.Wrap(err, "failed to find definition")
	}

	name, err := multicoupon.NewName(rm.Name)
	if err != nil {
		return nil, errs.Wrap(err, "unexpected definition name")
	}
	return multicoupon.ReconstructDefinition(rm.ID, name, rm.StoreIDs, rm.IsActive, rm.CreatedAt, rm.UpdatedAt), nil
}

func reconstructEvent(rm *readmodel.UnmappedEventRM) *multicoupon.Event {
	return multicoupon.ReconstructEvent(
		rm.ID, rm.MultiCouponName, rm.CouponID, rm.GroupID, rm.CreatedBy,
		multicoupon.EventStatus(rm.Status), rm.AdminNotifiedAt, rm.HandledAt,
		rm.Notes, rm.CreatedAt, rm.UpdatedAt,
	)
}
