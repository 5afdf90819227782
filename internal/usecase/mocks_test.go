//go:build unit

package usecase_test

import (
	"context"
	"time"

	"couponkeeper/internal/domain/coupon"
	"couponkeeper/internal/domain/multicoupon"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindMembershipRole(ctx context.Context, groupID, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, groupID, userID)
	return args.String(0), args.Error(1)
}

func (m *MockGroupRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.GroupRM, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.GroupRM), args.Error(1)
}

func (m *MockGroupRepository) ListActiveGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, c *coupon.Coupon) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id, groupID uuid.UUID) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, id, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponRepository) List(ctx context.Context, groupID uuid.UUID, filters readmodel.CouponListFilters, now time.Time) ([]*readmodel.CouponRM, error) {
	args := m.Called(ctx, groupID, filters, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponRepository) UpdateUsage(ctx context.Context, id, groupID uuid.UUID, change coupon.UsageChange, now time.Time) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, id, groupID, change, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponRepository) Update(ctx context.Context, c *coupon.Coupon) (*readmodel.CouponRM, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponRM), args.Error(1)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id, groupID uuid.UUID) error {
	args := m.Called(ctx, id, groupID)
	return args.Error(0)
}

type MockCouponImageRepository struct {
	mock.Mock
}

func (m *MockCouponImageRepository) Add(ctx context.Context, couponID uuid.UUID, img coupon.Image) (*readmodel.CouponImageRM, error) {
	args := m.Called(ctx, couponID, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.CouponImageRM), args.Error(1)
}

func (m *MockCouponImageRepository) Delete(ctx context.Context, couponID, imageID uuid.UUID) error {
	args := m.Called(ctx, couponID, imageID)
	return args.Error(0)
}

func (m *MockCouponImageRepository) SetPrimary(ctx context.Context, couponID, imageID uuid.UUID) error {
	args := m.Called(ctx, couponID, imageID)
	return args.Error(0)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.StoreRM, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.StoreRM), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, name string) (coupon.Resolution, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(coupon.Resolution), args.Error(1)
}

type MockUnmappedTracker struct {
	mock.Mock
}

func (m *MockUnmappedTracker) RecordUnmapped(ctx context.Context, multiCouponName string, couponID, groupID, createdBy uuid.UUID) {
	m.Called(ctx, multiCouponName, couponID, groupID, createdBy)
}

type MockDefinitionRepository struct {
	mock.Mock
}

func (m *MockDefinitionRepository) Create(ctx context.Context, d *multicoupon.Definition) (*readmodel.DefinitionRM, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.DefinitionRM), args.Error(1)
}

func (m *MockDefinitionRepository) Update(ctx context.Context, d *multicoupon.Definition) (*readmodel.DefinitionRM, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.DefinitionRM), args.Error(1)
}

func (m *MockDefinitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDefinitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.DefinitionRM, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.DefinitionRM), args.Error(1)
}

func (m *MockDefinitionRepository) FindActiveByName(ctx context.Context, name string) (*readmodel.DefinitionRM, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.DefinitionRM), args.Error(1)
}

func (m *MockDefinitionRepository) List(ctx context.Context) ([]*readmodel.DefinitionRM, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.DefinitionRM), args.Error(1)
}

func (m *MockDefinitionRepository) ListActiveNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *multicoupon.Event) (*readmodel.UnmappedEventRM, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.UnmappedEventRM), args.Error(1)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.UnmappedEventRM, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.UnmappedEventRM), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, status *string) ([]*readmodel.UnmappedEventRM, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.UnmappedEventRM), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *multicoupon.Event) (*readmodel.UnmappedEventRM, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.UnmappedEventRM), args.Error(1)
}

func (m *MockEventRepository) MarkHandledForCoupon(ctx context.Context, couponID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, couponID, now)
	return args.Error(0)
}

type MockUnmappedCouponRepository struct {
	mock.Mock
}

func (m *MockUnmappedCouponRepository) FindUnmappedByName(ctx context.Context, name string) ([]*readmodel.CouponRM, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.CouponRM), args.Error(1)
}

func (m *MockUnmappedCouponRepository) Remap(ctx context.Context, id uuid.UUID, storeIDs []uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, storeIDs, now)
	return args.Error(0)
}

type MockAdminDirectory struct {
	mock.Mock
}

func (m *MockAdminDirectory) ListNotifiableAdminEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to []string, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, name, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*readmodel.PreferenceRM, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.PreferenceRM), args.Error(1)
}

func (m *MockPreferenceRepository) Upsert(ctx context.Context, pref *readmodel.PreferenceRM, now time.Time) (*readmodel.PreferenceRM, error) {
	args := m.Called(ctx, pref, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*readmodel.PreferenceRM), args.Error(1)
}

func (m *MockPreferenceRepository) ListEnabled(ctx context.Context) ([]*readmodel.EnabledPreferenceRM, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.EnabledPreferenceRM), args.Error(1)
}

type MockExpiringCouponRepository struct {
	mock.Mock
}

func (m *MockExpiringCouponRepository) BulkExpire(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpiringCouponRepository) FindExpiringInWindow(ctx context.Context, groupIDs []uuid.UUID, from, to time.Time) ([]*readmodel.CouponRM, error) {
	args := m.Called(ctx, groupIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*readmodel.CouponRM), args.Error(1)
}
