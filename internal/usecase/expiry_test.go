//go:build unit

package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/joblock"
	"couponkeeper/internal/usecase"
	"couponkeeper/internal/usecase/readmodel"
	"couponkeeper/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type expiryFixture struct {
	couponRepo     *MockExpiringCouponRepository
	preferenceRepo *MockPreferenceRepository
	groupRepo      *MockGroupRepository
	mailer         *MockMailer
	locker         *MockLocker
	clock          *clock.MockClock
	uc             usecase.ExpiryUseCase
}

func newExpiryFixture(concurrency int) *expiryFixture {
	f := &expiryFixture{
		couponRepo:     new(MockExpiringCouponRepository),
		preferenceRepo: new(MockPreferenceRepository),
		groupRepo:      new(MockGroupRepository),
		mailer:         new(MockMailer),
		locker:         new(MockLocker),
		clock:          clock.NewMockClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
	}
	f.uc = usecase.NewExpiryUseCase(
		f.couponRepo, f.preferenceRepo, f.groupRepo, f.mailer, f.locker, f.clock, concurrency,
	)
	return f
}

func (f *expiryFixture) lockFree() {
	f.locker.On("Acquire", mock.Anything, "daily-expiry", mock.Anything).
		Return(func() {}, nil)
}

func enabledPref(email, tz string, days ...int) *readmodel.EnabledPreferenceRM {
	return &readmodel.EnabledPreferenceRM{
		UserID:      uuid.New(),
		Email:       email,
		DaysBefore:  days,
		Timezone:    tz,
		EmailDigest: true,
	}
}

func TestSweepRun(t *testing.T) {
	ctx := context.Background()

	t.Run("a held lock rejects the run untouched", func(t *testing.T) {
		f := newExpiryFixture(2)
		f.locker.On("Acquire", mock.Anything, "daily-expiry", mock.Anything).
			Return(nil, joblock.ErrAlreadyLocked)

		_, err := f.uc.Run(ctx)
		require.ErrorIs(t, err, usecase.ErrSweepAlreadyRunning)
		f.couponRepo.AssertNotCalled(t, "BulkExpire")
	})

	t.Run("expires overdue coupons even with nobody to notify", func(t *testing.T) {
		f := newExpiryFixture(2)
		f.lockFree()
		f.couponRepo.On("BulkExpire", mock.Anything, f.clock.Now()).Return(int64(4), nil)
		f.preferenceRepo.On("ListEnabled", mock.Anything).
			Return([]*readmodel.EnabledPreferenceRM{}, nil)

		result, err := f.uc.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.ExpiredUpdated)
		assert.Equal(t, int64(0), result.EmailsSent)
	})

	t.Run("sends one digest per user covering all day buckets", func(t *testing.T) {
		f := newExpiryFixture(2)
		f.lockFree()
		f.couponRepo.On("BulkExpire", mock.Anything, mock.Anything).Return(int64(0), nil)

		pref := enabledPref("user@example.com", "UTC", 3, 7)
		f.preferenceRepo.On("ListEnabled", mock.Anything).
			Return([]*readmodel.EnabledPreferenceRM{pref}, nil)

		groupIDs := []uuid.UUID{uuid.New()}
		f.groupRepo.On("ListActiveGroupIDs", mock.Anything, pref.UserID).Return(groupIDs, nil)

		// The same coupon shows up in both windows; the digest must list it once.
		shared := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.Title = "Shared voucher"
		}).BuildRM()
		nearOnly := builder.NewCouponBuilder().With(func(b *builder.CouponBuilder) {
			b.Title = "Near voucher"
		}).BuildRM()

		day := 24 * time.Hour
		threeDayFrom := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
		sevenDayFrom := time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)

		f.couponRepo.On("FindExpiringInWindow", mock.Anything, groupIDs, threeDayFrom, threeDayFrom.Add(day)).
			Return([]*readmodel.CouponRM{shared, nearOnly}, nil)
		f.couponRepo.On("FindExpiringInWindow", mock.Anything, groupIDs, sevenDayFrom, sevenDayFrom.Add(day)).
			Return([]*readmodel.CouponRM{shared}, nil)

		f.mailer.On("Send", []string{"user@example.com"}, mock.Anything,
			mock.MatchedBy(func(body string) bool {
				return strings.Count(body, "Shared voucher") == 1 &&
					strings.Count(body, "Near voucher") == 1
			})).Return(nil)

		result, err := f.uc.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.EmailsSent)
		f.mailer.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("users with the digest disabled are skipped", func(t *testing.T) {
		f := newExpiryFixture(2)
		f.lockFree()
		f.couponRepo.On("BulkExpire", mock.Anything, mock.Anything).Return(int64(0), nil)

		pref := enabledPref("user@example.com", "UTC", 3)
		pref.EmailDigest = false
		f.preferenceRepo.On("ListEnabled", mock.Anything).
			Return([]*readmodel.EnabledPreferenceRM{pref}, nil)

		result, err := f.uc.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.EmailsSent)
		f.mailer.AssertNotCalled(t, "Send")
	})

	t.Run("no expiring coupons means no email", func(t *testing.T) {
		f := newExpiryFixture(2)
		f.lockFree()
		f.couponRepo.On("BulkExpire", mock.Anything, mock.Anything).Return(int64(0), nil)

		pref := enabledPref("user@example.com", "UTC", 3)
		f.preferenceRepo.On("ListEnabled", mock.Anything).
			Return([]*readmodel.EnabledPreferenceRM{pref}, nil)
		f.groupRepo.On("ListActiveGroupIDs", mock.Anything, pref.UserID).
			Return([]uuid.UUID{uuid.New()}, nil)
		f.couponRepo.On("FindExpiringInWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*readmodel.CouponRM{}, nil)

		result, err := f.uc.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.EmailsSent)
		f.mailer.AssertNotCalled(t, "Send")
	})

	t.Run("one failed mailbox does not abort the sweep", func(t *testing.T) {
		f := newExpiryFixture(1)
		f.lockFree()
		f.couponRepo.On("BulkExpire", mock.Anything, mock.Anything).Return(int64(0), nil)

		broken := enabledPref("broken@example.com", "UTC", 3)
		healthy := enabledPref("healthy@example.com", "UTC", 3)
		f.preferenceRepo.On("ListEnabled", mock.Anything).
			Return([]*readmodel.EnabledPreferenceRM{broken, healthy}, nil)

		groupIDs := []uuid.UUID{uuid.New()}
		f.groupRepo.On("ListActiveGroupIDs", mock.Anything, mock.Anything).Return(groupIDs, nil)
		f.couponRepo.On("FindExpiringInWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*readmodel.CouponRM{builder.NewCouponBuilder().BuildRM()}, nil)

		f.mailer.On("Send", []string{"broken@example.com"}, mock.Anything, mock.Anything).
			Return(assert.AnError)
		f.mailer.On("Send", []string{"healthy@example.com"}, mock.Anything, mock.Anything).
			Return(nil)

		result, err := f.uc.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.EmailsSent)
	})

	t.Run("an unknown timezone falls back to UTC", func(t *testing.T) {
		f := newExpiryFixture(1)
		f.lockFree()
		f.couponRepo.On("BulkExpire", mock.Anything, mock.Anything).Return(int64(0), nil)

		pref := enabledPref("user@example.com", "Not/AZone", 3)
		f.preferenceRepo.On("ListEnabled", mock.Anything).
			Return([]*readmodel.EnabledPreferenceRM{pref}, nil)

		groupIDs := []uuid.UUID{uuid.New()}
		f.groupRepo.On("ListActiveGroupIDs", mock.Anything, pref.UserID).Return(groupIDs, nil)

		utcFrom := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
		f.couponRepo.On("FindExpiringInWindow", mock.Anything, groupIDs, utcFrom, utcFrom.Add(24*time.Hour)).
			Return([]*readmodel.CouponRM{}, nil)

		_, err := f.uc.Run(ctx)
		require.NoError(t, err)
		f.couponRepo.AssertExpectations(t)
	})
}
