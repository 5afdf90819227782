package usecase

import (
	"context"
	"errors"
	"time"

	reqdto "couponkeeper/internal/handler/dto/request"
	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var ErrInvalidTimezone = errors.New("invalid timezone")

type PreferenceRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*readmodel.PreferenceRM, error)
	Upsert(ctx context.Context, pref *readmodel.PreferenceRM, now time.Time) (*readmodel.PreferenceRM, error)
	ListEnabled(ctx context.Context) ([]*readmodel.EnabledPreferenceRM, error)
}

type NotificationUseCase interface {
	GetPreference(ctx context.Context, userID uuid.UUID) (*readmodel.PreferenceRM, error)
	UpdatePreference(ctx context.Context, userID uuid.UUID, req reqdto.UpdatePreferenceRequest) (*readmodel.PreferenceRM, error)
}

type notificationUseCaseImpl struct {
	preferenceRepo PreferenceRepository
	clock          clock.Clock
}

func NewNotificationUseCase(preferenceRepo PreferenceRepository, clock clock.Clock) NotificationUseCase {
	return &notificationUseCaseImpl{preferenceRepo: preferenceRepo, clock: clock}
}

func (u *notificationUseCaseImpl) GetPreference(ctx context.Context, userID uuid.UUID) (*readmodel.PreferenceRM, error) {
	pref, err := u.preferenceRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load notification preference")
	}
	return pref, nil
}

func (u *notificationUseCaseImpl) UpdatePreference(ctx context.Context, userID uuid.UUID, req reqdto.UpdatePreferenceRequest) (*readmodel.PreferenceRM, error) {
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, ErrInvalidTimezone
	}

	pref := &readmodel.PreferenceRM{
		UserID:      userID,
		Enabled:     req.Enabled,
		DaysBefore:  dedupeDays(req.DaysBefore),
		Timezone:    req.Timezone,
		EmailDigest: req.EmailDigest,
	}

	saved, err := u.preferenceRepo.Upsert(ctx, pref, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return saved, nil
}

func dedupeDays(days []int) []int {
	seen := make(map[int]struct{}, len(days))
	result := make([]int, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}
	return result
}
