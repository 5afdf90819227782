package components

import (
	"couponkeeper/internal/pkg/clock"
	"couponkeeper/internal/pkg/config"
	"couponkeeper/internal/pkg/joblock"
	"couponkeeper/internal/pkg/mail"
	"couponkeeper/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewTokenValidator,
		usecase.NewAuthUseCase,
		usecase.NewGroupUseCase,
		usecase.NewMultiCouponUseCase,
		// The coupon use case depends only on the resolver and tracker
		// slices of the multi-coupon use case.
		func(mc usecase.MultiCouponUseCase) usecase.Resolver { return mc },
		func(mc usecase.MultiCouponUseCase) usecase.UnmappedTracker { return mc },
		usecase.NewCouponUseCase,
		usecase.NewStoreUseCase,
		usecase.NewNotificationUseCase,
		NewExpiryUseCase,
	),
)

func NewExpiryUseCase(
	couponRepo usecase.ExpiringCouponRepository,
	preferenceRepo usecase.PreferenceRepository,
	groupRepo usecase.GroupRepository,
	mailer mail.Mailer,
	locker joblock.Locker,
	clock clock.Clock,
	cfg config.Config,
) usecase.ExpiryUseCase {
	return usecase.NewExpiryUseCase(
		couponRepo,
		preferenceRepo,
		groupRepo,
		mailer,
		locker,
		clock,
		cfg.Job.NotifyConcurrency,
	)
}
