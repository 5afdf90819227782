package components

import (
	repo_impl "couponkeeper/internal/infra/repository"
	"couponkeeper/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(usecase.UserRepository)),
			fx.As(new(usecase.AdminDirectory)),
		),
		fx.Annotate(
			repo_impl.NewGroupRepository,
			fx.As(new(usecase.GroupRepository)),
		),
		// The coupon repository serves three narrow interfaces: the CRUD
		// surface, the unmapped-candidate lookup, and the expiry sweep.
		fx.Annotate(
			repo_impl.NewCouponRepository,
			fx.As(new(usecase.CouponRepository)),
			fx.As(new(usecase.UnmappedCouponRepository)),
			fx.As(new(usecase.ExpiringCouponRepository)),
		),
		fx.Annotate(
			repo_impl.NewCouponImageRepository,
			fx.As(new(usecase.CouponImageRepository)),
		),
		fx.Annotate(
			repo_impl.NewStoreRepository,
			fx.As(new(usecase.StoreRepository)),
			fx.As(new(usecase.StoreAdminRepository)),
		),
		fx.Annotate(
			repo_impl.NewDefinitionRepository,
			fx.As(new(usecase.DefinitionRepository)),
		),
		fx.Annotate(
			repo_impl.NewEventRepository,
			fx.As(new(usecase.EventRepository)),
		),
		fx.Annotate(
			repo_impl.NewPreferenceRepository,
			fx.As(new(usecase.PreferenceRepository)),
		),
	),
)
