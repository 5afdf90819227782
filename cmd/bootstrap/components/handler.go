package components

import (
	"couponkeeper/internal/handler"
	"couponkeeper/internal/handler/api"
	"couponkeeper/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewGroupHandler,
		api.NewCouponHandler,
		api.NewMultiCouponHandler,
		api.NewStoreHandler,
		api.NewNotificationHandler,
		api.NewJobHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	group *api.GroupHandler,
	coupon *api.CouponHandler,
	multiCoupon *api.MultiCouponHandler,
	store *api.StoreHandler,
	notification *api.NotificationHandler,
	job *api.JobHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:         auth,
		Group:        group,
		Coupon:       coupon,
		MultiCoupon:  multiCoupon,
		Store:        store,
		Notification: notification,
		Job:          job,
	}
}
