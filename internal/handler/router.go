package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"couponkeeper/internal/handler/api"
	"couponkeeper/internal/handler/middleware"
	"couponkeeper/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth         *api.AuthHandler
	Group        *api.GroupHandler
	Coupon       *api.CouponHandler
	MultiCoupon  *api.MultiCouponHandler
	Store        *api.StoreHandler
	Notification *api.NotificationHandler
	Job          *api.JobHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jobs := engine.Group("/internal/jobs")
	jobs.Use(middleware.JobAuth(cfg.Job))
	addRoutes(jobs, []route{
		{Method: http.MethodPost, Path: "/daily-expiry", Handler: h.Job.RunDailyExpiry},
	})

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			addRoutes(authed, []route{
				{Method: http.MethodGet, Path: "/groups", Handler: h.Group.ListMyGroups},
				{Method: http.MethodGet, Path: "/stores", Handler: h.Store.ListActiveStores},
				{Method: http.MethodGet, Path: "/multi-coupons", Handler: h.MultiCoupon.ListActiveNames},
				{Method: http.MethodGet, Path: "/me/notification-preferences", Handler: h.Notification.GetPreference},
				{Method: http.MethodPut, Path: "/me/notification-preferences", Handler: h.Notification.UpdatePreference},
			})

			coupons := authed.Group("/groups/:groupId/coupons")
			addRoutes(coupons, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Coupon.CreateCoupon},
				{Method: http.MethodGet, Path: "", Handler: h.Coupon.ListCoupons},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Coupon.GetCoupon},
				{Method: http.MethodPatch, Path: "/:id", Handler: h.Coupon.UpdateCoupon},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Coupon.DeleteCoupon},
				{Method: http.MethodPost, Path: "/:id/usage", Handler: h.Coupon.UpdateUsage},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Coupon.CancelCoupon},
				{Method: http.MethodPost, Path: "/:id/images", Handler: h.Coupon.AddImage},
				{Method: http.MethodDelete, Path: "/:id/images/:imageId", Handler: h.Coupon.DeleteImage},
				{Method: http.MethodPost, Path: "/:id/images/:imageId/primary", Handler: h.Coupon.SetPrimaryImage},
			})

			admin := authed.Group("/admin")
			admin.Use(authMiddleware.RequireSuperAdmin())
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/stores", Handler: h.Store.ListAllStores},
				{Method: http.MethodPost, Path: "/stores", Handler: h.Store.CreateStore},
				{Method: http.MethodPut, Path: "/stores/:id", Handler: h.Store.UpdateStore},
				{Method: http.MethodDelete, Path: "/stores/:id", Handler: h.Store.DeleteStore},

				{Method: http.MethodGet, Path: "/multi-coupon-definitions", Handler: h.MultiCoupon.ListDefinitions},
				{Method: http.MethodPost, Path: "/multi-coupon-definitions", Handler: h.MultiCoupon.CreateDefinition},
				{Method: http.MethodGet, Path: "/multi-coupon-definitions/:id", Handler: h.MultiCoupon.GetDefinition},
				{Method: http.MethodPut, Path: "/multi-coupon-definitions/:id", Handler: h.MultiCoupon.UpdateDefinition},
				{Method: http.MethodDelete, Path: "/multi-coupon-definitions/:id", Handler: h.MultiCoupon.DeleteDefinition},
				{Method: http.MethodPost, Path: "/multi-coupon-definitions/:id/resolve-unmapped", Handler: h.MultiCoupon.ResolveUnmapped},

				{Method: http.MethodGet, Path: "/unmapped-events", Handler: h.MultiCoupon.ListEvents},
				{Method: http.MethodPatch, Path: "/unmapped-events/:id", Handler: h.MultiCoupon.UpdateEvent},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
