package server

import (
	"shop/internal/metrics"
	"shop/internal/middleware"

	"github.com/labstack/echo/v4"
)

func registerRoutes(e *echo.Echo, d Deps) {
	h := d.Handlers

	e.GET("/health", h.System.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(d.Registry)))
	e.Static(mediaPrefix(d.Config.Media.URL), d.Config.Media.Root)

	// 公開API。トークンが無い・不正なら匿名として続行
	api := e.Group("/api/v1", middleware.OptionalAuth(d.Tokens, d.Users, d.Shop))
	api.GET("", h.System.Info)
	api.GET("/", h.System.Info)
	h.Catalog.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)

	// ログイン必須はルート単位で掛ける
	requireUser := middleware.RequireUser()
	h.User.RegisterRoutes(api, requireUser)
	h.Address.RegisterRoutes(api, requireUser)
	h.Cart.RegisterRoutes(api, requireUser)

	// 管理API
	admin := e.Group("/api/v1/admin")
	h.AdminAuth.RegisterRoutes(admin)

	protected := admin.Group("", middleware.AdminAuth(d.Tokens, d.Admins))
	h.AdminCatalog.RegisterRoutes(protected)
	h.AdminOrder.RegisterRoutes(protected)
}
