package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/foodorder/food-order-api/internal/handlers"
	mwauth "github.com/foodorder/food-order-api/internal/middleware/auth"
	"github.com/foodorder/food-order-api/internal/repo"
	"github.com/foodorder/food-order-api/internal/tokens"
)

type Deps struct {
	DB                *gorm.DB
	Repo              *repo.GormRepo
	Issuer            tokens.Issuer
	AuthHandler       *handlers.AuthHandler
	CouponHandler     *handlers.CouponHandler
	SliderHandler     *handlers.SliderHandler
	CategoryHandler   *handlers.CategoryHandler
	RoleHandler       *handlers.RoleHandler
	PermissionHandler *handlers.PermissionHandler
	SearchHandler     *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.NoContent(503)
		}
		return c.NoContent(200)
	})

	authenticated := mwauth.Authenticate(d.Issuer, d.Repo)
	adminOnly := mwauth.Authorize(d.Repo, "admin")

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh-token", d.AuthHandler.Refresh)
	auth.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	auth.POST("/reset-password", d.AuthHandler.ResetPassword)

	auth.POST("/logout", d.AuthHandler.Logout, authenticated)
	auth.POST("/logout-all", d.AuthHandler.LogoutAll, authenticated)
	auth.GET("/profile", d.AuthHandler.Profile, authenticated)

	v1.GET("/search", d.SearchHandler.Search, authenticated, adminOnly)

	coupons := v1.Group("/coupons", authenticated, adminOnly)
	coupons.GET("", d.CouponHandler.List)
	coupons.GET("/:id", d.CouponHandler.Get)
	coupons.POST("", d.CouponHandler.Create)
	coupons.PUT("/:id", d.CouponHandler.Update)
	coupons.DELETE("/:id", d.CouponHandler.Delete)

	sliders := v1.Group("/sliders", authenticated, adminOnly)
	sliders.GET("", d.SliderHandler.List)
	sliders.GET("/:id", d.SliderHandler.Get)
	sliders.POST("", d.SliderHandler.Create)
	sliders.PUT("/:id", d.SliderHandler.Update)
	sliders.DELETE("/:id", d.SliderHandler.Delete)

	categories := v1.Group("/product-categories", authenticated, adminOnly)
	categories.GET("", d.CategoryHandler.List)
	categories.GET("/parents", d.CategoryHandler.Parents)
	categories.GET("/:id", d.CategoryHandler.Get)
	categories.GET("/:id/children", d.CategoryHandler.Children)
	categories.GET("/:id/ancestors", d.CategoryHandler.Ancestors)
	categories.POST("", d.CategoryHandler.Create)
	categories.PUT("/:id", d.CategoryHandler.Update)
	categories.DELETE("/:id", d.CategoryHandler.Delete)

	roles := v1.Group("/roles", authenticated, adminOnly)
	roles.GET("", d.RoleHandler.List)
	roles.GET("/:id", d.RoleHandler.Get)
	roles.POST("", d.RoleHandler.Create)
	roles.PUT("/:id", d.RoleHandler.Update)
	roles.DELETE("/:id", d.RoleHandler.Delete)

	permissions := v1.Group("/permissions", authenticated, adminOnly)
	permissions.GET("", d.PermissionHandler.List)
	permissions.GET("/:id", d.PermissionHandler.Get)
	permissions.POST("", d.PermissionHandler.Create)
	permissions.PUT("/:id", d.PermissionHandler.Update)
	permissions.DELETE("/:id", d.PermissionHandler.Delete)
}
