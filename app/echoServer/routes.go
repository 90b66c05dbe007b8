package echoServer

import (
	"gamehub/app/echoServer/controller/asset"
	"gamehub/app/echoServer/controller/auth"
	"gamehub/app/echoServer/controller/payment"
	"gamehub/model"

	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Payment   *payment.Controller
	Asset     *asset.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.GET("/payment-info", c.Payment.ActivePaymentInfo)
	pub.GET("/assets/public", c.Asset.Public)
	pub.GET("/assets/type/:type", c.Asset.ByType)
	pub.GET("/assets/search", c.Asset.SearchByTag)

	// Authenticated
	authed := e.Group("/api/v1")
	authed.Use(JWTAuth(c.JWTSecret))

	member := RequireRoles(model.RoleAdmin, model.RoleDesigner, model.RoleDeveloper)
	adminOnly := RequireRoles(model.RoleAdmin)
	developer := RequireRoles(model.RoleDeveloper)
	designer := RequireRoles(model.RoleDesigner)

	// Payment info
	authed.POST("/payment-info", c.Payment.SetMyPaymentInfo, member)
	authed.POST("/payment-info/admin", c.Payment.SetGlobalPaymentInfo, adminOnly)
	authed.GET("/payment-info/my-info", c.Payment.MyPaymentInfo, member)

	// Deposits
	authed.POST("/deposits", c.Payment.CreateDeposit, developer)
	authed.GET("/deposits/my-requests", c.Payment.MyDeposits, developer)
	authed.GET("/deposits/pending", c.Payment.PendingDeposits, adminOnly)
	authed.PUT("/deposits/:id/approve", c.Payment.ApproveDeposit, adminOnly)
	authed.GET("/deposits/:id", c.Payment.DepositByID) // admin-or-owner checked in the service
	authed.GET("/wallet/ledger", c.Payment.Ledger, member)

	// Assets
	authed.POST("/assets/upload", c.Asset.Upload, designer)
	authed.GET("/assets/my-assets", c.Asset.Mine, designer)
	authed.GET("/assets/pending", c.Asset.Pending, adminOnly)
	authed.PUT("/assets/:id/approve", c.Asset.Approve, adminOnly)
	authed.PUT("/assets/:id/reject", c.Asset.Reject, adminOnly)

	// Admin user administration
	authed.PUT("/admin/users/:id/status", c.Auth.SetUserStatus, adminOnly)
}
