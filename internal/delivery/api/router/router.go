// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"medistore/internal/delivery/api/middleware"
	"medistore/internal/delivery/api/router/handler"
	"medistore/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	MedicineHandler *handler.MedicineHandler
	OrderHandler    *handler.OrderHandler
	ReviewHandler   *handler.ReviewHandler
	UserHandler     *handler.UserHandler
	DeviceHandler   *handler.DeviceHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	medicineHandler *handler.MedicineHandler
	orderHandler    *handler.OrderHandler
	reviewHandler   *handler.ReviewHandler
	userHandler     *handler.UserHandler
	deviceHandler   *handler.DeviceHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		medicineHandler: params.MedicineHandler,
		orderHandler:    params.OrderHandler,
		reviewHandler:   params.ReviewHandler,
		userHandler:     params.UserHandler,
		deviceHandler:   params.DeviceHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Every other route may carry a session; each route declares what it requires.
	app := e.Group("", r.authMiddleware.Authenticate)
	verified := r.authMiddleware.Require()

	authGroup := app.Group("/api/auth")
	{
		authGroup.POST("/sign-up/email", r.authHandler.SignUpEmail)
		authGroup.POST("/sign-in/email", r.authHandler.SignInEmail)
		authGroup.POST("/sign-in/google", r.authHandler.SignInGoogle)
		authGroup.GET("/verify-email", r.authHandler.VerifyEmail)
		authGroup.POST("/sign-out", r.authHandler.SignOut, r.authMiddleware.RequireSession)
		authGroup.GET("/get-session", r.authHandler.GetSession, r.authMiddleware.RequireSession)
	}

	medicineGroup := app.Group("/medicine")
	{
		medicineGroup.GET("", r.medicineHandler.ListMedicines)
		medicineGroup.GET("/:id", r.medicineHandler.GetMedicine)
		medicineGroup.GET("/:id/qr", r.medicineHandler.GetMedicineQR)
		medicineGroup.POST("", r.medicineHandler.CreateMedicine,
			r.authMiddleware.Require(entity.RoleCustomer, entity.RoleSeller))
		medicineGroup.PATCH("/:id", r.medicineHandler.UpdateMedicine, verified)
		medicineGroup.DELETE("/:id", r.medicineHandler.DeleteMedicine, verified)
	}

	orderGroup := app.Group("/orders")
	{
		orderGroup.POST("", r.orderHandler.CreateOrder, r.authMiddleware.Require(entity.RoleCustomer))
		orderGroup.GET("/my-orders", r.orderHandler.GetMyOrders,
			r.authMiddleware.Require(entity.RoleCustomer, entity.RoleSeller))
		orderGroup.GET("/seller-orders", r.orderHandler.GetSellerOrders,
			r.authMiddleware.Require(entity.RoleSeller, entity.RoleAdmin))
		orderGroup.GET("/:id", r.orderHandler.GetOrder, verified)
		orderGroup.PATCH("/:id/status", r.orderHandler.UpdateOrderStatus,
			r.authMiddleware.Require(entity.RoleSeller, entity.RoleAdmin))
	}

	reviewGroup := app.Group("/reviews")
	{
		reviewGroup.POST("", r.reviewHandler.AddReview, r.authMiddleware.Require(entity.RoleCustomer))
		reviewGroup.GET("/:medicineId", r.reviewHandler.GetMedicineReviews)
	}

	userGroup := app.Group("/users")
	{
		userGroup.GET("/profile", r.userHandler.GetProfile, verified)
		userGroup.PATCH("/profile", r.userHandler.UpdateProfile, verified)

		adminOnly := r.authMiddleware.Require(entity.RoleAdmin)
		userGroup.GET("", r.userHandler.ListUsers, adminOnly)
		userGroup.PATCH("/:id/role", r.userHandler.UpdateUserRole, adminOnly)
		userGroup.PATCH("/:id/ban", r.userHandler.SetUserBanned, adminOnly)
	}

	// Device management routes
	devicesGroup := app.Group("/devices", verified)
	{
		devicesGroup.POST("", r.deviceHandler.RegisterDevice)
		devicesGroup.GET("", r.deviceHandler.GetUserDevices)
		devicesGroup.PUT("/:id/token", r.deviceHandler.UpdateFCMToken)
		devicesGroup.DELETE("/:id", r.deviceHandler.DeactivateDevice)
	}
}
