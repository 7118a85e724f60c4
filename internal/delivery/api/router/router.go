// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"catalog/internal/delivery/api/middleware"
	"catalog/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	StorageHandler  *handler.StorageHandler
	AuthMiddleware  *middleware.AuthMiddleware

	// RateLimitStore is nil when rate limiting is disabled.
	RateLimitStore echomiddleware.RateLimiterStore `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	productHandler  *handler.ProductHandler
	categoryHandler *handler.CategoryHandler
	storageHandler  *handler.StorageHandler
	authMiddleware  *middleware.AuthMiddleware
	rateLimit       echo.MiddlewareFunc
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:     params.AuthHandler,
		userHandler:     params.UserHandler,
		productHandler:  params.ProductHandler,
		categoryHandler: params.CategoryHandler,
		storageHandler:  params.StorageHandler,
		authMiddleware:  params.AuthMiddleware,
		rateLimit:       middleware.NewRateLimit(params.RateLimitStore),
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Stored pictures are public
	e.GET("/storage/*", r.storageHandler.GetPicture)

	api := e.Group("/api")
	{
		api.GET("/hello", handler.Hello)
		api.GET("/user", r.authHandler.CurrentUser, r.authMiddleware.Authenticate)
	}

	apiV1 := api.Group("/v1")

	// Auth routes
	{
		apiV1.POST("/register", r.authHandler.Register, r.rateLimit)
		apiV1.POST("/login", r.authHandler.Login, r.rateLimit)
	}

	protected := apiV1.Group("")
	protected.Use(r.authMiddleware.Authenticate)
	{
		protected.POST("/logout", r.authHandler.Logout)
	}

	usersGroup := protected.Group("/users")
	{
		usersGroup.GET("", r.userHandler.ListUsers)
		usersGroup.POST("", r.userHandler.CreateUser)
		usersGroup.GET("/:id", r.userHandler.GetUser)
		usersGroup.PUT("/:id", r.userHandler.UpdateUser)
		usersGroup.DELETE("/:id", r.userHandler.DeleteUser)
	}

	productsGroup := protected.Group("/products")
	{
		productsGroup.GET("", r.productHandler.ListProducts)
		productsGroup.POST("", r.productHandler.CreateProduct)
		productsGroup.GET("/:id", r.productHandler.GetProduct)
		productsGroup.PUT("/:id", r.productHandler.UpdateProduct)
		productsGroup.DELETE("/:id", r.productHandler.DeleteProduct)
	}

	categoriesGroup := protected.Group("/categories")
	{
		categoriesGroup.GET("", r.categoryHandler.ListCategories)
		categoriesGroup.POST("", r.categoryHandler.CreateCategory)
		categoriesGroup.GET("/:id", r.categoryHandler.GetCategory)
		categoriesGroup.PUT("/:id", r.categoryHandler.UpdateCategory)
		categoriesGroup.DELETE("/:id", r.categoryHandler.DeleteCategory)
	}
}
