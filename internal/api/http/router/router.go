// Package router assembles the HTTP API surface.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/identops/identity-server/internal/api/http/handler"
	"github.com/identops/identity-server/internal/api/http/middleware"
	"github.com/identops/identity-server/internal/logger"
	"github.com/identops/identity-server/internal/model"
	"github.com/identops/identity-server/internal/service"
)

// Router wires handlers and middleware into a gin engine.
type Router struct {
	registration   *service.Registration
	admin          *service.Admin
	users          *service.Users
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	registration *service.Registration,
	admin *service.Admin,
	users *service.Users,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		registration:   registration,
		admin:          admin,
		users:          users,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the engine with logging on all routes and the admin
// guard on the user administration routes.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authorize := middleware.NewAuthorize(r.admin, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle)

	authHandler := handler.NewAuth(r.registration, r.admin, r.logger)
	userHandler := handler.NewUser(r.users, r.registration, r.logger)

	api := engine.Group("/api")
	api.POST("/users/register", authHandler.Register)
	api.POST("/admin/login", authHandler.AdminLogin)

	admin := api.Group("/users", authorize.Handle)
	admin.GET("", userHandler.List)
	admin.POST("", userHandler.Create)
	admin.PUT("/:id", userHandler.Update)
	admin.DELETE("/:id", userHandler.Delete)
	admin.PUT("/:id/avatar", userHandler.UploadAvatar)

	return engine
}
