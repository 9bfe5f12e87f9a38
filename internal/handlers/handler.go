package handlers

import (
	"eventlog/internal/logger"
	"eventlog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Interactive query console on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware)
	{
		// Body example: {"query":"get ip for user = \"Amigo\""}
		api.POST("/query", h.runQuery)
		api.GET("/status", h.getStatus)
		h.registerStatsRoutes(api)
	}
}

func (h *Handler) registerStatsRoutes(api *gin.RouterGroup) {
	api.GET("/stats", h.getStats)
	api.GET("/users/:user/ips", h.getUserIPs)

	tasks := api.Group("/tasks")
	{
		tasks.GET("/solved", h.getSolvedTasks)
		tasks.GET("/done", h.getDoneTasks)
	}
}
