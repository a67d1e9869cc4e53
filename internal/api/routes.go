package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"churchmap/internal/api/handlers"
	"churchmap/internal/api/middleware"
)

type Router struct {
	churchHandler *handlers.ChurchHandler
	adminToken    string
	logger        *slog.Logger
}

func NewRouter(churchHandler *handlers.ChurchHandler, adminToken string, logger *slog.Logger) *Router {
	return &Router{
		churchHandler: churchHandler,
		adminToken:    adminToken,
		logger:        logger,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.AccessLog(r.logger))

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public reads
	engine.GET("/", r.churchHandler.List)
	engine.GET("/all", r.churchHandler.ListAll)

	// Mutations
	admin := engine.Group("/")
	admin.Use(middleware.RequireAdmin(r.adminToken))
	{
		admin.POST("/", r.churchHandler.Create)
		admin.POST("/bulk", r.churchHandler.BulkCreate)
		admin.PUT("/:id", r.churchHandler.Update)
		admin.DELETE("/:id", r.churchHandler.Delete)
	}
}
