package summary

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	dashboard := r.Group("/dashboard", middleware.AuthMiddleware())
	{
		dashboard.GET("/summary", handler.GetSummary)
	}
}
