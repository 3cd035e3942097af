package employee

import (
	"go-ems/internal/domain"
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	emp := r.Group("/employee", middleware.AuthMiddleware())
	{
		emp.GET("", middleware.RequireRoles(domain.RoleAdmin), handler.GetAll)
		emp.GET("/:id", handler.GetByID)
	}
}
