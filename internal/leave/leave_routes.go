package leave

import (
	"go-ems/internal/domain"
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	leaves := r.Group("/leave", middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RequireRoles(domain.RoleAdmin), handler.GetAll)
		leaves.GET("/me", handler.GetMine)
		leaves.POST("/add", middleware.Idempotency(rdb), handler.Create)
		leaves.PUT("/:id", middleware.RequireRoles(domain.RoleAdmin), handler.Decide)
		leaves.DELETE("/:id", handler.Withdraw)
	}
}
