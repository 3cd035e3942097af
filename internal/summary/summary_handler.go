package summary

import (
	"net/http"

	"go-ems/internal/domain"
	"go-ems/internal/middleware"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (ctrl *Handler) GetSummary(c *gin.Context) {
	role := domain.Role(c.GetString(middleware.CtxRole))
	employeeID := c.GetString(middleware.CtxEmployeeID)

	summary, err := ctrl.service.GetSummary(c.Request.Context(), role, employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}
