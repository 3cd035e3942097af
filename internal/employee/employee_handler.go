package employee

import (
	"net/http"

	"go-ems/internal/domain"
	employeeerrors "go-ems/internal/employee/errors"
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

func (ctrl *Handler) GetAll(c *gin.Context) {
	emps, err := ctrl.service.GetAll(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"employees": emps})
}

// GetByID serves a single record. Admins may read anyone; employees only
// their own linked record.
func (ctrl *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")

	role := domain.Role(c.GetString(middleware.CtxRole))
	if role != domain.RoleAdmin && c.GetString(middleware.CtxEmployeeID) != id {
		httpErr := apperror.ToHTTP(employeeerrors.ErrNotOwnRecord)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	emp, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"employee": emp})
}
