package auth

import (
	"net/http"

	"go-ems/internal/metrics"
	"go-ems/internal/middleware"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service   Service
	collector *metrics.Collector
}

func NewHandler(s Service, collector *metrics.Collector) *Handler {
	return &Handler{service: s, collector: collector}
}

func (ctrl *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	token, userResp, err := ctrl.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if ctrl.collector != nil {
			ctrl.collector.RecordLoginFailure()
		}
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":  userResp,
		"token": token,
	})
}

// VerifyToken answers whether the presented bearer token still identifies a
// live account. AuthMiddleware has already validated the token itself.
func (ctrl *Handler) VerifyToken(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	userResp, err := ctrl.service.Verify(c.Request.Context(), userID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Message)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userResp})
}
