package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLeaveService struct {
	CreateFn        func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	GetAllFn        func(ctx context.Context) ([]leave.LeaveResponse, error)
	GetByEmployeeFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	DecideFn        func(ctx context.Context, actorID, id, targetStatus string) (leave.LeaveResponse, error)
	WithdrawFn      func(ctx context.Context, employeeID, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.CreateFn(ctx, employeeID, req)
}

func (f *fakeLeaveService) GetAll(ctx context.Context) ([]leave.LeaveResponse, error) {
	return f.GetAllFn(ctx)
}

func (f *fakeLeaveService) GetByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.GetByEmployeeFn(ctx, employeeID)
}

func (f *fakeLeaveService) Decide(ctx context.Context, actorID, id, targetStatus string) (leave.LeaveResponse, error) {
	return f.DecideFn(ctx, actorID, id, targetStatus)
}

func (f *fakeLeaveService) Withdraw(ctx context.Context, employeeID, id string) error {
	return f.WithdrawFn(ctx, employeeID, id)
}

func newLeaveRouter(service leave.Service, userID, employeeID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := leave.NewHandler(service, zap.NewNop())

	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
	})
	router.POST("/api/leave/add", handler.Create)
	router.GET("/api/leave", handler.GetAll)
	router.GET("/api/leave/me", handler.GetMine)
	router.PUT("/api/leave/:id", handler.Decide)
	router.DELETE("/api/leave/:id", handler.Withdraw)
	return router
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &fakeLeaveService{
			CreateFn: func(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "e-1", employeeID)
				return leave.LeaveResponse{ID: "l-1", EmployeeID: employeeID, Status: "pending"}, nil
			},
		}
		router := newLeaveRouter(service, "u-1", "e-1")

		payload, _ := json.Marshal(gin.H{
			"leaveType":   "sick",
			"fromDate":    "2026-09-01",
			"toDate":      "2026-09-02",
			"description": "Flu",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/leave/add", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "pending", body["leave"].(map[string]any)["status"])
	})

	t.Run("negative missing description", func(t *testing.T) {
		service := &fakeLeaveService{}
		router := newLeaveRouter(service, "u-1", "e-1")

		payload, _ := json.Marshal(gin.H{
			"leaveType": "sick",
			"fromDate":  "2026-09-01",
			"toDate":    "2026-09-02",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/leave/add", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	})
}

func TestLeaveHandler_Decide(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &fakeLeaveService{
			DecideFn: func(ctx context.Context, actorID, id, targetStatus string) (leave.LeaveResponse, error) {
				assert.Equal(t, "u-admin", actorID)
				assert.Equal(t, "l-1", id)
				assert.Equal(t, "approved", targetStatus)
				return leave.LeaveResponse{ID: id, Status: targetStatus}, nil
			},
		}
		router := newLeaveRouter(service, "u-admin", "")

		payload, _ := json.Marshal(gin.H{"status": "approved"})
		req := httptest.NewRequest(http.MethodPut, "/api/leave/l-1", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative unknown status value", func(t *testing.T) {
		service := &fakeLeaveService{}
		router := newLeaveRouter(service, "u-admin", "")

		payload, _ := json.Marshal(gin.H{"status": "maybe"})
		req := httptest.NewRequest(http.MethodPut, "/api/leave/l-1", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative already decided", func(t *testing.T) {
		service := &fakeLeaveService{
			DecideFn: func(ctx context.Context, actorID, id, targetStatus string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
			},
		}
		router := newLeaveRouter(service, "u-admin", "")

		payload, _ := json.Marshal(gin.H{"status": "rejected"})
		req := httptest.NewRequest(http.MethodPut, "/api/leave/l-1", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var body map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Only pending requests can be decided", body["error"])
		assert.Equal(t, apperror.CodeInvalidTransition, body["code"])
	})
}

func TestLeaveHandler_Withdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &fakeLeaveService{
			WithdrawFn: func(ctx context.Context, employeeID, id string) error {
				assert.Equal(t, "e-1", employeeID)
				assert.Equal(t, "l-1", id)
				return nil
			},
		}
		router := newLeaveRouter(service, "u-1", "e-1")

		req := httptest.NewRequest(http.MethodDelete, "/api/leave/l-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative not the owner", func(t *testing.T) {
		service := &fakeLeaveService{
			WithdrawFn: func(ctx context.Context, employeeID, id string) error {
				return leaveerrors.ErrNotRequestOwner
			},
		}
		router := newLeaveRouter(service, "u-1", "e-2")

		req := httptest.NewRequest(http.MethodDelete, "/api/leave/l-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
