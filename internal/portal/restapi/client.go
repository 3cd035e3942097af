// Package restapi is the portal's HTTP client for the EMS API. It speaks
// the {success, ...} envelope and translates failures into the shared error
// taxonomy so callers never see raw transport details.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-ems/internal/domain"
	"go-ems/internal/leave"
	"go-ems/internal/portal/session"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/summary"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource func() (string, bool)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *zap.Logger
}

func NewClient(baseURL string, token TokenSource, logger ...*zap.Logger) *Client {
	l := zap.L().Named("portal.restapi")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
		logger:     l,
	}
}

type userPayload struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

func (p userPayload) toUser() session.User {
	return session.User{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       domain.Role(p.Role),
		EmployeeID: p.EmployeeID,
	}
}

// Login exchanges credentials for a confirmed identity and token.
func (c *Client) Login(ctx context.Context, email, password string) (session.User, string, error) {
	var out struct {
		User  userPayload `json:"user"`
		Token string      `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false, "", &out)
	if err != nil {
		return session.User{}, "", err
	}
	return out.User.toUser(), out.Token, nil
}

// Verify implements session.Verifier.
func (c *Client) Verify(ctx context.Context, token string) (session.User, error) {
	var out struct {
		User userPayload `json:"user"`
	}
	err := c.doWithToken(ctx, http.MethodPost, "/api/auth/verify", nil, token, &out)
	if err != nil {
		return session.User{}, err
	}
	return out.User.toUser(), nil
}

// Leaves lists every request; admin only.
func (c *Client) Leaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	var out struct {
		Leaves []leave.LeaveResponse `json:"leaves"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leave", nil, true, "", &out); err != nil {
		return nil, err
	}
	return out.Leaves, nil
}

// MyLeaves lists the caller's own requests.
func (c *Client) MyLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	var out struct {
		Leaves []leave.LeaveResponse `json:"leaves"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/leave/me", nil, true, "", &out); err != nil {
		return nil, err
	}
	return out.Leaves, nil
}

// CreateLeave submits a new request. A fresh idempotency key makes retrying
// a timed-out submit safe.
func (c *Client) CreateLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	var out struct {
		Leave leave.LeaveResponse `json:"leave"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/leave/add", req, true, uuid.NewString(), &out); err != nil {
		return leave.LeaveResponse{}, err
	}
	return out.Leave, nil
}

// DecideLeave approves or rejects a pending request; admin only.
func (c *Client) DecideLeave(ctx context.Context, id, status string) (leave.LeaveResponse, error) {
	var out struct {
		Leave leave.LeaveResponse `json:"leave"`
	}
	path := "/api/leave/" + id
	if err := c.do(ctx, http.MethodPut, path, map[string]string{"status": status}, true, "", &out); err != nil {
		return leave.LeaveResponse{}, err
	}
	return out.Leave, nil
}

// WithdrawLeave deletes the caller's own pending request.
func (c *Client) WithdrawLeave(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/leave/"+id, nil, true, "", nil)
}

// Summary fetches the role-scoped dashboard figures.
func (c *Client) Summary(ctx context.Context) (summary.DashboardSummary, error) {
	var out struct {
		Summary summary.DashboardSummary `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/summary", nil, true, "", &out); err != nil {
		return summary.DashboardSummary{}, err
	}
	return out.Summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, idempotencyKey string, out any) error {
	token := ""
	if authed {
		t, ok := c.token()
		if !ok {
			return apperror.ErrUnauthorized
		}
		token = t
	}
	return c.request(ctx, method, path, body, token, idempotencyKey, out)
}

func (c *Client) doWithToken(ctx context.Context, method, path string, body any, token string, out any) error {
	return c.request(ctx, method, path, body, token, "", out)
}

func (c *Client) request(ctx context.Context, method, path string, body any, token, idempotencyKey string, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request transport failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return apperror.ErrNetwork
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	raw := json.RawMessage{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return apperror.ErrNetwork
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apperror.ErrNetwork
	}

	if !envelope.Success {
		return mapAPIError(resp.StatusCode, envelope.Code, envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperror.ErrNetwork
		}
	}
	return nil
}

// mapAPIError prefers the wire code when the server sent one; the status
// fallback covers older servers and proxies that strip the body down to the
// bare envelope. A 409 without a code is read as an invalid transition, the
// dominant conflict in this API.
func mapAPIError(status int, code, message string) error {
	if message == "" {
		message = fmt.Sprintf("Request failed with status %d", status)
	}

	if code != "" {
		return apperror.New(code, message, status)
	}

	switch status {
	case http.StatusBadRequest:
		return apperror.New(apperror.CodeValidation, message, status)
	case http.StatusUnauthorized:
		return apperror.New(apperror.CodeAuthExpired, message, status)
	case http.StatusForbidden:
		return apperror.New(apperror.CodeForbidden, message, status)
	case http.StatusNotFound:
		return apperror.New(apperror.CodeNotFound, message, status)
	case http.StatusConflict:
		return apperror.New(apperror.CodeInvalidTransition, message, status)
	case http.StatusServiceUnavailable:
		return apperror.New(apperror.CodeServiceUnavailable, message, status)
	default:
		return apperror.New(apperror.CodeInternalError, message, status)
	}
}
