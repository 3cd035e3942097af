// Package workflow drives the portal's leave request lifecycle. The engine
// mirrors server state in a local cache but never applies a mutation until
// the server has confirmed it.
package workflow

import (
	"context"
	"sync"
	"time"

	"go-ems/internal/domain"
	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/portal/session"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/summary"

	"go.uber.org/zap"
)

// API is the server surface the engine needs. *restapi.Client satisfies it.
type API interface {
	Leaves(ctx context.Context) ([]leave.LeaveResponse, error)
	MyLeaves(ctx context.Context) ([]leave.LeaveResponse, error)
	CreateLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	DecideLeave(ctx context.Context, id, status string) (leave.LeaveResponse, error)
	WithdrawLeave(ctx context.Context, id string) error
}

// StateSource reports the current session snapshot; session.Manager.State
// satisfies it.
type StateSource func() session.State

type Engine struct {
	mu         sync.Mutex
	api        API
	state      StateSource
	leaves     []leave.LeaveResponse
	generation uint64
	logger     *zap.Logger
}

func NewEngine(api API, state StateSource, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("portal.workflow")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Engine{api: api, state: state, logger: l}
}

// List returns the cached requests.
func (e *Engine) List() []leave.LeaveResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]leave.LeaveResponse, len(e.leaves))
	copy(out, e.leaves)
	return out
}

// Stats derives dashboard counts from the cached list, so the numbers can
// never disagree with the rows shown next to them.
func (e *Engine) Stats() summary.LeaveStatusCounts {
	e.mu.Lock()
	defer e.mu.Unlock()

	statuses := make([]string, 0, len(e.leaves))
	for _, l := range e.leaves {
		statuses = append(statuses, l.Status)
	}
	return summary.TallyLeaves(statuses)
}

// Reset drops the cache. Results from fetches or mutations still in flight
// when Reset was called are discarded when they land.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.leaves = nil
	e.generation++
}

// Refresh replaces the cache with the server's current list. Admins see
// everyone's requests, employees only their own.
func (e *Engine) Refresh(ctx context.Context) error {
	st := e.state()
	if st.Status != session.StatusAuthenticated || st.User == nil {
		return apperror.ErrUnauthorized
	}

	gen := e.currentGeneration()

	var (
		fetched []leave.LeaveResponse
		err     error
	)
	if st.User.Role == domain.RoleAdmin {
		fetched, err = e.api.Leaves(ctx)
	} else {
		fetched, err = e.api.MyLeaves(ctx)
	}
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		e.logger.Debug("discarding stale refresh result")
		return nil
	}
	e.leaves = fetched
	return nil
}

// Create validates locally, submits, and appends the server's copy of the
// new request to the cache. Validation failures never touch the network.
func (e *Engine) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	st := e.state()
	if st.Status != session.StatusAuthenticated || st.User == nil {
		return leave.LeaveResponse{}, apperror.ErrUnauthorized
	}

	if err := validateCreate(req); err != nil {
		return leave.LeaveResponse{}, err
	}

	gen := e.currentGeneration()

	created, err := e.api.CreateLeave(ctx, req)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	e.mu.Lock()
	if gen == e.generation {
		e.leaves = append(e.leaves, created)
	} else {
		e.logger.Debug("discarding stale create result")
	}
	e.mu.Unlock()

	return created, nil
}

// Approve marks a pending request approved. Only admins may decide, and a
// request already decided is rejected locally before any network call.
func (e *Engine) Approve(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return e.decide(ctx, id, domain.LeaveStatusApproved)
}

// Reject marks a pending request rejected.
func (e *Engine) Reject(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return e.decide(ctx, id, domain.LeaveStatusRejected)
}

func (e *Engine) decide(ctx context.Context, id, targetStatus string) (leave.LeaveResponse, error) {
	st := e.state()
	if st.Status != session.StatusAuthenticated || st.User == nil {
		return leave.LeaveResponse{}, apperror.ErrUnauthorized
	}
	if st.User.Role != domain.RoleAdmin {
		return leave.LeaveResponse{}, apperror.ErrForbidden
	}

	if cached, ok := e.find(id); ok {
		if !domain.AllowedLeaveTransition(cached.Status, targetStatus) {
			return leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
		}
	}

	gen := e.currentGeneration()

	decided, err := e.api.DecideLeave(ctx, id, targetStatus)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	e.replace(gen, decided)
	return decided, nil
}

// Withdraw removes the caller's own pending request. The cache entry is
// deleted only after the server confirms.
func (e *Engine) Withdraw(ctx context.Context, id string) error {
	st := e.state()
	if st.Status != session.StatusAuthenticated || st.User == nil {
		return apperror.ErrUnauthorized
	}

	if cached, ok := e.find(id); ok {
		if cached.EmployeeID != st.User.EmployeeID {
			return leaveerrors.ErrNotRequestOwner
		}
		if cached.Status != domain.LeaveStatusPending {
			return leaveerrors.ErrOnlyPendingWithdrawable
		}
	}

	gen := e.currentGeneration()

	if err := e.api.WithdrawLeave(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		e.logger.Debug("discarding stale withdraw result")
		return nil
	}
	for i, l := range e.leaves {
		if l.ID == id {
			e.leaves = append(e.leaves[:i], e.leaves[i+1:]...)
			break
		}
	}
	return nil
}

func (e *Engine) find(id string) (leave.LeaveResponse, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.leaves {
		if l.ID == id {
			return l, true
		}
	}
	return leave.LeaveResponse{}, false
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

func (e *Engine) replace(gen uint64, updated leave.LeaveResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		e.logger.Debug("discarding stale decision result")
		return
	}
	for i, l := range e.leaves {
		if l.ID == updated.ID {
			e.leaves[i] = updated
			return
		}
	}
	e.leaves = append(e.leaves, updated)
}

func validateCreate(req leave.CreateLeaveRequest) error {
	if req.LeaveType == "" {
		return apperror.RequiredField("Leave Type")
	}
	if req.FromDate == "" {
		return apperror.RequiredField("From Date")
	}
	if req.ToDate == "" {
		return apperror.RequiredField("To Date")
	}
	if req.Description == "" {
		return apperror.RequiredField("Description")
	}

	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		return leaveerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		return leaveerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return leaveerrors.ErrInvalidDateRange
	}
	return nil
}
