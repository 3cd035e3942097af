package summary

import (
	"context"
	"encoding/json"
	"time"

	"go-ems/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	summaryCacheKeyPrefix = "dashboard:summary:"
	summaryCacheTTL       = 1 * time.Minute
)

func adminSummaryKey() string {
	return summaryCacheKeyPrefix + "admin"
}

func employeeSummaryKey(employeeID string) string {
	return summaryCacheKeyPrefix + "employee:" + employeeID
}

// DashboardSummary is the role-scoped dashboard payload. Salary figures are
// present only for admins.
type DashboardSummary struct {
	Leaves   LeaveStatusCounts `json:"leaves"`
	Salaries *SalaryStats      `json:"salaries,omitempty"`
}

// LeaveSource supplies the raw status list the tallies are derived from.
type LeaveSource interface {
	ListStatuses(ctx context.Context) ([]string, error)
	ListStatusesByEmployee(ctx context.Context, employeeID string) ([]string, error)
}

type SalarySource interface {
	FindSalaries(ctx context.Context) ([]float64, error)
}

//go:generate mockgen -source=summary_service.go -destination=mock/summary_service_mock.go -package=mock
type Service interface {
	GetSummary(ctx context.Context, role domain.Role, employeeID string) (DashboardSummary, error)
}

type service struct {
	leaves   LeaveSource
	salaries SalarySource
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(leaves LeaveSource, salaries SalarySource, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("summary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("summary.service")
	}
	return &service{
		leaves:   leaves,
		salaries: salaries,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

// GetSummary computes the dashboard numbers for the caller. Admins see all
// leave requests plus salary statistics; employees see only their own leave
// counts. The short TTL keeps the dashboard near-live while absorbing
// refresh storms.
func (s *service) GetSummary(ctx context.Context, role domain.Role, employeeID string) (DashboardSummary, error) {
	cacheKey := employeeSummaryKey(employeeID)
	if role == domain.RoleAdmin {
		cacheKey = adminSummaryKey()
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var summary DashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return summary, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		summary, err := s.compute(ctx, role, employeeID)
		if err != nil {
			return DashboardSummary{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(summary); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, summaryCacheTTL)
			}
		}

		return summary, nil
	})
	if err != nil {
		return DashboardSummary{}, err
	}

	return v.(DashboardSummary), nil
}

func (s *service) compute(ctx context.Context, role domain.Role, employeeID string) (DashboardSummary, error) {
	var summary DashboardSummary

	if role == domain.RoleAdmin {
		statuses, err := s.leaves.ListStatuses(ctx)
		if err != nil {
			s.logger.Error("list leave statuses failed", zap.Error(err))
			return DashboardSummary{}, err
		}
		summary.Leaves = TallyLeaves(statuses)

		amounts, err := s.salaries.FindSalaries(ctx)
		if err != nil {
			s.logger.Error("list salaries failed", zap.Error(err))
			return DashboardSummary{}, err
		}
		stats := TallySalaries(amounts)
		summary.Salaries = &stats
		return summary, nil
	}

	statuses, err := s.leaves.ListStatusesByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("list own leave statuses failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return DashboardSummary{}, err
	}
	summary.Leaves = TallyLeaves(statuses)
	return summary, nil
}
