// Package summary derives dashboard figures from record lists. Everything
// here is a pure function of its input slice, so the numbers can never
// drift from the records they were computed from.
package summary

import "go-ems/internal/domain"

type LeaveStatusCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// TallyLeaves counts leave requests by status. Unknown statuses still count
// toward Total, keeping Total an exact record count.
func TallyLeaves(statuses []string) LeaveStatusCounts {
	var c LeaveStatusCounts
	for _, s := range statuses {
		c.Total++
		switch s {
		case domain.LeaveStatusPending:
			c.Pending++
		case domain.LeaveStatusApproved:
			c.Approved++
		case domain.LeaveStatusRejected:
			c.Rejected++
		}
	}
	return c
}

type SalaryStats struct {
	Count   int     `json:"count"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

// TallySalaries aggregates salary amounts. An empty slice yields the zero
// value rather than an error; a dashboard over no employees shows zeros.
func TallySalaries(amounts []float64) SalaryStats {
	if len(amounts) == 0 {
		return SalaryStats{}
	}

	stats := SalaryStats{
		Count: len(amounts),
		Max:   amounts[0],
		Min:   amounts[0],
	}
	for _, a := range amounts {
		stats.Sum += a
		if a > stats.Max {
			stats.Max = a
		}
		if a < stats.Min {
			stats.Min = a
		}
	}
	stats.Average = stats.Sum / float64(stats.Count)
	return stats
}
