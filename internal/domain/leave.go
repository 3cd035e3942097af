package domain

// Leave request lifecycle. A request is created pending and takes at most
// one terminal transition; approved and rejected are immutable afterwards.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// AllowedLeaveTransition reports whether a request may move from current
// to target. Only pending requests move at all.
func AllowedLeaveTransition(current, target string) bool {
	if current != LeaveStatusPending {
		return false
	}
	return target == LeaveStatusApproved || target == LeaveStatusRejected
}
