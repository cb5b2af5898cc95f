package team

// SubmissionStatus is the team's approval lifecycle state.
type SubmissionStatus string

const (
	StatusDraft     SubmissionStatus = "draft"
	StatusSubmitted SubmissionStatus = "submitted"
	StatusApproved  SubmissionStatus = "approved"
	StatusRejected  SubmissionStatus = "rejected"
)

// submissionTransitions is the single source of truth for lifecycle moves.
// draft -> submitted (leader confirm), submitted -> approved/rejected
// (organizer/coordinator), rejected -> draft (organizer resubmission),
// approved -> rejected (elimination).
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
	StatusRejected:  {StatusDraft},
	StatusApproved:  {StatusRejected},
}

// CanTransition reports whether the lifecycle allows moving to the target
// state.
func (s SubmissionStatus) CanTransition(to SubmissionStatus) bool {
	for _, next := range submissionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known lifecycle state.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// RequestStatus is the join-request lifecycle state.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

// MemberRole distinguishes the single leader from ordinary members.
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// MemberStatus marks whether a roster entry is still active.
type MemberStatus string

const (
	MemberActive  MemberStatus = "active"
	MemberRemoved MemberStatus = "removed"
)

// PaymentStatus tracks the opaque payment sub-document state.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)
