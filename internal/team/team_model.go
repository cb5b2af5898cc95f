package team

import (
	"gorm.io/gorm"
)

// Team is a participant team registered for a hackathon.
type Team struct {
	gorm.Model
	HackathonID uint   `gorm:"index" json:"hackathon_id"`
	Name        string `gorm:"not null;index" json:"name"`
	LeaderID    uint   `gorm:"index" json:"leader_id"`

	SubmissionStatus SubmissionStatus `gorm:"default:'draft';index" json:"submission_status"`
	RejectionReason  string           `json:"rejection_reason,omitempty"`

	TableNumber string `json:"table_number,omitempty"`
	TeamNumber  int    `json:"team_number,omitempty"`

	// Payment fields are populated by the external gateway integration;
	// the core only stores them.
	PaymentStatus  PaymentStatus `gorm:"default:'pending'" json:"payment_status"`
	PaymentAmount  float64       `json:"payment_amount,omitempty"`
	PaymentOrderID string        `json:"payment_order_id,omitempty"`
	PaymentReceipt string        `json:"payment_receipt,omitempty"`

	Members      []TeamMember  `json:"members,omitempty"`
	JoinRequests []JoinRequest `json:"join_requests,omitempty"`
	Submissions  []Submission  `json:"submissions,omitempty"`
	Scores       []Score       `json:"scores,omitempty"`
}

// TeamMember is a user's entry on a team roster.
type TeamMember struct {
	gorm.Model
	TeamID    uint         `gorm:"index" json:"team_id"`
	UserID    uint         `gorm:"index" json:"user_id"`
	Role      MemberRole   `gorm:"default:'member'" json:"role"`
	Status    MemberStatus `gorm:"default:'active'" json:"status"`
	CheckedIn bool         `gorm:"default:false" json:"checked_in"`
}

// JoinRequest is a pending proposal to add a user to a team, created either
// by the user or by the leader on their behalf.
type JoinRequest struct {
	gorm.Model
	TeamID  uint          `gorm:"index" json:"team_id"`
	UserID  uint          `gorm:"index" json:"user_id"`
	Message string        `json:"message,omitempty"`
	Status  RequestStatus `gorm:"default:'pending'" json:"status"`
	Reason  string        `json:"reason,omitempty"`
	// InvitedByID is set when the leader filed the request on the user's
	// behalf; zero for self-initiated requests.
	InvitedByID uint `json:"invited_by_id,omitempty"`
}

// Submission is a team's entry for one round.
type Submission struct {
	gorm.Model
	TeamID      uint   `gorm:"index" json:"team_id"`
	RoundID     uint   `gorm:"index" json:"round_id"`
	RepoLink    string `json:"repo_link,omitempty"`
	DemoLink    string `json:"demo_link,omitempty"`
	Description string `json:"description,omitempty"`
}

// Score is one judge's score for a team in one round.
type Score struct {
	gorm.Model
	TeamID    uint    `gorm:"index" json:"team_id"`
	RoundID   uint    `gorm:"index" json:"round_id"`
	JudgeID   uint    `gorm:"index" json:"judge_id"`
	Breakdown string  `gorm:"type:json" json:"breakdown,omitempty"`
	Total     float64 `json:"total"`
}
