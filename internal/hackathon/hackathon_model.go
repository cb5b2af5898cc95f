package hackathon

import (
	"time"

	"gorm.io/gorm"
)

// Invitation lifecycle for coordinators and judges.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
)

// Hackathon is an event created and owned by an organizer.
type Hackathon struct {
	gorm.Model
	Name        string `gorm:"not null;index" json:"name"`
	Description string `json:"description"`
	OrganizerID uint   `gorm:"index" json:"organizer_id"`

	RegistrationStartDate time.Time `json:"registration_start_date"`
	RegistrationEndDate   time.Time `json:"registration_end_date"`
	StartDate             time.Time `json:"start_date"`
	EndDate               time.Time `json:"end_date"`

	// Team size constraints applied at team confirmation time. AllowSolo
	// must not carry a default tag: gorm skips zero-valued fields that
	// have one, so false would never reach the database. The create
	// handler supplies the true default.
	MinTeamSize int  `gorm:"default:1" json:"min_team_size"`
	MaxTeamSize int  `gorm:"default:4" json:"max_team_size"`
	AllowSolo   bool `json:"allow_solo"`

	Rounds       []Round       `json:"rounds,omitempty"`
	Coordinators []Coordinator `json:"coordinators,omitempty"`
	Judges       []Judge       `json:"judges,omitempty"`

	IsDeleted bool `gorm:"default:false" json:"is_deleted"`
}

// Round is a scored phase of a hackathon.
type Round struct {
	gorm.Model
	HackathonID uint   `gorm:"index" json:"hackathon_id"`
	Name        string `gorm:"not null" json:"name"`
	Criteria    string `gorm:"type:json" json:"criteria"`
	MaxScore    int    `gorm:"default:100" json:"max_score"`
}

// Permission names a single coordinator capability. The set is closed;
// checks go through Permissions.Allows so there is no string-keyed lookup
// to silently default to false on a typo.
type Permission string

const (
	PermViewTeams       Permission = "view_teams"
	PermCheckIn         Permission = "check_in"
	PermAssignTables    Permission = "assign_tables"
	PermViewSubmissions Permission = "view_submissions"
	PermEliminateTeams  Permission = "eliminate_teams"
	PermCommunicate     Permission = "communicate"
)

// Permissions is the capability set granted to a coordinator.
type Permissions struct {
	ViewTeams       bool `json:"view_teams"`
	CheckIn         bool `json:"check_in"`
	AssignTables    bool `json:"assign_tables"`
	ViewSubmissions bool `json:"view_submissions"`
	EliminateTeams  bool `json:"eliminate_teams"`
	Communicate     bool `json:"communicate"`
}

// Allows reports whether the set grants the given permission.
func (ps Permissions) Allows(p Permission) bool {
	switch p {
	case PermViewTeams:
		return ps.ViewTeams
	case PermCheckIn:
		return ps.CheckIn
	case PermAssignTables:
		return ps.AssignTables
	case PermViewSubmissions:
		return ps.ViewSubmissions
	case PermEliminateTeams:
		return ps.EliminateTeams
	case PermCommunicate:
		return ps.Communicate
	}
	return false
}

// Coordinator links an invited user to a hackathon with a scoped
// permission set. The invite token is single use and cleared on accept.
type Coordinator struct {
	gorm.Model
	HackathonID uint        `gorm:"index" json:"hackathon_id"`
	UserID      uint        `gorm:"index" json:"user_id"`
	Permissions Permissions `gorm:"embedded;embeddedPrefix:perm_" json:"permissions"`
	InviteToken string      `gorm:"index" json:"-"`
	Status      string      `gorm:"default:'pending'" json:"status"`
}

// Judge links an invited user to a hackathon for scoring submissions.
type Judge struct {
	gorm.Model
	HackathonID uint   `gorm:"index" json:"hackathon_id"`
	UserID      uint   `gorm:"index" json:"user_id"`
	InviteToken string `gorm:"index" json:"-"`
	Status      string `gorm:"default:'pending'" json:"status"`
}

// ValidateWindow enforces the lifecycle date ordering:
// registrationStart < registrationEnd <= hackathonStart < hackathonEnd.
func (h *Hackathon) ValidateWindow() bool {
	return h.RegistrationStartDate.Before(h.RegistrationEndDate) &&
		!h.RegistrationEndDate.After(h.StartDate) &&
		h.StartDate.Before(h.EndDate)
}

// RegistrationOpen reports whether team registration is open at t.
func (h *Hackathon) RegistrationOpen(t time.Time) bool {
	return !t.Before(h.RegistrationStartDate) && !t.After(h.RegistrationEndDate)
}
