package team

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hellonmn/evenose-sub000/internal/hackathon"
	"github.com/hellonmn/evenose-sub000/internal/notification"
	"github.com/hellonmn/evenose-sub000/pkg/apperr"
)

// Event-day operations. These act on approved teams and are gated by
// coordinator permissions rather than team membership.

// CheckInMember marks a member of an approved team as present.
func (s *TeamService) CheckInMember(teamID, actingUser, targetUser uint) (*TeamMember, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermCheckIn); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusApproved {
		return nil, fmt.Errorf("team %d is %s, only approved teams check in: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	member, err := s.teams.GetMember(teamID, targetUser)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Status != MemberActive {
		return nil, fmt.Errorf("user %d is not an active member of team %d: %w", targetUser, teamID, apperr.ErrNotFound)
	}

	member.CheckedIn = true
	if err := s.teams.UpdateMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// AssignTable sets the table number, and optionally the event-day team
// number, of an approved team.
func (s *TeamService) AssignTable(teamID, actingUser uint, table string, teamNumber int) (*Team, error) {
	if table == "" {
		return nil, fmt.Errorf("table number is required: %w", apperr.ErrValidation)
	}
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermAssignTables); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusApproved {
		return nil, fmt.Errorf("team %d is %s, only approved teams get tables: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	t.TableNumber = table
	if teamNumber > 0 {
		t.TeamNumber = teamNumber
	}
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}
	return t, nil
}

// EliminateTeam moves an approved team back to rejected with a mandatory
// reason. Used between rounds.
func (s *TeamService) EliminateTeam(teamID, actingUser uint, reason string) (*Team, error) {
	if reason == "" {
		return nil, fmt.Errorf("elimination reason is required: %w", apperr.ErrValidation)
	}
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermEliminateTeams); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusApproved || !t.SubmissionStatus.CanTransition(StatusRejected) {
		return nil, fmt.Errorf("cannot eliminate a %s team: %w", t.SubmissionStatus, apperr.ErrInvalidState)
	}

	t.SubmissionStatus = StatusRejected
	t.RejectionReason = reason
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}

	s.notifyLeader(t, fmt.Sprintf("Team %s eliminated", t.Name),
		fmt.Sprintf("Your team %s has been eliminated from %s. Reason: %s", t.Name, h.Name, reason))
	return t, nil
}

// Announce sends a message to the leaders of all approved teams. Requires
// the communicate permission. Returns the number of recipients.
func (s *TeamService) Announce(hackathonID, actingUser uint, subject, body string) (int, error) {
	if subject == "" || body == "" {
		return 0, fmt.Errorf("announcement subject and body are required: %w", apperr.ErrValidation)
	}
	h, err := s.getHackathon(hackathonID)
	if err != nil {
		return 0, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermCommunicate); err != nil {
		return 0, err
	}

	teams, _, err := s.teams.GetTeamsByHackathon(hackathonID, string(StatusApproved), 1, 0)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range teams {
		leader, err := s.users.GetUserByID(teams[i].LeaderID)
		if err != nil {
			s.log.Warn("skipping announcement recipient",
				zap.Uint("team_id", teams[i].ID), zap.Error(err))
			continue
		}
		s.notifier.Notify(notification.Message{To: leader.Email, Subject: subject, Body: body})
		sent++
	}
	return sent, nil
}
