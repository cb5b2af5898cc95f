package team

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hellonmn/evenose-sub000/internal/hackathon"
	"github.com/hellonmn/evenose-sub000/internal/notification"
	"github.com/hellonmn/evenose-sub000/internal/user"
	"github.com/hellonmn/evenose-sub000/pkg/apperr"
)

// UserDirectory is the slice of the auth repository the team workflow needs
// for notification recipients.
type UserDirectory interface {
	GetUserByID(id uint) (*user.User, error)
}

// TeamService implements the team formation and approval workflow. All
// methods return errors from the apperr taxonomy; controllers translate
// them at the boundary. Notifications are dispatched after the state
// change commits and never affect the outcome.
type TeamService struct {
	teams      TeamRepository
	hackathons hackathon.HackathonRepository
	users      UserDirectory
	notifier   notification.Notifier
	log        *zap.Logger
}

func NewTeamService(teams TeamRepository, hackathons hackathon.HackathonRepository, users UserDirectory, notifier notification.Notifier, log *zap.Logger) *TeamService {
	return &TeamService{
		teams:      teams,
		hackathons: hackathons,
		users:      users,
		notifier:   notifier,
		log:        log,
	}
}

// --- Lookup helpers ---

func (s *TeamService) getHackathon(id uint) (*hackathon.Hackathon, error) {
	h, err := s.hackathons.GetByID(id)
	if err != nil {
		return nil, err
	}
	if h == nil || h.IsDeleted {
		return nil, fmt.Errorf("hackathon %d: %w", id, apperr.ErrNotFound)
	}
	return h, nil
}

func (s *TeamService) getTeam(id uint) (*Team, *hackathon.Hackathon, error) {
	t, err := s.teams.GetTeamByID(id)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, fmt.Errorf("team %d: %w", id, apperr.ErrNotFound)
	}
	h, err := s.getHackathon(t.HackathonID)
	if err != nil {
		return nil, nil, err
	}
	return t, h, nil
}

// authorize grants organizers everything; coordinators must be accepted
// and hold the specific permission. Anyone else is forbidden.
func (s *TeamService) authorize(h *hackathon.Hackathon, userID uint, perm hackathon.Permission) error {
	if h.OrganizerID == userID {
		return nil
	}
	coord, err := s.hackathons.GetCoordinator(h.ID, userID)
	if err != nil {
		return err
	}
	if coord == nil || coord.Status != hackathon.InviteStatusAccepted {
		return fmt.Errorf("user %d has no role on hackathon %d: %w", userID, h.ID, apperr.ErrForbidden)
	}
	if !coord.Permissions.Allows(perm) {
		return fmt.Errorf("coordinator %d lacks %s: %w", userID, perm, apperr.ErrPermissionDenied)
	}
	return nil
}

func (s *TeamService) requireLeader(t *Team, userID uint) error {
	if t.LeaderID != userID {
		return fmt.Errorf("user %d is not the leader of team %d: %w", userID, t.ID, apperr.ErrForbidden)
	}
	return nil
}

func (s *TeamService) notifyLeader(t *Team, subject, body string) {
	leader, err := s.users.GetUserByID(t.LeaderID)
	if err != nil {
		s.log.Warn("could not resolve team leader for notification",
			zap.Uint("team_id", t.ID), zap.Error(err))
		return
	}
	s.notifier.Notify(notification.Message{To: leader.Email, Subject: subject, Body: body})
}

// --- Registration ---

// RegisterTeam creates a draft team with the acting user as leader. The
// hackathon's registration window must be open.
func (s *TeamService) RegisterTeam(hackathonID uint, name string, actingUser uint, now time.Time) (*Team, error) {
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", apperr.ErrValidation)
	}

	h, err := s.getHackathon(hackathonID)
	if err != nil {
		return nil, err
	}
	if !h.RegistrationOpen(now) {
		return nil, fmt.Errorf("registration is closed for hackathon %d: %w", h.ID, apperr.ErrInvalidState)
	}

	existing, err := s.teams.GetTeamByName(hackathonID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("team name %q is taken in this hackathon: %w", name, apperr.ErrDuplicate)
	}

	t := &Team{
		HackathonID:      hackathonID,
		Name:             name,
		LeaderID:         actingUser,
		SubmissionStatus: StatusDraft,
		PaymentStatus:    PaymentPending,
		PaymentReceipt:   uuid.NewString(),
	}
	err = s.teams.WithTransaction(func(repo TeamRepository) error {
		if err := repo.CreateTeam(t); err != nil {
			return err
		}
		return repo.CreateMember(&TeamMember{
			TeamID: t.ID,
			UserID: actingUser,
			Role:   RoleLeader,
			Status: MemberActive,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.teams.GetTeamByID(t.ID)
}

// GetTeam returns a team with its roster preloaded.
func (s *TeamService) GetTeam(teamID uint) (*Team, error) {
	t, _, err := s.getTeam(teamID)
	return t, err
}

// RenameTeam changes the team name. Leader only, draft only.
func (s *TeamService) RenameTeam(teamID, actingUser uint, name string) (*Team, error) {
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", apperr.ErrValidation)
	}
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusDraft {
		return nil, fmt.Errorf("team %d is %s, composition is frozen: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	existing, err := s.teams.GetTeamByName(t.HackathonID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != t.ID {
		return nil, fmt.Errorf("team name %q is taken in this hackathon: %w", name, apperr.ErrDuplicate)
	}

	t.Name = name
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}
	return t, nil
}

// --- Approval workflow ---

// ConfirmTeam transitions a draft team to submitted. Leader only; the
// active member count must be within the hackathon's team size bounds.
func (s *TeamService) ConfirmTeam(teamID, actingUser uint) (*Team, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, err
	}
	if !t.SubmissionStatus.CanTransition(StatusSubmitted) {
		return nil, fmt.Errorf("cannot confirm a %s team: %w", t.SubmissionStatus, apperr.ErrInvalidState)
	}

	count, err := s.teams.CountActiveMembers(t.ID)
	if err != nil {
		return nil, err
	}
	if !memberCountOK(h, count) {
		return nil, fmt.Errorf("team has %d active members, hackathon requires between %d and %d: %w",
			count, h.MinTeamSize, h.MaxTeamSize, apperr.ErrInvalidState)
	}

	t.SubmissionStatus = StatusSubmitted
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ApproveTeam transitions a submitted team to approved. Requires organizer
// or a coordinator with the view-teams permission.
func (s *TeamService) ApproveTeam(teamID, actingUser uint) (*Team, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermViewTeams); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusSubmitted || !t.SubmissionStatus.CanTransition(StatusApproved) {
		return nil, fmt.Errorf("cannot approve a %s team: %w", t.SubmissionStatus, apperr.ErrInvalidState)
	}

	t.SubmissionStatus = StatusApproved
	t.RejectionReason = ""
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}

	s.notifyLeader(t, fmt.Sprintf("Team %s approved", t.Name),
		fmt.Sprintf("Your team %s has been approved for %s.", t.Name, h.Name))
	return t, nil
}

// RejectTeam transitions a submitted team to rejected with a mandatory
// reason, persisted verbatim.
func (s *TeamService) RejectTeam(teamID, actingUser uint, reason string) (*Team, error) {
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", apperr.ErrValidation)
	}
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermViewTeams); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusSubmitted {
		return nil, fmt.Errorf("cannot reject a %s team: %w", t.SubmissionStatus, apperr.ErrInvalidState)
	}

	t.SubmissionStatus = StatusRejected
	t.RejectionReason = reason
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}

	s.notifyLeader(t, fmt.Sprintf("Team %s rejected", t.Name),
		fmt.Sprintf("Your team %s was rejected for %s. Reason: %s", t.Name, h.Name, reason))
	return t, nil
}

// ResubmitTeam reverts a rejected team to draft so it can be edited and
// confirmed again. Organizer only.
func (s *TeamService) ResubmitTeam(teamID, actingUser uint) (*Team, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if h.OrganizerID != actingUser {
		return nil, fmt.Errorf("only the organizer may allow resubmission: %w", apperr.ErrForbidden)
	}
	if !t.SubmissionStatus.CanTransition(StatusDraft) {
		return nil, fmt.Errorf("cannot resubmit a %s team: %w", t.SubmissionStatus, apperr.ErrInvalidState)
	}

	t.SubmissionStatus = StatusDraft
	t.RejectionReason = ""
	if err := s.teams.UpdateTeam(t); err != nil {
		return nil, err
	}

	s.notifyLeader(t, fmt.Sprintf("Team %s may resubmit", t.Name),
		fmt.Sprintf("Your team %s has been reverted to draft for %s. Edit and confirm again.", t.Name, h.Name))
	return t, nil
}

// BulkOutcome reports one failed id within a bulk operation.
type BulkOutcome struct {
	TeamID  uint   `json:"team_id"`
	Message string `json:"message"`
}

// BulkResult collects per-id outcomes; the batch is never atomic.
type BulkResult struct {
	Succeeded []uint        `json:"succeeded"`
	Failed    []BulkOutcome `json:"failed"`
}

// BulkApprove applies ApproveTeam to each id independently.
func (s *TeamService) BulkApprove(teamIDs []uint, actingUser uint) BulkResult {
	var result BulkResult
	for _, id := range teamIDs {
		if _, err := s.ApproveTeam(id, actingUser); err != nil {
			result.Failed = append(result.Failed, BulkOutcome{TeamID: id, Message: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// BulkReject applies RejectTeam with a shared reason to each id
// independently.
func (s *TeamService) BulkReject(teamIDs []uint, actingUser uint, reason string) BulkResult {
	var result BulkResult
	for _, id := range teamIDs {
		if _, err := s.RejectTeam(id, actingUser, reason); err != nil {
			result.Failed = append(result.Failed, BulkOutcome{TeamID: id, Message: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result
}

// --- Join requests ---

// SendJoinRequest files a pending request from actingUser to join the
// team. The leader invite path goes through InviteToTeam.
func (s *TeamService) SendJoinRequest(teamID, actingUser uint, message string) (*JoinRequest, error) {
	return s.createJoinRequest(teamID, actingUser, 0, message)
}

// InviteToTeam lets the leader file a join request on behalf of another
// user. Same duplicate and capacity guards as a self-initiated request.
func (s *TeamService) InviteToTeam(teamID, actingUser, targetUser uint, message string) (*JoinRequest, error) {
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, err
	}
	return s.createJoinRequest(teamID, targetUser, actingUser, message)
}

func (s *TeamService) createJoinRequest(teamID, userID, invitedBy uint, message string) (*JoinRequest, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusDraft {
		return nil, fmt.Errorf("team %d is %s, roster is frozen: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	member, err := s.teams.GetMember(teamID, userID)
	if err != nil {
		return nil, err
	}
	if member != nil && member.Status == MemberActive {
		return nil, fmt.Errorf("user %d is already a member of team %d: %w", userID, teamID, apperr.ErrDuplicate)
	}

	pending, err := s.teams.GetPendingJoinRequest(teamID, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("user %d already has a pending request for team %d: %w", userID, teamID, apperr.ErrDuplicateRequest)
	}

	count, err := s.teams.CountActiveMembers(teamID)
	if err != nil {
		return nil, err
	}
	if count >= h.MaxTeamSize {
		return nil, fmt.Errorf("team %d already has %d members: %w", teamID, count, apperr.ErrTeamFull)
	}

	req := &JoinRequest{
		TeamID:      teamID,
		UserID:      userID,
		Message:     message,
		Status:      RequestPending,
		InvitedByID: invitedBy,
	}
	if err := s.teams.CreateJoinRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// loadPendingRequest fetches a request and verifies it belongs to the team
// and is still pending.
func (s *TeamService) loadPendingRequest(t *Team, requestID uint) (*JoinRequest, error) {
	req, err := s.teams.GetJoinRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.TeamID != t.ID {
		return nil, fmt.Errorf("join request %d: %w", requestID, apperr.ErrNotFound)
	}
	if req.Status != RequestPending {
		return nil, fmt.Errorf("join request %d is already %s: %w", requestID, req.Status, apperr.ErrInvalidState)
	}
	return req, nil
}

// AcceptJoinRequest promotes the requester to an active member. Leader
// only. Capacity is re-checked before any mutation, and the pending status
// is re-validated inside the transaction so a concurrent resolution fails
// instead of silently overwriting.
func (s *TeamService) AcceptJoinRequest(teamID, requestID, actingUser uint) (*JoinRequest, error) {
	t, h, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, err
	}
	if t.SubmissionStatus != StatusDraft {
		return nil, fmt.Errorf("team %d is %s, roster is frozen: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}

	req, err := s.loadPendingRequest(t, requestID)
	if err != nil {
		return nil, err
	}

	count, err := s.teams.CountActiveMembers(t.ID)
	if err != nil {
		return nil, err
	}
	if count >= h.MaxTeamSize {
		return nil, fmt.Errorf("team %d is at capacity (%d): %w", t.ID, h.MaxTeamSize, apperr.ErrTeamFull)
	}

	err = s.teams.WithTransaction(func(repo TeamRepository) error {
		fresh, err := repo.GetJoinRequestByID(req.ID)
		if err != nil {
			return err
		}
		if fresh == nil || fresh.Status != RequestPending {
			return fmt.Errorf("join request %d was resolved concurrently: %w", req.ID, apperr.ErrInvalidState)
		}

		fresh.Status = RequestAccepted
		if err := repo.UpdateJoinRequest(fresh); err != nil {
			return err
		}
		*req = *fresh

		// A previously removed member rejoins through the same row.
		member, err := repo.GetMember(t.ID, req.UserID)
		if err != nil {
			return err
		}
		if member != nil {
			member.Status = MemberActive
			member.Role = RoleMember
			return repo.UpdateMember(member)
		}
		return repo.CreateMember(&TeamMember{
			TeamID: t.ID,
			UserID: req.UserID,
			Role:   RoleMember,
			Status: MemberActive,
		})
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// RejectJoinRequest marks a pending request rejected. Leader only; the
// reason is optional.
func (s *TeamService) RejectJoinRequest(teamID, requestID, actingUser uint, reason string) (*JoinRequest, error) {
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, err
	}

	req, err := s.loadPendingRequest(t, requestID)
	if err != nil {
		return nil, err
	}

	req.Status = RequestRejected
	req.Reason = reason
	if err := s.teams.UpdateJoinRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListJoinRequests returns a team's join requests. Leader only.
func (s *TeamService) ListJoinRequests(teamID, actingUser uint, status string, page, limit int) ([]JoinRequest, int64, error) {
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return nil, 0, err
	}
	return s.teams.GetJoinRequestsByTeam(teamID, status, page, limit)
}

// CancelJoinRequest lets the requester withdraw their own pending request.
func (s *TeamService) CancelJoinRequest(teamID, requestID, actingUser uint) (*JoinRequest, error) {
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return nil, err
	}

	req, err := s.loadPendingRequest(t, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != actingUser {
		return nil, fmt.Errorf("only the requester may cancel a join request: %w", apperr.ErrForbidden)
	}

	req.Status = RequestCancelled
	if err := s.teams.UpdateJoinRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// --- Roster management ---

// RemoveMember deactivates a member. Leader only, draft only; the leader
// cannot remove themself, which keeps the one-leader invariant intact.
func (s *TeamService) RemoveMember(teamID, actingUser, targetUser uint) error {
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return err
	}
	if err := s.requireLeader(t, actingUser); err != nil {
		return err
	}
	if t.SubmissionStatus != StatusDraft {
		return fmt.Errorf("team %d is %s, roster is frozen: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}
	if targetUser == t.LeaderID {
		return fmt.Errorf("the leader cannot be removed from the team: %w", apperr.ErrValidation)
	}

	member, err := s.teams.GetMember(teamID, targetUser)
	if err != nil {
		return err
	}
	if member == nil || member.Status != MemberActive {
		return fmt.Errorf("user %d is not an active member of team %d: %w", targetUser, teamID, apperr.ErrNotFound)
	}

	member.Status = MemberRemoved
	return s.teams.UpdateMember(member)
}

// LeaveTeam lets a non-leader member leave a draft team.
func (s *TeamService) LeaveTeam(teamID, actingUser uint) error {
	t, _, err := s.getTeam(teamID)
	if err != nil {
		return err
	}
	if t.SubmissionStatus != StatusDraft {
		return fmt.Errorf("team %d is %s, roster is frozen: %w", t.ID, t.SubmissionStatus, apperr.ErrInvalidState)
	}
	if actingUser == t.LeaderID {
		return fmt.Errorf("the leader cannot leave the team: %w", apperr.ErrValidation)
	}

	member, err := s.teams.GetMember(teamID, actingUser)
	if err != nil {
		return err
	}
	if member == nil || member.Status != MemberActive {
		return fmt.Errorf("user %d is not an active member of team %d: %w", actingUser, teamID, apperr.ErrNotFound)
	}

	member.Status = MemberRemoved
	return s.teams.UpdateMember(member)
}

// ListTeams returns the hackathon's teams for organizers and coordinators
// with the view-teams permission.
func (s *TeamService) ListTeams(hackathonID, actingUser uint, status string, page, limit int) ([]Team, int64, error) {
	h, err := s.getHackathon(hackathonID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authorize(h, actingUser, hackathon.PermViewTeams); err != nil {
		return nil, 0, err
	}
	return s.teams.GetTeamsByHackathon(hackathonID, status, page, limit)
}

func memberCountOK(h *hackathon.Hackathon, count int) bool {
	if h.AllowSolo && count == 1 {
		return true
	}
	return count >= h.MinTeamSize && count <= h.MaxTeamSize
}
