package team

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/pkg/apperr"
	"github.com/hellonmn/evenose-sub000/pkg/responses"
)

type TeamController struct {
	service *TeamService
}

func NewTeamController(service *TeamService) *TeamController {
	return &TeamController{service: service}
}

// --- Request DTOs ---

type RegisterTeamRequest struct {
	HackathonID uint   `json:"hackathon_id" binding:"required"`
	Name        string `json:"name" binding:"required,min=2,max=100"`
}

type RenameTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type RejectTeamRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkTeamRequest struct {
	TeamIDs []uint `json:"team_ids" binding:"required,min=1"`
	Reason  string `json:"reason"`
}

type JoinRequestInput struct {
	Message string `json:"message"`
}

type InviteMemberRequest struct {
	UserID  uint   `json:"user_id" binding:"required"`
	Message string `json:"message"`
}

type RejectJoinRequestInput struct {
	Reason string `json:"reason"`
}

// respondError translates workflow errors into HTTP responses.
func respondError(c *gin.Context, err error) {
	responses.SendError(c, apperr.StatusCode(err), err.Error())
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func authUser(c *gin.Context) (uint, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

// RegisterTeam godoc
// @Summary Register a team for a hackathon
// @Description Creates a draft team with the caller as leader. Registration window must be open.
// @Tags teams
// @Accept json
// @Produce json
// @Param team body RegisterTeamRequest true "Team details"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/register [post]
func (tc *TeamController) RegisterTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	var req RegisterTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := tc.service.RegisterTeam(req.HackathonID, req.Name, userID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Team registered", t)
}

// GetTeam godoc
// @Summary Get a team by ID
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{id} [get]
func (tc *TeamController) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	t, err := tc.service.GetTeam(teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved", t)
}

// RenameTeam godoc
// @Summary Rename a team
// @Description Leader only, draft only.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param team body RenameTeamRequest true "New name"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id} [put]
func (tc *TeamController) RenameTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RenameTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := tc.service.RenameTeam(teamID, userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team renamed", t)
}

// ConfirmTeam godoc
// @Summary Confirm a team for review
// @Description Leader submits the draft team for organizer approval.
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/confirm [post]
func (tc *TeamController) ConfirmTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := tc.service.ConfirmTeam(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team submitted for review", t)
}

// ApproveTeam godoc
// @Summary Approve a submitted team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/approve [post]
func (tc *TeamController) ApproveTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := tc.service.ApproveTeam(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team approved", t)
}

// RejectTeam godoc
// @Summary Reject a submitted team
// @Description Requires a non-empty reason, which is stored and sent to the leader.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param rejection body RejectTeamRequest true "Rejection reason"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/reject [post]
func (tc *TeamController) RejectTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RejectTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := tc.service.RejectTeam(teamID, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team rejected", t)
}

// ResubmitTeam godoc
// @Summary Revert a rejected team to draft
// @Description Organizer only. The team can then be edited and confirmed again.
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/resubmit [post]
func (tc *TeamController) ResubmitTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	t, err := tc.service.ResubmitTeam(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team reverted to draft", t)
}

// BulkApprove godoc
// @Summary Approve multiple teams
// @Description Each team is processed independently; the response lists per-team outcomes.
// @Tags teams
// @Accept json
// @Produce json
// @Param batch body BulkTeamRequest true "Team IDs"
// @Success 200 {object} responses.SuccessResponse{data=BulkResult}
// @Failure 400 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/bulk-approve [post]
func (tc *TeamController) BulkApprove(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	var req BulkTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	result := tc.service.BulkApprove(req.TeamIDs, userID)
	responses.SendSuccess(c, http.StatusOK, "Bulk approval processed", result)
}

// BulkReject godoc
// @Summary Reject multiple teams
// @Description Shared reason applied to each team independently.
// @Tags teams
// @Accept json
// @Produce json
// @Param batch body BulkTeamRequest true "Team IDs and reason"
// @Success 200 {object} responses.SuccessResponse{data=BulkResult}
// @Failure 400 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/bulk-reject [post]
func (tc *TeamController) BulkReject(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	var req BulkTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	result := tc.service.BulkReject(req.TeamIDs, userID, req.Reason)
	responses.SendSuccess(c, http.StatusOK, "Bulk rejection processed", result)
}

// LeaveTeam godoc
// @Summary Leave a team
// @Description Members may leave while the team is in draft. The leader cannot leave.
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/leave [post]
func (tc *TeamController) LeaveTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := tc.service.LeaveTeam(teamID, userID); err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Left the team", nil)
}

// RemoveMember godoc
// @Summary Remove a member from a team
// @Description Leader only, draft only. The leader cannot remove themself.
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Param userId path int true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/members/{userId} [delete]
func (tc *TeamController) RemoveMember(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := tc.service.RemoveMember(teamID, userID, targetID); err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed", nil)
}

// ListTeams godoc
// @Summary List a hackathon's teams
// @Description Organizer or coordinator with the view-teams permission.
// @Tags teams
// @Produce json
// @Param hackathon_id path int true "Hackathon ID"
// @Param status query string false "Filter by submission status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /hackathons/{hackathon_id}/teams [get]
func (tc *TeamController) ListTeams(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	// mounted both under /hackathons/:hackathon_id/teams and /teams
	raw := c.Param("hackathon_id")
	if raw == "" {
		raw = c.Query("hackathon_id")
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "invalid hackathon_id")
		return
	}
	hackathonID := uint(parsed)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	teams, total, err := tc.service.ListTeams(hackathonID, userID, c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Teams retrieved", teams, total, page, limit)
}
