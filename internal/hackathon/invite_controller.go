package hackathon

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/internal/notification"
	"github.com/hellonmn/evenose-sub000/pkg/responses"
	"github.com/hellonmn/evenose-sub000/pkg/utils"
)

// InviteCoordinator godoc
// @Summary Invite a coordinator to a hackathon
// @Description Organizer only. Generates a single-use token and emails an acceptance link.
// @Tags Invitations
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param invite body InviteCoordinatorRequest true "Invitation details"
// @Success 201 {object} responses.SuccessResponse{data=Coordinator}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/coordinators/invite [post]
func (hc *HackathonController) InviteCoordinator(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h, ok := hc.loadHackathon(c)
	if !ok {
		return
	}
	if h.OrganizerID != userID {
		responses.SendError(c, http.StatusForbidden, "Only the organizer can invite coordinators")
		return
	}

	var req InviteCoordinatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	invited, err := hc.users.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.SendError(c, http.StatusNotFound, "No user registered with this email")
			return
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to look up user: "+err.Error())
		return
	}

	existing, err := hc.repo.GetCoordinator(h.ID, invited.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check existing invitations: "+err.Error())
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "User is already a coordinator or has a pending invitation")
		return
	}

	inviteToken := utils.GenerateRandomToken(utils.InviteTokenBytes)
	if inviteToken == "" {
		responses.SendError(c, http.StatusInternalServerError, "Failed to generate invitation token")
		return
	}

	coordinator := Coordinator{
		HackathonID: h.ID,
		UserID:      invited.ID,
		Permissions: req.Permissions,
		InviteToken: inviteToken,
		Status:      InviteStatusPending,
	}
	if err := hc.repo.AddCoordinator(&coordinator); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create invitation: "+err.Error())
		return
	}

	hc.notifier.Notify(notification.Message{
		To:      invited.Email,
		Subject: fmt.Sprintf("You have been invited to coordinate %s", h.Name),
		Body: fmt.Sprintf("Hello %s, you have been invited as a coordinator for %s. Accept here: %s",
			invited.Name, h.Name, hc.inviteLink("coordinators", inviteToken)),
	})

	responses.SendSuccess(c, http.StatusCreated, "Coordinator invitation sent", coordinator)
}

// AcceptCoordinatorInvite godoc
// @Summary Accept a coordinator invitation
// @Description The token must belong to a pending invitation addressed to the authenticated user. Single use.
// @Tags Invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} responses.SuccessResponse{data=Coordinator}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/coordinators/accept/{token} [post]
func (hc *HackathonController) AcceptCoordinatorInvite(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	coordinator, err := hc.repo.GetCoordinatorByToken(c.Param("token"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to resolve invitation: "+err.Error())
		return
	}
	if coordinator == nil {
		responses.SendError(c, http.StatusNotFound, "Invitation not found or already used")
		return
	}
	if coordinator.UserID != userID {
		responses.SendError(c, http.StatusForbidden, "This invitation was not addressed to you")
		return
	}

	coordinator.Status = InviteStatusAccepted
	coordinator.InviteToken = ""
	if err := hc.repo.UpdateCoordinator(coordinator); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to accept invitation: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Invitation accepted", coordinator)
}

// InviteJudge godoc
// @Summary Invite a judge to a hackathon
// @Description Organizer only. Generates a single-use token and emails an acceptance link.
// @Tags Invitations
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param invite body InviteJudgeRequest true "Invitation details"
// @Success 201 {object} responses.SuccessResponse{data=Judge}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/judges/invite [post]
func (hc *HackathonController) InviteJudge(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	h, ok := hc.loadHackathon(c)
	if !ok {
		return
	}
	if h.OrganizerID != userID {
		responses.SendError(c, http.StatusForbidden, "Only the organizer can invite judges")
		return
	}

	var req InviteJudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	invited, err := hc.users.GetUserByEmail(strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.SendError(c, http.StatusNotFound, "No user registered with this email")
			return
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to look up user: "+err.Error())
		return
	}

	existing, err := hc.repo.GetJudge(h.ID, invited.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check existing invitations: "+err.Error())
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "User is already a judge or has a pending invitation")
		return
	}

	inviteToken := utils.GenerateRandomToken(utils.InviteTokenBytes)
	if inviteToken == "" {
		responses.SendError(c, http.StatusInternalServerError, "Failed to generate invitation token")
		return
	}

	judge := Judge{
		HackathonID: h.ID,
		UserID:      invited.ID,
		InviteToken: inviteToken,
		Status:      InviteStatusPending,
	}
	if err := hc.repo.AddJudge(&judge); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create invitation: "+err.Error())
		return
	}

	hc.notifier.Notify(notification.Message{
		To:      invited.Email,
		Subject: fmt.Sprintf("You have been invited to judge %s", h.Name),
		Body: fmt.Sprintf("Hello %s, you have been invited as a judge for %s. Accept here: %s",
			invited.Name, h.Name, hc.inviteLink("judges", inviteToken)),
	})

	responses.SendSuccess(c, http.StatusCreated, "Judge invitation sent", judge)
}

// AcceptJudgeInvite godoc
// @Summary Accept a judge invitation
// @Tags Invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} responses.SuccessResponse{data=Judge}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/judges/accept/{token} [post]
func (hc *HackathonController) AcceptJudgeInvite(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	judge, err := hc.repo.GetJudgeByToken(c.Param("token"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to resolve invitation: "+err.Error())
		return
	}
	if judge == nil {
		responses.SendError(c, http.StatusNotFound, "Invitation not found or already used")
		return
	}
	if judge.UserID != userID {
		responses.SendError(c, http.StatusForbidden, "This invitation was not addressed to you")
		return
	}

	judge.Status = InviteStatusAccepted
	judge.InviteToken = ""
	if err := hc.repo.UpdateJudge(judge); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to accept invitation: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Invitation accepted", judge)
}
