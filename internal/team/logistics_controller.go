package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hellonmn/evenose-sub000/pkg/responses"
)

type AssignTableRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
	TeamNumber  int    `json:"team_number" binding:"gte=0"`
}

type EliminateTeamRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AnnounceRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// CheckInMember godoc
// @Summary Check in a team member
// @Description Coordinator with the check-in permission marks a member of an approved team present.
// @Tags logistics
// @Produce json
// @Param id path int true "Team ID"
// @Param userId path int true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=TeamMember}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/check-in/{userId} [post]
func (tc *TeamController) CheckInMember(c *gin.Context) {
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

	member, err := tc.service.CheckInMember(teamID, userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member checked in", member)
}

// AssignTable godoc
// @Summary Assign a table to a team
// @Description Coordinator with the assign-tables permission.
// @Tags logistics
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param assignment body AssignTableRequest true "Table number"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/assign-table [post]
func (tc *TeamController) AssignTable(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AssignTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := tc.service.AssignTable(teamID, userID, req.TableNumber, req.TeamNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Table assigned", t)
}

// EliminateTeam godoc
// @Summary Eliminate an approved team
// @Description Coordinator with the eliminate-teams permission. Requires a reason.
// @Tags logistics
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param elimination body EliminateTeamRequest true "Elimination reason"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/eliminate [post]
func (tc *TeamController) EliminateTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req EliminateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := tc.service.EliminateTeam(teamID, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team eliminated", t)
}

// Announce godoc
// @Summary Message all approved team leaders
// @Description Organizer or coordinator with the communicate permission.
// @Tags logistics
// @Accept json
// @Produce json
// @Param hackathon_id path int true "Hackathon ID"
// @Param announcement body AnnounceRequest true "Announcement"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /hackathons/{hackathon_id}/announce [post]
func (tc *TeamController) Announce(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	hackathonID, ok := parseIDParam(c, "hackathon_id")
	if !ok {
		return
	}
	var req AnnounceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	sent, err := tc.service.Announce(hackathonID, userID, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Announcement dispatched", gin.H{"recipients": sent})
}
