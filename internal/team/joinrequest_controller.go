package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hellonmn/evenose-sub000/pkg/responses"
)

// SendJoinRequest godoc
// @Summary Request to join a team
// @Description Files a pending join request. Fails if already a member, a request is pending, or the team is full.
// @Tags join-requests
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body JoinRequestInput true "Optional message"
// @Success 201 {object} responses.SuccessResponse{data=JoinRequest}
// @Failure 409 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/join-requests [post]
func (tc *TeamController) SendJoinRequest(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req JoinRequestInput
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	jr, err := tc.service.SendJoinRequest(teamID, userID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Join request sent", jr)
}

// InviteMember godoc
// @Summary Invite a user to the team
// @Description Leader files a join request on the invitee's behalf.
// @Tags join-requests
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param invite body InviteMemberRequest true "Invitee"
// @Success 201 {object} responses.SuccessResponse{data=JoinRequest}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/invitations [post]
func (tc *TeamController) InviteMember(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	jr, err := tc.service.InviteToTeam(teamID, userID, req.UserID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Invitation sent", jr)
}

// ListJoinRequests godoc
// @Summary List a team's join requests
// @Description Leader only.
// @Tags join-requests
// @Produce json
// @Param id path int true "Team ID"
// @Param status query string false "Filter by request status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/join-requests [get]
func (tc *TeamController) ListJoinRequests(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	requests, total, err := tc.service.ListJoinRequests(teamID, userID, c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Join requests retrieved", requests, total, page, limit)
}

// AcceptJoinRequest godoc
// @Summary Accept a join request
// @Description Leader only. Capacity is re-checked before the requester becomes a member.
// @Tags join-requests
// @Produce json
// @Param id path int true "Team ID"
// @Param reqId path int true "Join request ID"
// @Success 200 {object} responses.SuccessResponse{data=JoinRequest}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/join-requests/{reqId}/accept [post]
func (tc *TeamController) AcceptJoinRequest(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "reqId")
	if !ok {
		return
	}

	jr, err := tc.service.AcceptJoinRequest(teamID, requestID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Join request accepted", jr)
}

// RejectJoinRequest godoc
// @Summary Reject a join request
// @Description Leader only. Reason is optional.
// @Tags join-requests
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param reqId path int true "Join request ID"
// @Param rejection body RejectJoinRequestInput false "Optional reason"
// @Success 200 {object} responses.SuccessResponse{data=JoinRequest}
// @Failure 400 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/join-requests/{reqId}/reject [post]
func (tc *TeamController) RejectJoinRequest(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "reqId")
	if !ok {
		return
	}
	var req RejectJoinRequestInput
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	jr, err := tc.service.RejectJoinRequest(teamID, requestID, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Join request rejected", jr)
}

// CancelJoinRequest godoc
// @Summary Cancel own join request
// @Description Only the requester may cancel, and only while the request is pending.
// @Tags join-requests
// @Produce json
// @Param id path int true "Team ID"
// @Param reqId path int true "Join request ID"
// @Success 200 {object} responses.SuccessResponse{data=JoinRequest}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/join-requests/{reqId} [delete]
func (tc *TeamController) CancelJoinRequest(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	requestID, ok := parseIDParam(c, "reqId")
	if !ok {
		return
	}

	jr, err := tc.service.CancelJoinRequest(teamID, requestID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Join request cancelled", jr)
}
