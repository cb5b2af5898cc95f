package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hellonmn/evenose-sub000/pkg/responses"
)

type SubmitProjectRequest struct {
	RoundID     uint   `json:"round_id" binding:"required"`
	RepoLink    string `json:"repo_link" binding:"required,url"`
	DemoLink    string `json:"demo_link" binding:"omitempty,url"`
	Description string `json:"description"`
}

type ScoreTeamRequest struct {
	RoundID   uint    `json:"round_id" binding:"required"`
	Breakdown string  `json:"breakdown"`
	Total     float64 `json:"total" binding:"gte=0"`
}

// SubmitProject godoc
// @Summary Submit a project for a round
// @Description Leader of an approved team. Resubmitting replaces the previous entry for the round.
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param submission body SubmitProjectRequest true "Submission"
// @Success 200 {object} responses.SuccessResponse{data=Submission}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/submissions [post]
func (tc *TeamController) SubmitProject(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := tc.service.SubmitProject(teamID, req.RoundID, userID, req.RepoLink, req.DemoLink, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Project submitted", sub)
}

// GetSubmissions godoc
// @Summary List a team's submissions
// @Description Leader, organizer, or coordinator with the view-submissions permission.
// @Tags submissions
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Submission}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/submissions [get]
func (tc *TeamController) GetSubmissions(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subs, err := tc.service.GetSubmissions(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Submissions retrieved", subs)
}

// ScoreTeam godoc
// @Summary Score a team for a round
// @Description Accepted judges only. One score per judge per round; re-scoring overwrites.
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param score body ScoreTeamRequest true "Score"
// @Success 200 {object} responses.SuccessResponse{data=Score}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/scores [post]
func (tc *TeamController) ScoreTeam(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ScoreTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	score, err := tc.service.ScoreTeam(teamID, req.RoundID, userID, req.Breakdown, req.Total)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Score recorded", score)
}

// GetScores godoc
// @Summary List a team's scores
// @Description Leader, organizer, or an accepted judge of the hackathon.
// @Tags submissions
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Score}
// @Failure 403 {object} responses.ErrorResponse
// @Security BearerAuth
// @Router /teams/{id}/scores [get]
func (tc *TeamController) GetScores(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	teamID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	scores, err := tc.service.GetScores(teamID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Scores retrieved", scores)
}
