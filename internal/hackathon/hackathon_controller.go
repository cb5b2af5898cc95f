package hackathon

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hellonmn/evenose-sub000/config"
	"github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/internal/notification"
	"github.com/hellonmn/evenose-sub000/internal/user"
	"github.com/hellonmn/evenose-sub000/pkg/responses"
)

// UserDirectory is the slice of the auth repository the hackathon module
// needs to resolve invited users.
type UserDirectory interface {
	GetUserByID(id uint) (*user.User, error)
	GetUserByEmail(email string) (*user.User, error)
}

// HackathonController handles hackathon CRUD and coordinator/judge
// invitations.
type HackathonController struct {
	repo      HackathonRepository
	users     UserDirectory
	notifier  notification.Notifier
	appConfig *config.Config
}

func NewHackathonController(repo HackathonRepository, users UserDirectory, notifier notification.Notifier, appConfig *config.Config) *HackathonController {
	return &HackathonController{
		repo:      repo,
		users:     users,
		notifier:  notifier,
		appConfig: appConfig,
	}
}

// --- DTOs ---

type RoundInput struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Criteria string `json:"criteria"`
	MaxScore int    `json:"max_score" binding:"gte=1"`
}

type CreateHackathonRequest struct {
	Name                  string       `json:"name" binding:"required,min=3,max=200"`
	Description           string       `json:"description" binding:"max=5000"`
	RegistrationStartDate time.Time    `json:"registration_start_date" binding:"required"`
	RegistrationEndDate   time.Time    `json:"registration_end_date" binding:"required"`
	StartDate             time.Time    `json:"start_date" binding:"required"`
	EndDate               time.Time    `json:"end_date" binding:"required"`
	MinTeamSize           int          `json:"min_team_size" binding:"gte=1"`
	MaxTeamSize           int          `json:"max_team_size" binding:"gtefield=MinTeamSize"`
	AllowSolo             *bool        `json:"allow_solo"`
	Rounds                []RoundInput `json:"rounds" binding:"dive"`
}

type UpdateHackathonRequest struct {
	Name                  *string      `json:"name" binding:"omitempty,min=3,max=200"`
	Description           *string      `json:"description" binding:"omitempty,max=5000"`
	RegistrationStartDate *time.Time   `json:"registration_start_date"`
	RegistrationEndDate   *time.Time   `json:"registration_end_date"`
	StartDate             *time.Time   `json:"start_date"`
	EndDate               *time.Time   `json:"end_date"`
	MinTeamSize           *int         `json:"min_team_size" binding:"omitempty,gte=1"`
	MaxTeamSize           *int         `json:"max_team_size"`
	AllowSolo             *bool        `json:"allow_solo"`
	Rounds                []RoundInput `json:"rounds" binding:"omitempty,dive"`
}

type InviteCoordinatorRequest struct {
	Email       string      `json:"email" binding:"required,email"`
	Permissions Permissions `json:"permissions"`
}

type InviteJudgeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// --- Handlers ---

// CreateHackathon godoc
// @Summary Create a new hackathon
// @Description Creates a hackathon with the authenticated user as organizer.
// @Tags Hackathons
// @Accept json
// @Produce json
// @Param hackathon body CreateHackathonRequest true "Hackathon data"
// @Success 201 {object} responses.SuccessResponse{data=Hackathon}
// @Failure 400 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons [post]
func (hc *HackathonController) CreateHackathon(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateHackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	h := Hackathon{
		Name:                  req.Name,
		Description:           req.Description,
		OrganizerID:           userID,
		RegistrationStartDate: req.RegistrationStartDate,
		RegistrationEndDate:   req.RegistrationEndDate,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		MinTeamSize:           req.MinTeamSize,
		MaxTeamSize:           req.MaxTeamSize,
		AllowSolo:             true,
	}
	if req.AllowSolo != nil {
		h.AllowSolo = *req.AllowSolo
	}
	for _, r := range req.Rounds {
		h.Rounds = append(h.Rounds, Round{Name: r.Name, Criteria: r.Criteria, MaxScore: r.MaxScore})
	}

	if !h.ValidateWindow() {
		responses.SendError(c, http.StatusBadRequest, "Invalid dates: registration window must close before the hackathon starts and start must precede end")
		return
	}

	if err := hc.repo.Create(&h); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create hackathon: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Hackathon created successfully", h)
}

// GetHackathons godoc
// @Summary List hackathons
// @Tags Hackathons
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param name query string false "Search by name"
// @Param organizer_id query int false "Filter by organizer"
// @Success 200 {object} responses.PaginatedResponse{data=[]Hackathon}
// @Router /hackathons [get]
func (hc *HackathonController) GetHackathons(c *gin.Context) {
	page, limit := paginationParams(c)

	filters := make(map[string]interface{})
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if organizerIDStr := c.Query("organizer_id"); organizerIDStr != "" {
		if organizerID, err := strconv.ParseUint(organizerIDStr, 10, 32); err == nil {
			filters["organizer_id"] = uint(organizerID)
		}
	}

	hackathons, total, err := hc.repo.GetAll(page, limit, filters)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve hackathons: "+err.Error())
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Hackathons retrieved successfully", hackathons, total, page, limit)
}

// GetHackathonByID godoc
// @Summary Get a hackathon by ID
// @Tags Hackathons
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse{data=Hackathon}
// @Failure 404 {object} responses.ErrorResponse
// @Router /hackathons/{hackathon_id} [get]
func (hc *HackathonController) GetHackathonByID(c *gin.Context) {
	h, ok := hc.loadHackathon(c)
	if !ok {
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathon retrieved successfully", h)
}

// UpdateHackathon godoc
// @Summary Update a hackathon
// @Description Only the organizer can update. Date invariants are re-validated.
// @Tags Hackathons
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param hackathon body UpdateHackathonRequest true "Update data"
// @Success 200 {object} responses.SuccessResponse{data=Hackathon}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id} [put]
func (hc *HackathonController) UpdateHackathon(c *gin.Context) {
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
		responses.SendError(c, http.StatusForbidden, "Only the organizer can update the hackathon")
		return
	}

	var req UpdateHackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.RegistrationStartDate != nil {
		h.RegistrationStartDate = *req.RegistrationStartDate
	}
	if req.RegistrationEndDate != nil {
		h.RegistrationEndDate = *req.RegistrationEndDate
	}
	if req.StartDate != nil {
		h.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		h.EndDate = *req.EndDate
	}
	if req.MinTeamSize != nil {
		h.MinTeamSize = *req.MinTeamSize
	}
	if req.MaxTeamSize != nil {
		h.MaxTeamSize = *req.MaxTeamSize
	}
	if req.AllowSolo != nil {
		h.AllowSolo = *req.AllowSolo
	}

	if !h.ValidateWindow() {
		responses.SendError(c, http.StatusBadRequest, "Invalid dates: registration window must close before the hackathon starts and start must precede end")
		return
	}
	if h.MinTeamSize > h.MaxTeamSize {
		responses.SendError(c, http.StatusBadRequest, "Min team size cannot be greater than max team size")
		return
	}

	if req.Rounds != nil {
		rounds := make([]Round, 0, len(req.Rounds))
		for _, r := range req.Rounds {
			rounds = append(rounds, Round{Name: r.Name, Criteria: r.Criteria, MaxScore: r.MaxScore})
		}
		if err := hc.repo.ReplaceRounds(h.ID, rounds); err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to update rounds: "+err.Error())
			return
		}
		h.Rounds = rounds
	}

	if err := hc.repo.Update(h); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update hackathon: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathon updated successfully", h)
}

// DeleteHackathon godoc
// @Summary Delete a hackathon
// @Description Soft delete. Only the organizer can delete.
// @Tags Hackathons
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id} [delete]
func (hc *HackathonController) DeleteHackathon(c *gin.Context) {
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
		responses.SendError(c, http.StatusForbidden, "Only the organizer can delete the hackathon")
		return
	}

	if err := hc.repo.Delete(h.ID); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete hackathon: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathon deleted successfully", nil)
}

// --- Helpers ---

func (hc *HackathonController) loadHackathon(c *gin.Context) (*Hackathon, bool) {
	hackathonID, err := strconv.ParseUint(c.Param("hackathon_id"), 10, 32)
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid hackathon ID")
		return nil, false
	}

	h, err := hc.repo.GetByID(uint(hackathonID))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve hackathon: "+err.Error())
		return nil, false
	}
	if h == nil || h.IsDeleted {
		responses.SendError(c, http.StatusNotFound, "Hackathon not found")
		return nil, false
	}
	return h, true
}

func (hc *HackathonController) inviteLink(kind, token string) string {
	return fmt.Sprintf("%s/%s/accept/%s", hc.appConfig.App.FrontendURL, kind, token)
}

func paginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
