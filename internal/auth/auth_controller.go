package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hellonmn/evenose-sub000/config"
	"github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/internal/user"
	"github.com/hellonmn/evenose-sub000/pkg/responses"
	"github.com/hellonmn/evenose-sub000/pkg/token"
	"github.com/hellonmn/evenose-sub000/pkg/utils"
	"github.com/hellonmn/evenose-sub000/pkg/validator"
)

// AuthController handles registration, login and token refresh.
type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

func (ac *AuthController) issueTokens(userID uint) (*TokenPair, error) {
	access, err := token.GenerateJWT(userID, ac.config.JWT.AccessTokenSecret,
		time.Duration(ac.config.JWT.AccessTokenExpiryMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	refreshTTL := time.Duration(ac.config.JWT.RefreshTokenExpiryDays) * 24 * time.Hour
	refresh, err := token.GenerateJWT(userID, ac.config.JWT.RefreshTokenSecret, refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := ac.repo.SaveRefreshToken(&user.RefreshToken{
		UserID:    userID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register godoc
// @Summary Register a new user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration data"
// @Success 201 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validator.ParseError(err)
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+flatten(fields))
		return
	}

	if _, err := ac.repo.GetUserByEmail(strings.ToLower(req.Email)); err == nil {
		responses.SendError(c, http.StatusConflict, "User with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check existing users: "+err.Error())
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); err == nil {
		responses.SendError(c, http.StatusConflict, "Username is already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusInternalServerError, "Failed to check existing users: "+err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	newUser := user.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    strings.ToLower(req.Email),
		Password: hashed,
	}
	if err := ac.repo.CreateUser(&newUser); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to create user: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "User registered successfully", gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"email":    newUser.Email,
	})
}

// Login godoc
// @Summary Log in with email/username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} responses.SuccessResponse{data=TokenPair}
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	var u *user.User
	var err error
	if strings.Contains(req.LoginIdentifier, "@") {
		u, err = ac.repo.GetUserByEmail(strings.ToLower(req.LoginIdentifier))
	} else {
		u, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if err != nil || !utils.CheckPasswordHash(req.Password, u.Password) {
		responses.SendError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	pair, err := ac.issueTokens(u.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to issue tokens: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", pair)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param refresh body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} responses.SuccessResponse{data=TokenPair}
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, ac.config.JWT.RefreshTokenSecret)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "Invalid refresh token: "+err.Error())
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil || stored.ExpiresAt.Before(time.Now()) {
		responses.SendError(c, http.StatusUnauthorized, "Refresh token expired or revoked")
		return
	}

	// Rotate: the old refresh token is single use.
	if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to rotate refresh token")
		return
	}

	pair, err := ac.issueTokens(claims.UserID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to issue tokens: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Token refreshed", pair)
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags Auth
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=user.User}
// @Failure 401 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.SendError(c, http.StatusNotFound, "User not found")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved", u)
}

func flatten(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, msg := range fields {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
