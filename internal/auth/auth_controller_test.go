package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hellonmn/evenose-sub000/config"
	"github.com/hellonmn/evenose-sub000/internal/user"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&user.User{}, &user.RefreshToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "access-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 15
	cfg.JWT.RefreshTokenSecret = "refresh-secret"
	cfg.JWT.RefreshTokenExpiryDays = 7

	router := gin.New()
	api := router.Group("/api")
	RegisterAuthRoutes(api, db, cfg)
	return router, db
}

func jsonRequest(t *testing.T, router *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody() map[string]string {
	return map[string]string{
		"name":     "Jordan Lee",
		"username": "jordan_lee",
		"email":    "jordan@example.com",
		"password": "password123",
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	is := is.New(t)
	router, _ := newAuthRouter(t)

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", registerBody(), "")
	is.Equal(w.Code, http.StatusCreated)

	// login with the email
	login := map[string]string{"login_identifier": "jordan@example.com", "password": "password123"}
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/login", login, "")
	is.Equal(w.Code, http.StatusOK)

	var resp struct {
		Data TokenPair `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &resp))
	is.True(resp.Data.AccessToken != "")
	is.True(resp.Data.RefreshToken != "")

	// login with the username works too
	login["login_identifier"] = "jordan_lee"
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/login", login, "")
	is.Equal(w.Code, http.StatusOK)

	w = jsonRequest(t, router, http.MethodGet, "/api/auth/me", nil, resp.Data.AccessToken)
	is.Equal(w.Code, http.StatusOK)

	var profile struct {
		Data user.User `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &profile))
	is.Equal(profile.Data.Email, "jordan@example.com")
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	is := is.New(t)
	router, _ := newAuthRouter(t)

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", registerBody(), "")
	is.Equal(w.Code, http.StatusCreated)

	dup := registerBody()
	dup["username"] = "someone_else"
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/register", dup, "")
	is.Equal(w.Code, http.StatusConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	is := is.New(t)
	router, _ := newAuthRouter(t)

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", registerBody(), "")
	is.Equal(w.Code, http.StatusCreated)

	login := map[string]string{"login_identifier": "jordan@example.com", "password": "wrong-password"}
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/login", login, "")
	is.Equal(w.Code, http.StatusUnauthorized)
}

func TestRefreshTokenRotation(t *testing.T) {
	is := is.New(t)
	router, _ := newAuthRouter(t)

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", registerBody(), "")
	is.Equal(w.Code, http.StatusCreated)

	login := map[string]string{"login_identifier": "jordan_lee", "password": "password123"}
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/login", login, "")
	is.Equal(w.Code, http.StatusOK)

	var first struct {
		Data TokenPair `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &first))

	refresh := map[string]string{"refresh_token": first.Data.RefreshToken}
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/refresh-token", refresh, "")
	is.Equal(w.Code, http.StatusOK)

	var second struct {
		Data TokenPair `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &second))
	is.True(second.Data.RefreshToken != first.Data.RefreshToken)

	// the old refresh token is revoked after rotation
	w = jsonRequest(t, router, http.MethodPost, "/api/auth/refresh-token", refresh, "")
	is.Equal(w.Code, http.StatusUnauthorized)
}

// erroringAuthRepo fails user lookups; the embedded interface covers the
// methods the handler never reaches.
type erroringAuthRepo struct {
	AuthRepository
}

func (erroringAuthRepo) GetUserByEmail(string) (*user.User, error) {
	return nil, errors.New("connection refused")
}

func TestRegisterLookupFailureIsServerError(t *testing.T) {
	is := is.New(t)
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "access-secret"
	ctrl := NewAuthController(erroringAuthRepo{}, cfg)

	router := gin.New()
	router.POST("/register", ctrl.Register)

	w := jsonRequest(t, router, http.MethodPost, "/register", registerBody(), "")

	// a store failure must not masquerade as a duplicate-email conflict
	is.Equal(w.Code, http.StatusInternalServerError)
}

func TestProtectedRouteRejectsMissingToken(t *testing.T) {
	is := is.New(t)
	router, _ := newAuthRouter(t)

	w := jsonRequest(t, router, http.MethodGet, "/api/auth/me", nil, "")
	is.Equal(w.Code, http.StatusUnauthorized)
}
