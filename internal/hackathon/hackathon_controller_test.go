package hackathon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hellonmn/evenose-sub000/config"
	"github.com/hellonmn/evenose-sub000/internal/middleware"
	"github.com/hellonmn/evenose-sub000/internal/notification"
	"github.com/hellonmn/evenose-sub000/internal/user"
	"github.com/hellonmn/evenose-sub000/pkg/token"
)

const testSecret = "test-secret"

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (r *recordingNotifier) Notify(msg notification.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingNotifier) sent() []notification.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.Message, len(r.messages))
	copy(out, r.messages)
	return out
}

type apiFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	notifier *recordingNotifier
}

func newAPIFixture(t *testing.T) *apiFixture {
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

	if err := db.AutoMigrate(&user.User{}, &Hackathon{}, &Round{}, &Coordinator{}, &Judge{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.App.FrontendURL = "http://localhost:3000"
	cfg.JWT.AccessTokenSecret = testSecret

	notifier := &recordingNotifier{}
	router := gin.New()
	api := router.Group("/api")
	HackathonRoutes(api, db, cfg, notifier)

	return &apiFixture{db: db, router: router, notifier: notifier}
}

func (f *apiFixture) seedUser(t *testing.T, name string) *user.User {
	t.Helper()
	u := &user.User{
		Name:     name,
		Username: name,
		Email:    name + "@example.com",
		Password: "irrelevant",
	}
	if err := f.db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *apiFixture) request(t *testing.T, method, path string, body any, asUser uint) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if asUser != 0 {
		jwt, err := token.GenerateJWT(asUser, testSecret, time.Hour)
		if err != nil {
			t.Fatalf("sign jwt: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+jwt)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func validCreateBody(name string) map[string]any {
	now := time.Now()
	return map[string]any{
		"name":                    name,
		"description":             "a weekend of hacking",
		"registration_start_date": now.Add(24 * time.Hour),
		"registration_end_date":   now.Add(72 * time.Hour),
		"start_date":              now.Add(96 * time.Hour),
		"end_date":                now.Add(120 * time.Hour),
		"min_team_size":           2,
		"max_team_size":           4,
		"rounds": []map[string]any{
			{"name": "finals", "max_score": 100},
		},
	}
}

func TestCreateHackathonValidatesDateOrdering(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")

	body := validCreateBody("Backwards Days")
	body["registration_end_date"] = time.Now().Add(-24 * time.Hour)

	w := f.request(t, http.MethodPost, "/api/hackathons", body, org.ID)
	is.Equal(w.Code, http.StatusBadRequest)
}

func TestCreateAndFetchHackathon(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")

	w := f.request(t, http.MethodPost, "/api/hackathons", validCreateBody("Gopher Jam"), org.ID)
	is.Equal(w.Code, http.StatusCreated)

	var created struct {
		Data Hackathon `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &created))
	is.Equal(created.Data.OrganizerID, org.ID)
	is.Equal(len(created.Data.Rounds), 1)

	w = f.request(t, http.MethodGet, fmt.Sprintf("/api/hackathons/%d", created.Data.ID), nil, 0)
	is.Equal(w.Code, http.StatusOK)
}

func TestCreateHackathonPersistsDisabledSolo(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")

	body := validCreateBody("No Solo Jam")
	body["allow_solo"] = false

	w := f.request(t, http.MethodPost, "/api/hackathons", body, org.ID)
	is.Equal(w.Code, http.StatusCreated)

	var created struct {
		Data Hackathon `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &created))
	is.True(!created.Data.AllowSolo)

	// false survives the round trip to the database
	var stored Hackathon
	is.NoErr(f.db.First(&stored, created.Data.ID).Error)
	is.True(!stored.AllowSolo)

	// omitting the field still defaults to allowing solo teams
	w = f.request(t, http.MethodPost, "/api/hackathons", validCreateBody("Default Jam"), org.ID)
	is.Equal(w.Code, http.StatusCreated)
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &created))
	is.True(created.Data.AllowSolo)
}

func TestUpdateHackathonOrganizerOnly(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")
	other := f.seedUser(t, "other")

	w := f.request(t, http.MethodPost, "/api/hackathons", validCreateBody("Gopher Jam"), org.ID)
	is.Equal(w.Code, http.StatusCreated)
	var created struct {
		Data Hackathon `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &created))

	update := map[string]any{"name": "Renamed Jam"}
	w = f.request(t, http.MethodPut, fmt.Sprintf("/api/hackathons/%d", created.Data.ID), update, other.ID)
	is.Equal(w.Code, http.StatusForbidden)

	w = f.request(t, http.MethodPut, fmt.Sprintf("/api/hackathons/%d", created.Data.ID), update, org.ID)
	is.Equal(w.Code, http.StatusOK)
}

func TestDeletedHackathonHidden(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")

	w := f.request(t, http.MethodPost, "/api/hackathons", validCreateBody("Gopher Jam"), org.ID)
	is.Equal(w.Code, http.StatusCreated)
	var created struct {
		Data Hackathon `json:"data"`
	}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &created))

	w = f.request(t, http.MethodDelete, fmt.Sprintf("/api/hackathons/%d", created.Data.ID), nil, org.ID)
	is.Equal(w.Code, http.StatusOK)

	w = f.request(t, http.MethodGet, fmt.Sprintf("/api/hackathons/%d", created.Data.ID), nil, 0)
	is.Equal(w.Code, http.StatusNotFound)
}

// --- Invitations ---

func (f *apiFixture) createHackathon(t *testing.T, organizerID uint, name string) uint {
	t.Helper()
	w := f.request(t, http.MethodPost, "/api/hackathons", validCreateBody(name), organizerID)
	if w.Code != http.StatusCreated {
		t.Fatalf("create hackathon: status %d body %s", w.Code, w.Body.String())
	}
	var created struct {
		Data Hackathon `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return created.Data.ID
}

func TestCoordinatorInviteAcceptFlow(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")
	invited := f.seedUser(t, "coord")
	intruder := f.seedUser(t, "intruder")
	hackID := f.createHackathon(t, org.ID, "Gopher Jam")

	invite := map[string]any{
		"email":       invited.Email,
		"permissions": map[string]bool{"view_teams": true, "check_in": true},
	}

	// only the organizer may invite
	w := f.request(t, http.MethodPost, fmt.Sprintf("/api/hackathons/%d/coordinators/invite", hackID), invite, intruder.ID)
	is.Equal(w.Code, http.StatusForbidden)

	w = f.request(t, http.MethodPost, fmt.Sprintf("/api/hackathons/%d/coordinators/invite", hackID), invite, org.ID)
	is.Equal(w.Code, http.StatusCreated)

	var coord Coordinator
	is.NoErr(f.db.Where("hackathon_id = ? AND user_id = ?", hackID, invited.ID).First(&coord).Error)
	is.Equal(coord.Status, InviteStatusPending)
	is.Equal(len(coord.InviteToken), 64) // 32 random bytes, hex encoded
	is.True(coord.Permissions.ViewTeams)
	is.True(!coord.Permissions.EliminateTeams)

	// the invite email carries the acceptance link
	sent := f.notifier.sent()
	is.Equal(len(sent), 1)
	is.Equal(sent[0].To, invited.Email)

	// a second invite for the same user conflicts
	w = f.request(t, http.MethodPost, fmt.Sprintf("/api/hackathons/%d/coordinators/invite", hackID), invite, org.ID)
	is.Equal(w.Code, http.StatusConflict)

	acceptPath := "/api/hackathons/coordinators/accept/" + coord.InviteToken

	// the token is bound to the invited user
	w = f.request(t, http.MethodPost, acceptPath, nil, intruder.ID)
	is.Equal(w.Code, http.StatusForbidden)

	w = f.request(t, http.MethodPost, acceptPath, nil, invited.ID)
	is.Equal(w.Code, http.StatusOK)

	is.NoErr(f.db.First(&coord, coord.ID).Error)
	is.Equal(coord.Status, InviteStatusAccepted)
	is.Equal(coord.InviteToken, "") // single use

	// replay fails now that the token is cleared
	w = f.request(t, http.MethodPost, acceptPath, nil, invited.ID)
	is.Equal(w.Code, http.StatusNotFound)
}

// failingDirectory simulates a user store whose queries error out.
type failingDirectory struct{}

func (failingDirectory) GetUserByID(uint) (*user.User, error) {
	return nil, errDirectoryDown
}

func (failingDirectory) GetUserByEmail(string) (*user.User, error) {
	return nil, errDirectoryDown
}

var errDirectoryDown = fmt.Errorf("connection refused")

func TestInviteLookupFailureIsServerError(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")

	h := &Hackathon{Name: "Gopher Jam", OrganizerID: org.ID}
	is.NoErr(f.db.Create(h).Error)

	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = testSecret
	ctrl := NewHackathonController(NewHackathonRepository(f.db), failingDirectory{}, f.notifier, cfg)

	router := gin.New()
	router.POST("/hackathons/:hackathon_id/coordinators/invite", func(c *gin.Context) {
		c.Set(middleware.AuthUserIDKey, org.ID)
		ctrl.InviteCoordinator(c)
	})

	body, err := json.Marshal(map[string]any{"email": "coord@example.com"})
	is.NoErr(err)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/hackathons/%d/coordinators/invite", h.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// a store failure is not "no such user"
	is.Equal(w.Code, http.StatusInternalServerError)
}

func TestInviteUnknownEmail(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")
	hackID := f.createHackathon(t, org.ID, "Gopher Jam")

	invite := map[string]any{"email": "ghost@example.com"}
	w := f.request(t, http.MethodPost, fmt.Sprintf("/api/hackathons/%d/coordinators/invite", hackID), invite, org.ID)
	is.Equal(w.Code, http.StatusNotFound)
}

func TestJudgeInviteAcceptFlow(t *testing.T) {
	is := is.New(t)
	f := newAPIFixture(t)
	org := f.seedUser(t, "org")
	invited := f.seedUser(t, "judge")
	hackID := f.createHackathon(t, org.ID, "Gopher Jam")

	invite := map[string]any{"email": invited.Email}
	w := f.request(t, http.MethodPost, fmt.Sprintf("/api/hackathons/%d/judges/invite", hackID), invite, org.ID)
	is.Equal(w.Code, http.StatusCreated)

	var judge Judge
	is.NoErr(f.db.Where("hackathon_id = ? AND user_id = ?", hackID, invited.ID).First(&judge).Error)
	is.Equal(len(judge.InviteToken), 64)

	w = f.request(t, http.MethodPost, "/api/hackathons/judges/accept/"+judge.InviteToken, nil, invited.ID)
	is.Equal(w.Code, http.StatusOK)

	is.NoErr(f.db.First(&judge, judge.ID).Error)
	is.Equal(judge.Status, InviteStatusAccepted)
	is.Equal(judge.InviteToken, "")
}

func TestHackathonWindowValidation(t *testing.T) {
	is := is.New(t)
	now := time.Now()
	h := Hackathon{
		RegistrationStartDate: now,
		RegistrationEndDate:   now.Add(time.Hour),
		StartDate:             now.Add(2 * time.Hour),
		EndDate:               now.Add(3 * time.Hour),
	}
	is.True(h.ValidateWindow())

	// registration may close exactly at the start
	h.RegistrationEndDate = h.StartDate
	is.True(h.ValidateWindow())

	h.RegistrationEndDate = h.StartDate.Add(time.Minute)
	is.True(!h.ValidateWindow())

	h.RegistrationEndDate = h.RegistrationStartDate
	is.True(!h.ValidateWindow())
}
