package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/starmentor/internal/app/models"
	"github.com/yigit/starmentor/internal/app/models/dto"
	"github.com/yigit/starmentor/internal/app/services"
	"github.com/yigit/starmentor/internal/middleware"
	"github.com/yigit/starmentor/internal/pkg/apperrors"
	"github.com/yigit/starmentor/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func testCaller(role models.Role) *models.Profile {
	cid := uuid.New()
	return &models.Profile{ID: uuid.New(), Email: "ada@star.org", FullName: "Ada Lovelace", Role: role, CommitteeID: &cid}
}

// withCaller stands in for SessionAuth
func withCaller(p *models.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			middleware.SetCaller(c, p)
		}
		c.Next()
	}
}

type fakeSessions struct {
	signUp  func(dto.SignUpRequest) (*services.Session, error)
	signIn  func(dto.SignInRequest) (*services.Session, error)
	revoked []*auth.Claims
}

func (f *fakeSessions) SignUp(_ context.Context, req dto.SignUpRequest) (*services.Session, error) {
	return f.signUp(req)
}

func (f *fakeSessions) SignIn(_ context.Context, req dto.SignInRequest) (*services.Session, error) {
	return f.signIn(req)
}

func (f *fakeSessions) SignOut(_ context.Context, claims *auth.Claims) error {
	f.revoked = append(f.revoked, claims)
	return nil
}

func newSession(p *models.Profile) *services.Session {
	return &services.Session{
		Token: "signed.jwt.token",
		Claims: &auth.Claims{
			Email: p.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		},
		Profile: p,
	}
}

func TestAuthController_SignUp(t *testing.T) {
	profile := testCaller(models.RoleMember)
	var got dto.SignUpRequest
	sessions := &fakeSessions{signUp: func(req dto.SignUpRequest) (*services.Session, error) {
		got = req
		return newSession(profile), nil
	}}

	r := gin.New()
	r.POST("/auth/signup", NewAuthController(sessions, zerolog.Nop()).SignUp)

	body := `{"email":"ada@star.org","password":"s3cret!","fullName":"Ada Lovelace"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ada@star.org", got.Email)
	assert.Equal(t, "Ada Lovelace", got.FullName)

	resp := decode(t, w)
	assert.True(t, resp.Success)
	var session dto.SessionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &session))
	assert.Equal(t, "signed.jwt.token", session.AccessToken)
	assert.Equal(t, "Bearer", session.TokenType)
	assert.False(t, session.ExpiresAt.IsZero())
	require.NotNil(t, session.Profile)
	assert.Equal(t, profile.ID, session.Profile.ID)
}

func TestAuthController_SignUpDuplicateEmail(t *testing.T) {
	sessions := &fakeSessions{signUp: func(dto.SignUpRequest) (*services.Session, error) {
		return nil, apperrors.ErrEmailAlreadyExists
	}}

	r := gin.New()
	r.POST("/auth/signup", NewAuthController(sessions, zerolog.Nop()).SignUp)

	body := `{"email":"ada@star.org","password":"s3cret!","fullName":"Ada Lovelace"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeEmailExists, decode(t, w).Error.Code)
}

func TestAuthController_SignIn(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"success", `{"email":"ada@star.org","password":"s3cret!"}`, nil, http.StatusOK},
		{"bad credentials", `{"email":"ada@star.org","password":"nope"}`, apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"empty body", ``, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{signIn: func(dto.SignInRequest) (*services.Session, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return newSession(testCaller(models.RoleMember)), nil
			}}

			r := gin.New()
			r.POST("/auth/signin", NewAuthController(sessions, zerolog.Nop()).SignIn)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthController_SignOutWithoutClaims(t *testing.T) {
	sessions := &fakeSessions{}
	r := gin.New()
	r.POST("/auth/signout", NewAuthController(sessions, zerolog.Nop()).SignOut)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signout", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, sessions.revoked)
}

type fakeWeeks struct {
	WeekService
	weeks    []*models.Week
	err      error
	upcoming bool
	created  dto.CreateWeekRequest
}

func (f *fakeWeeks) List(_ context.Context, _ *models.Profile, upcoming bool) ([]*models.Week, error) {
	f.upcoming = upcoming
	return f.weeks, f.err
}

func (f *fakeWeeks) Create(_ context.Context, caller *models.Profile, req dto.CreateWeekRequest) (*models.Week, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = req
	return &models.Week{
		ID:          uuid.New(),
		CommitteeID: *caller.CommitteeID,
		WeekNumber:  req.WeekNumber,
		Title:       req.Title,
		StartDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeExports struct {
	export *services.Export
	err    error
}

func (f *fakeExports) AttendanceWorkbook(context.Context, *models.Profile) (*services.Export, error) {
	return f.export, f.err
}

func (f *fakeExports) WeekCalendar(context.Context, *models.Profile) (*services.Export, error) {
	return f.export, f.err
}

func weekRouter(caller *models.Profile, weeks WeekService, exports ExportService) *gin.Engine {
	ctrl := NewWeekController(weeks, exports, zerolog.Nop())
	r := gin.New()
	g := r.Group("/weeks", withCaller(caller))
	g.GET("", ctrl.ListWeeks)
	g.POST("", ctrl.CreateWeek)
	g.GET("/calendar.ics", ctrl.ExportCalendar)
	return r
}

func TestWeekController_ListWeeks(t *testing.T) {
	caller := testCaller(models.RoleMember)
	weeks := &fakeWeeks{weeks: []*models.Week{
		{ID: uuid.New(), CommitteeID: *caller.CommitteeID, WeekNumber: 1, Title: "Kickoff", StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)},
	}}
	r := weekRouter(caller, weeks, &fakeExports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks?upcoming=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, weeks.upcoming)

	var list []dto.WeekResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Kickoff", list[0].Title)
	assert.Equal(t, "2026-03-02", list[0].StartDate)
}

func TestWeekController_ListWeeksInvalidUpcoming(t *testing.T) {
	r := weekRouter(testCaller(models.RoleMember), &fakeWeeks{}, &fakeExports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks?upcoming=soon", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, body.Error.Code)
	assert.Equal(t, "upcoming", body.Error.Field)
}

func TestWeekController_RequiresCaller(t *testing.T) {
	r := weekRouter(nil, &fakeWeeks{}, &fakeExports{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWeekController_CreateWeek(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"created", nil, http.StatusCreated},
		{"member forbidden", apperrors.NewForbiddenError("only admins can manage weeks"), http.StatusForbidden},
		{"bad dates", apperrors.NewFieldValidationError("endDate", "endDate must not be before startDate"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weeks := &fakeWeeks{err: tt.err}
			r := weekRouter(testCaller(models.RoleAdmin), weeks, &fakeExports{})

			body := `{"weekNumber":1,"title":"Kickoff","startDate":"2026-03-02","endDate":"2026-03-08"}`
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/weeks", strings.NewReader(body)))

			assert.Equal(t, tt.status, w.Code)
			if tt.err == nil {
				assert.Equal(t, "Kickoff", weeks.created.Title)
				assert.Equal(t, "2026-03-02", weeks.created.StartDate)
			}
		})
	}
}

func TestWeekController_ExportCalendar(t *testing.T) {
	exports := &fakeExports{export: &services.Export{
		Filename:    "STAR Web weeks.ics",
		ContentType: "text/calendar; charset=utf-8",
		Body:        bytes.NewBufferString("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
	}}
	r := weekRouter(testCaller(models.RoleMember), &fakeWeeks{}, exports)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks/calendar.ics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename*=UTF-8''STAR%20Web%20weeks.ics", w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR"))
}

func TestWeekController_ExportCalendarNotFound(t *testing.T) {
	exports := &fakeExports{err: apperrors.NewNotFoundError("committee not found")}
	r := weekRouter(testCaller(models.RoleMember), &fakeWeeks{}, exports)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks/calendar.ics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, decode(t, w).Error.Code)
}

type fakeDashboard struct {
	summary *dto.DashboardResponse
	rows    []dto.MemberAttendanceResponse
	err     error
}

func (f *fakeDashboard) Summary(context.Context, *models.Profile) (*dto.DashboardResponse, error) {
	return f.summary, f.err
}

func (f *fakeDashboard) CommitteeAttendance(context.Context, *models.Profile) ([]dto.MemberAttendanceResponse, error) {
	return f.rows, f.err
}

func TestDashboardController_CommitteeAttendanceForbidden(t *testing.T) {
	ctrl := NewDashboardController(&fakeDashboard{err: apperrors.NewForbiddenError("only admins can view committee attendance")}, zerolog.Nop())
	r := gin.New()
	r.GET("/dashboard/attendance", withCaller(testCaller(models.RoleMember)), ctrl.GetCommitteeAttendance)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/attendance", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decode(t, w).Error.Code)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

func TestHealthController(t *testing.T) {
	tests := []struct {
		name    string
		checks  map[string]Pinger
		status  int
		message string
	}{
		{"all up", map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{}}, http.StatusOK, "ok"},
		{"redis down", map[string]Pinger{"postgres": fakePinger{}, "redis": fakePinger{err: errors.New("dial tcp: connection refused")}}, http.StatusServiceUnavailable, "degraded"},
		{"nil check skipped", map[string]Pinger{"postgres": fakePinger{}, "redis": nil}, http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthController(tt.checks).Health)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status == http.StatusOK, body.Success)
		})
	}
}
