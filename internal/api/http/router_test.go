package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/api/http/handlers"
	"github.com/spec-kit/volunteer-service/internal/auth"
	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/observability"
	"github.com/spec-kit/volunteer-service/internal/ratelimit"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
	apperrors "github.com/spec-kit/volunteer-service/pkg/util/errorutil"
)

var fixedTime = time.Date(2026, 2, 1, 18, 30, 0, 0, time.UTC)

type stubVolunteers struct {
	catalog    *domain.Catalog
	items      map[int64]domain.Volunteer
	lastFilter repository.VolunteerFilter
	deleted    []int64
}

func (s *stubVolunteers) Catalog() *domain.Catalog { return s.catalog }

func (s *stubVolunteers) Signup(_ context.Context, in service.VolunteerInput) (*domain.Volunteer, error) {
	if in.Name == "" {
		return nil, apperrors.NewValidationError("invalid volunteer", map[string]any{"name": "name is required"})
	}
	v := domain.Volunteer{ID: 7, Name: in.Name, Phone: in.Phone, Email: in.Email, SignupDate: fixedTime, Ministries: in.Ministries}
	return &v, nil
}

func (s *stubVolunteers) List(_ context.Context, f repository.VolunteerFilter) ([]domain.Volunteer, error) {
	s.lastFilter = f
	out := make([]domain.Volunteer, 0, len(s.items))
	for _, v := range s.items {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubVolunteers) Get(_ context.Context, id int64) (*domain.Volunteer, error) {
	v, ok := s.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("volunteer", map[string]any{"id": id})
	}
	return &v, nil
}

func (s *stubVolunteers) Update(ctx context.Context, id int64, _ service.VolunteerInput) (*domain.Volunteer, error) {
	return s.Get(ctx, id)
}

func (s *stubVolunteers) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return apperrors.NewNotFound("volunteer", nil)
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubVolunteers) Export(_ context.Context, f repository.VolunteerFilter, w io.Writer) error {
	s.lastFilter = f
	_, err := io.WriteString(w, "ID,Name\n1,Ada\n")
	return err
}

func (s *stubVolunteers) AreaSummary(context.Context) ([]service.CategorySummary, error) {
	return []service.CategorySummary{{Category: "Media", Areas: []service.AreaSummary{{MinistryArea: "Social Media", Volunteers: 2}}}}, nil
}

type stubNotes struct{}

func (stubNotes) List(context.Context, int64) ([]domain.VolunteerNote, error) { return nil, nil }

func (stubNotes) Add(_ context.Context, author *domain.AdminUser, volunteerID int64, text string) (*domain.VolunteerNote, error) {
	return &domain.VolunteerNote{ID: 3, VolunteerID: volunteerID, AdminID: &author.ID, AdminEmail: &author.Email, NoteText: text, CreatedAt: fixedTime}, nil
}

func (stubNotes) Delete(_ context.Context, caller *domain.AdminUser, _, _ int64) error {
	if !caller.IsSuperAdmin {
		return apperrors.NewForbidden("only the author or the super admin can delete this note")
	}
	return nil
}

type stubAuth struct {
	resetRequests []string
}

func (s *stubAuth) Login(context.Context, string, string) (*domain.AdminUser, string, time.Time, error) {
	return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid email or password")
}

func (s *stubAuth) ChangePassword(context.Context, *domain.AdminUser, string, string) error { return nil }

func (s *stubAuth) RequestPasswordReset(_ context.Context, email string) error {
	s.resetRequests = append(s.resetRequests, email)
	return nil
}

func (s *stubAuth) ConfirmPasswordReset(context.Context, string, string) error {
	return apperrors.NewBadRequest("invalid or expired reset token")
}

type stubAdmins struct {
	byID map[int64]*domain.AdminUser
}

func (s stubAdmins) GetByID(_ context.Context, id int64) (*domain.AdminUser, error) {
	if a, ok := s.byID[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func (s stubAdmins) List(context.Context) ([]domain.AdminUser, error) {
	out := make([]domain.AdminUser, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (s stubAdmins) Create(_ context.Context, in service.AdminCreateInput) (*domain.AdminUser, error) {
	return &domain.AdminUser{ID: 99, Email: in.Email, IsActive: true, CreatedAt: fixedTime}, nil
}

func (s stubAdmins) Update(ctx context.Context, _ *domain.AdminUser, id int64, _ service.AdminUpdateInput) (*domain.AdminUser, error) {
	return s.GetByID(ctx, id)
}

func (s stubAdmins) TransferSuperAdmin(ctx context.Context, _ *domain.AdminUser, id int64) (*domain.AdminUser, error) {
	return s.GetByID(ctx, id)
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	app        *fiber.App
	volunteers *stubVolunteers
	auth       *stubAuth
	tokens     *auth.TokenManager
	super      *domain.AdminUser
	regular    *domain.AdminUser
}

func newTestEnv(t *testing.T, limiter IPLimiter) *testEnv {
	t.Helper()
	return newTestEnvWithApp(t, config.AppConfig{Name: "CPBC Volunteer App API"}, limiter)
}

func newTestEnvWithApp(t *testing.T, appCfg config.AppConfig, limiter IPLimiter) *testEnv {
	t.Helper()

	super := &domain.AdminUser{ID: 1, Email: "pastor@example.org", IsActive: true, IsSuperAdmin: true}
	regular := &domain.AdminUser{ID: 2, Email: "helper@example.org", IsActive: true}
	admins := stubAdmins{byID: map[int64]*domain.AdminUser{1: super, 2: regular}}
	volunteers := &stubVolunteers{
		catalog: domain.DefaultCatalog(),
		items:   map[int64]domain.Volunteer{1: {ID: 1, Name: "Ada", Email: "ada@example.org", SignupDate: fixedTime}},
	}
	authSvc := &stubAuth{}
	tokens := auth.NewTokenManager("test-secret", 60, nil)
	metrics := observability.NewMetrics()

	app := NewApp(appCfg)
	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:         zap.NewNop(),
		Metrics:        metrics,
		Timeout:        5 * time.Second,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("CPBC Volunteer App API", "test", map[string]handlers.Pinger{"postgres": failingPinger{}}),
		Public:         handlers.NewPublicHandler(volunteers),
		Auth:           handlers.NewAuthHandler(authSvc),
		Volunteers:     handlers.NewVolunteersHandler(volunteers),
		Notes:          handlers.NewNotesHandler(stubNotes{}),
		AdminUsers:     handlers.NewAdminUsersHandler(admins),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, admins).Handle,
		SignupLimiter:  limiter,
		Metrics:        metrics,
	})

	return &testEnv{app: app, volunteers: volunteers, auth: authSvc, tokens: tokens, super: super, regular: regular}
}

func (e *testEnv) do(t *testing.T, method, target, body string, as *domain.AdminUser) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		token, _, err := e.tokens.GenerateToken(as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload), string(body))
	return payload.Error.Code
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"CPBC Volunteer App API","status":"healthy"}`, string(body))

	resp, body = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))

	resp, body = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(t, body))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodGet, "/health", "", nil)

	resp, body := env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "volunteer_signups_total")
	assert.Contains(t, string(body), "http_requests_total")
}

func TestPublicSignup(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/ministry-areas", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var catalog struct {
		Data struct {
			Categories []struct {
				Name  string   `json:"name"`
				Areas []string `json:"areas"`
			} `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &catalog))
	require.Len(t, catalog.Data.Categories, 8)
	assert.Equal(t, "Children's Ministry", catalog.Data.Categories[0].Name)

	resp, body = env.do(t, http.MethodPost, "/api/volunteers",
		`{"name":"Grace","phone":"555-123-4567","email":"grace@example.org","ministries":[{"category":"Media","ministry_area":"Social Media"}]}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"ministry_area":"Social Media"`)

	resp, body = env.do(t, http.MethodPost, "/api/volunteers", `{"name":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))
	assert.Contains(t, string(body), `"name":"name is required"`)

	resp, body = env.do(t, http.MethodPost, "/api/volunteers", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, body))
}

func TestPublicSignup_RateLimited(t *testing.T) {
	env := newTestEnv(t, denyAll{})

	resp, body := env.do(t, http.MethodPost, "/api/volunteers", `{"name":"Grace"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, body))

	resp, _ = env.do(t, http.MethodGet, "/api/ministry-areas", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func signupFrom(t *testing.T, env *testEnv, forwardedFor string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/volunteers", strings.NewReader(`{"name":"Grace"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestPublicSignup_ForwardedForIgnoredFromUntrustedPeer(t *testing.T) {
	env := newTestEnv(t, ratelimit.NewIPLimiter(1, 1, clockwork.NewFakeClock()))

	assert.Equal(t, http.StatusCreated, signupFrom(t, env, "1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, signupFrom(t, env, "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, signupFrom(t, env, "3.3.3.3"))
}

func TestPublicSignup_ForwardedForHonouredFromTrustedProxy(t *testing.T) {
	appCfg := config.AppConfig{Name: "CPBC Volunteer App API", TrustedProxies: []string{"0.0.0.0/0"}}
	env := newTestEnvWithApp(t, appCfg, ratelimit.NewIPLimiter(1, 1, clockwork.NewFakeClock()))

	assert.Equal(t, http.StatusCreated, signupFrom(t, env, "1.1.1.1"))
	assert.Equal(t, http.StatusCreated, signupFrom(t, env, "2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, signupFrom(t, env, "1.1.1.1"))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, target := range []string{"/api/admin/me", "/api/admin/volunteers", "/api/admin/reports/export", "/api/admin/users"} {
		resp, body := env.do(t, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"), target)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, body), target)
	}

	inactive := &domain.AdminUser{ID: 3, Email: "gone@example.org"}
	resp, _ := env.do(t, http.MethodGet, "/api/admin/me", "", inactive)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodPost, "/api/admin/login", `{"email":"x@example.org","password":"wrong-password"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid email or password")

	resp, _ = env.do(t, http.MethodPost, "/api/admin/login", `{"email":"","password":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/admin/me", "", env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"email":"helper@example.org"`)
	assert.NotContains(t, string(body), "password")

	resp, _ = env.do(t, http.MethodPost, "/api/admin/password/reset/request", `{"email":"nobody@example.org"}`, nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []string{"nobody@example.org"}, env.auth.resetRequests)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/password/reset/confirm", `{"token":"stale","new_password":"longenough"}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/password/change", `{"current_password":"old-one","new_password":"new-one-123"}`, env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVolunteerAdminRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/admin/volunteers?ministry_area=Greeters&category=Media&search=ada&sort_by=name", "", env.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"total":1`)
	require.NotNil(t, env.volunteers.lastFilter.MinistryArea)
	assert.Equal(t, "Greeters", *env.volunteers.lastFilter.MinistryArea)
	assert.Equal(t, "Media", *env.volunteers.lastFilter.Category)
	assert.Equal(t, "ada", *env.volunteers.lastFilter.Search)
	assert.Equal(t, domain.SortByName, env.volunteers.lastFilter.SortBy)

	resp, _ = env.do(t, http.MethodGet, "/api/admin/volunteers?sort_by=bogus", "", env.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, env.volunteers.lastFilter.MinistryArea)
	assert.Equal(t, domain.SortByDate, env.volunteers.lastFilter.SortBy)

	resp, body = env.do(t, http.MethodGet, "/api/admin/volunteers/abc", "", env.regular)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, "/api/admin/volunteers/999", "", env.regular)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	resp, _ = env.do(t, http.MethodPut, "/api/admin/volunteers/1", `{"name":"Ada L","phone":"5551234567","email":"ada@example.org","ministries":[]}`, env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodDelete, "/api/admin/volunteers/1", "", env.regular)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, []int64{1}, env.volunteers.deleted)

	resp, body = env.do(t, http.MethodGet, "/api/admin/ministry-areas/summary", "", env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":{"categories":[{"category":"Media","areas":[{"ministry_area":"Social Media","volunteers":2}]}]}}`, string(body))
}

func TestExportRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/admin/reports/export?category=Media", "", env.regular)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=volunteers_export.csv", resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "ID,Name\n1,Ada\n", string(body))
	assert.Equal(t, "Media", *env.volunteers.lastFilter.Category)
}

func TestNoteRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodPost, "/api/admin/volunteers/1/notes", `{"note_text":"Called back"}`, env.regular)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(body), `"admin_email":"helper@example.org"`)

	resp, body = env.do(t, http.MethodGet, "/api/admin/volunteers/1/notes", "", env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[]}`, string(body))

	resp, _ = env.do(t, http.MethodDelete, "/api/admin/volunteers/1/notes/3", "", env.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/admin/volunteers/1/notes/3", "", env.super)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdminUserRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/admin/users", "", env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"total":2`)

	resp, body = env.do(t, http.MethodPost, "/api/admin/users", `{"email":"new@example.org","password":"longenough"}`, env.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, _ = env.do(t, http.MethodPost, "/api/admin/users", `{"email":"new@example.org","password":"longenough"}`, env.super)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, "/api/admin/users/2", `{"name":"Helper"}`, env.regular)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/users/2/transfer-super-admin", "", env.regular)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/admin/users/2/transfer-super-admin", "", env.super)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"id":2`)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/volunteers", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestToDomainError(t *testing.T) {
	de := toDomainError(fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, "METHOD_NOT_ALLOWED", de.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)

	de = toDomainError(pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = toDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
}
