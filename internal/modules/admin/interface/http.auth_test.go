package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservaMesa/internal/modules/admin/application/usecase"
	"reservaMesa/internal/modules/admin/domain"
	"reservaMesa/internal/shared/auth"
	"reservaMesa/internal/shared/httputil"
)

type staticAdmins struct {
	admin domain.Admin
}

func (s staticAdmins) FindByEmail(_ context.Context, email string) (domain.Admin, error) {
	if email == s.admin.Email {
		return s.admin, nil
	}
	return domain.Admin{}, domain.ErrAdminNotFound
}

func (s staticAdmins) FindByID(_ context.Context, id string) (domain.Admin, error) {
	if id == s.admin.ID {
		return s.admin, nil
	}
	return domain.Admin{}, domain.ErrAdminNotFound
}

func (staticAdmins) TouchLogin(context.Context, string, time.Time) error { return nil }

func newServer(t *testing.T, perMinute, burst int) *echo.Echo {
	t.Helper()
	hash, err := auth.HashPassword("s3nha-forte")
	require.NoError(t, err)
	repo := staticAdmins{admin: domain.Admin{ID: "a1", Email: "admin@restaurante.com", Name: "Admin", PasswordHash: hash, Active: true}}
	issuer, err := auth.NewIssuer("test-secret", "reserva-mesa", time.Minute, time.Hour)
	require.NoError(t, err)
	validator := auth.NewJWTValidator("test-secret", "reserva-mesa")

	e := echo.New()
	e.HTTPErrorHandler = httputil.HTTPErrorHandler
	NewAuthHandler(
		usecase.NewAuthenticateUseCase(repo, issuer),
		usecase.NewRefreshUseCase(repo, issuer, validator),
		httputil.RateLimitConfig{PerMinute: perMinute, Burst: burst},
	).RegisterRoutes(e.Group("/api/admin"))
	return e
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *httputil.ErrorBody `json:"error"`
}

func post(t *testing.T, e *echo.Echo, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestLoginAndRefresh(t *testing.T) {
	e := newServer(t, 60, 10)

	status, env := post(t, e, "/api/admin/auth", `{"email":"admin@restaurante.com","password":"s3nha-forte"}`)
	require.Equal(t, http.StatusOK, status)
	var session domain.Session
	require.NoError(t, json.Unmarshal(env.Data, &session))
	assert.Equal(t, "admin", session.User.Role)
	assert.Equal(t, []string{}, session.User.Permissions)

	status, env = post(t, e, "/api/admin/auth/refresh", `{"refreshToken":"`+session.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, status)
	var renewed domain.Session
	require.NoError(t, json.Unmarshal(env.Data, &renewed))
	assert.NotEmpty(t, renewed.AccessToken)

	status, env = post(t, e, "/api/admin/auth/refresh", `{"refreshToken":"`+session.AccessToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, httputil.CodeUnauthorized, env.Error.Code)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	e := newServer(t, 60, 10)

	status, unknown := post(t, e, "/api/admin/auth", `{"email":"x@restaurante.com","password":"s3nha-forte"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, wrong := post(t, e, "/api/admin/auth", `{"email":"admin@restaurante.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Email ou senha incorretos", unknown.Error.Message)
	assert.Equal(t, unknown.Error.Message, wrong.Error.Message)

	status, invalid := post(t, e, "/api/admin/auth", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "E-mail é obrigatório", invalid.Error.Fields["email"])
}

func TestLoginIsRateLimited(t *testing.T) {
	e := newServer(t, 1, 2)

	for i := 0; i < 2; i++ {
		status, _ := post(t, e, "/api/admin/auth", `{"email":"admin@restaurante.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	status, env := post(t, e, "/api/admin/auth", `{"email":"admin@restaurante.com","password":"s3nha-forte"}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, httputil.CodeRateLimited, env.Error.Code)
}

func TestLoginLimitCannotBeResetWithForwardedFor(t *testing.T) {
	e := newServer(t, 10, 1)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", strings.NewReader(`{"email":"admin@restaurante.com","password":"nope"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
