package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"reservaMesa/internal/modules/admin/application/usecase"
	"reservaMesa/internal/modules/admin/domain"
	"reservaMesa/internal/shared/auth"
	"reservaMesa/internal/shared/httputil"
)

type AuthHandler struct {
	login   *usecase.AuthenticateUseCase
	refresh *usecase.RefreshUseCase
	limiter echo.MiddlewareFunc
	mapper  *httputil.ErrorMapper
}

func NewAuthHandler(login *usecase.AuthenticateUseCase, refresh *usecase.RefreshUseCase, limit httputil.RateLimitConfig) *AuthHandler {
	return &AuthHandler{
		login:   login,
		refresh: refresh,
		limiter: httputil.RateLimit(limit),
		mapper: httputil.NewErrorMapper().
			WithMapping(domain.ErrInvalidCredentials, http.StatusUnauthorized, httputil.CodeUnauthorized, "Email ou senha incorretos").
			WithMapping(domain.ErrAdminDisabled, http.StatusForbidden, httputil.CodeForbidden, "conta desativada").
			WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, httputil.CodeUnauthorized, "refresh token ausente").
			WithMapping(auth.ErrWrongTokenType, http.StatusUnauthorized, httputil.CodeUnauthorized, "token inválido ou expirado").
			WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, httputil.CodeUnauthorized, "token inválido ou expirado"),
	}
}

// RegisterRoutes mounts /auth and /auth/refresh; both share the per IP login limiter.
func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	limited := g.Group("", h.limiter)
	limited.POST("/auth", h.Login)
	limited.POST("/auth/refresh", h.Refresh)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "corpo da requisição inválido", Code: httputil.CodeValidation})
	}
	session, err := h.login.Execute(c.Request().Context(), req)
	if err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	return httputil.OK(c, http.StatusOK, session)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req domain.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "corpo da requisição inválido", Code: httputil.CodeValidation})
	}
	session, err := h.refresh.Execute(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	return httputil.OK(c, http.StatusOK, session)
}
