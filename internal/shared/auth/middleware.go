package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth.claims"

// RequireRole builds an echo middleware that accepts only access tokens carrying role.
func RequireRole(validator TokenValidator, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearerToken(c.Request())
			claims, err := validator.ValidateType(token, TokenTypeAccess)
			if err != nil {
				status := http.StatusUnauthorized
				message := "token inválido ou expirado"
				if errors.Is(err, ErrMissingToken) {
					message = "token de acesso ausente"
				}
				return echo.NewHTTPError(status, message).SetInternal(err)
			}
			if !claims.HasRole(role) {
				return echo.NewHTTPError(http.StatusForbidden, "acesso negado")
			}
			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by RequireRole.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
