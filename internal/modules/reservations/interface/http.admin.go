package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"reservaMesa/internal/modules/reservations/application/usecase"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/shared/auth"
	"reservaMesa/internal/shared/httputil"
)

// AdminHandler serves the back office listing; routes must sit behind auth.RequireRole.
type AdminHandler struct {
	list   *usecase.ListReservationsUseCase
	mapper *httputil.ErrorMapper
}

func NewAdminHandler(list *usecase.ListReservationsUseCase) *AdminHandler {
	return &AdminHandler{list: list, mapper: newErrorMapper()}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reservations", h.List)
	g.GET("/reservations/:id", h.Get)
}

func (h *AdminHandler) List(c echo.Context) error {
	query := domain.ParseListQuery(c.QueryParam("page"), c.QueryParam("limit"), c.QueryParam("status"), c.QueryParam("date"))
	list, err := h.list.Execute(c.Request().Context(), query)
	if err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	if claims, ok := auth.ClaimsFromContext(c); ok {
		slog.Debug("admin listed reservations", slog.String("admin", claims.Email), slog.Int("total", list.Total))
	}
	return httputil.OK(c, http.StatusOK, list)
}

func (h *AdminHandler) Get(c echo.Context) error {
	reservation, err := h.list.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	return httputil.OK(c, http.StatusOK, reservation)
}
