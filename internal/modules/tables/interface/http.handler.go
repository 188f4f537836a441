package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"reservaMesa/internal/modules/tables/domain"
	"reservaMesa/internal/shared/httputil"
)

type tableView struct {
	domain.Table
	AreaName string `json:"areaName"`
}

type inventoryResponse struct {
	Tables          []tableView   `json:"tables"`
	Areas           []domain.Area `json:"areas"`
	TotalTables     int           `json:"totalTables"`
	TotalCapacity   int           `json:"totalCapacity"`
	DefaultCapacity int           `json:"defaultCapacity"`
}

type allocationResponse struct {
	People       int  `json:"people"`
	TablesNeeded int  `json:"tablesNeeded"`
	Seats        int  `json:"seats"`
	Fits         bool `json:"fits"`
}

// Handler exposes the read-only table inventory.
type Handler struct {
	inventory *domain.Inventory
	mapper    *httputil.ErrorMapper
}

func NewHandler(inventory *domain.Inventory) *Handler {
	return &Handler{
		inventory: inventory,
		mapper: httputil.NewErrorMapper().
			WithMapping(domain.ErrTableNotFound, http.StatusNotFound, httputil.CodeNotFound, "mesa não encontrada"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/tables", h.List)
	g.GET("/tables/allocation", h.Allocation)
	g.GET("/tables/:number", h.Get)
}

// List serves GET /api/tables; ?area= narrows the listing, totals always cover the whole room.
func (h *Handler) List(c echo.Context) error {
	tables := h.inventory.Tables()
	if raw := strings.TrimSpace(c.QueryParam("area")); raw != "" {
		tables = h.inventory.ByArea(domain.NormalizeArea(raw))
	}
	views := make([]tableView, 0, len(tables))
	for _, table := range tables {
		views = append(views, tableView{Table: table, AreaName: table.Area.DisplayName()})
	}
	return httputil.OK(c, http.StatusOK, inventoryResponse{
		Tables:          views,
		Areas:           h.inventory.Areas(),
		TotalTables:     h.inventory.TotalTables(),
		TotalCapacity:   h.inventory.TotalCapacity(),
		DefaultCapacity: h.inventory.DefaultCapacity(),
	})
}

func (h *Handler) Get(c echo.Context) error {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "número de mesa inválido", Code: httputil.CodeValidation, Field: "number"})
	}
	if _, err := h.inventory.LookupCapacity(number); err != nil {
		return httputil.FailWith(c, h.mapper, err)
	}
	table, _ := h.inventory.ByNumber(number)
	return httputil.OK(c, http.StatusOK, tableView{Table: table, AreaName: table.Area.DisplayName()})
}

// Allocation serves GET /api/tables/allocation?people=N.
func (h *Handler) Allocation(c echo.Context) error {
	people, err := strconv.Atoi(strings.TrimSpace(c.QueryParam("people")))
	if err != nil || people < 1 {
		return httputil.Fail(c, http.StatusBadRequest, httputil.ErrorBody{Message: "Mínimo 1 pessoa", Code: httputil.CodeValidation, Field: "people"})
	}
	needed := h.inventory.TablesNeeded(people)
	return httputil.OK(c, http.StatusOK, allocationResponse{
		People:       people,
		TablesNeeded: needed,
		Seats:        needed * h.inventory.DefaultCapacity(),
		Fits:         h.inventory.Fits(people, 0),
	})
}
