package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	models "FlowShift/internal/domain/models"
	"FlowShift/internal/usecase"
	xhttp "FlowShift/pkg/http"
)

// DashboardHandler serves the session-less dashboard panels.
type DashboardHandler struct {
	dash *usecase.Dashboard
}

func NewDashboardHandler(dash *usecase.Dashboard) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/instruments", h.Instruments)
	g.GET("/series", h.Series)
	g.GET("/quotes", h.Quotes)
	g.GET("/source", h.Source)
	g.GET("/trades", h.Trades)
	g.GET("/terminal", h.Terminal)
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DashboardHandler) Instruments(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Instruments())
}

type seriesResponse struct {
	Symbol string              `json:"symbol"`
	Points []models.PricePoint `json:"points"`
}

func (h *DashboardHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol, points := h.dash.Series(req.Symbol)
	return xhttp.SuccessResponse(c, seriesResponse{Symbol: symbol, Points: points})
}

func (h *DashboardHandler) Quotes(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.Views(h.dash.Quotes()))
}

func (h *DashboardHandler) Source(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Source())
}

func (h *DashboardHandler) Trades(c echo.Context) error {
	trades := h.dash.Trades()
	return xhttp.ListResponse(c, trades, int64(len(trades)))
}

func (h *DashboardHandler) Terminal(c echo.Context) error {
	req := &models.TerminalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.dash.Terminal(req.Limit))
}
