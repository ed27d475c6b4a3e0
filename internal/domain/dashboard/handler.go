package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Summary)
	g.GET("/dashboard/visits", h.VisitsOnDate)
}

func (h *Handler) Summary(c echo.Context) error {
	summary, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) VisitsOnDate(c echo.Context) error {
	visits, err := h.service.VisitsOnDate(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if visits == nil {
		visits = []VisitStatus{}
	}
	return c.JSON(http.StatusOK, visits)
}
