package worklist

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/domain/visit"
	"github.com/booleanbros/clinic/internal/platform/apperr"
	"github.com/booleanbros/clinic/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/worklist/search", h.Search)
}

// Search derives the scope from the operator's role: pharmacists see only
// their queue, everyone else searches all visits.
func (h *Handler) Search(c echo.Context) error {
	scope := ScopeAll
	if auth.RoleFromContext(c.Request().Context()) == auth.RolePharmacist {
		scope = ScopePharmacy
	}

	visits, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), scope)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if visits == nil {
		visits = []visit.Visit{}
	}
	return c.JSON(http.StatusOK, visits)
}
