package patient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/platform/apperr"
	"github.com/booleanbros/clinic/internal/platform/auth"
	"github.com/booleanbros/clinic/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the patient registry endpoints. Registration and
// edits are desk work; reads are open to all staff.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	desk := auth.RequireRole(auth.RoleReceptionist)
	g.POST("/patients", h.Create, desk)
	g.PUT("/patients/:id", h.Update, desk)
	g.GET("/patients", h.List)
	g.GET("/patients/search", h.Search)
	g.GET("/patients/:id", h.Get)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	p, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	patients, total, err := h.service.List(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if patients == nil {
		patients = []Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, params.Limit, params.Offset))
}

func (h *Handler) Search(c echo.Context) error {
	patients, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if patients == nil {
		patients = []Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}
