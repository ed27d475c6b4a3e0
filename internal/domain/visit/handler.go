package visit

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/platform/apperr"
	"github.com/booleanbros/clinic/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the visit workflow. Check-in and record edits belong
// to the desk, status saves to doctors, the dispensing queue to pharmacists.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	desk := auth.RequireRole(auth.RoleReceptionist)
	clinical := auth.RequireRole(auth.RoleDoctor)
	dispensing := auth.RequireRole(auth.RolePharmacist)

	g.POST("/visits", h.Create, desk)
	g.PUT("/visits/:id", h.Update, desk)
	g.PATCH("/visits/:id/status", h.UpdateStatus, clinical)
	g.PATCH("/visits/:id/pharmacy", h.UpdatePharmacyStatus, dispensing)
	g.GET("/visits/pharmacy-queue", h.PharmacyQueue, dispensing)
	g.GET("/visits/:id", h.Get)
	g.GET("/patients/:id/visits", h.ByPatient)
	g.GET("/doctors/:id/visits", h.ByDoctor, clinical)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var upd StatusUpdate
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.service.UpdateStatus(c.Request().Context(), id, upd)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, v)
}

type pharmacyUpdateRequest struct {
	PharmacyStatus string `json:"pharmacy_status"`
}

func (h *Handler) UpdatePharmacyStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req pharmacyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v, err := h.service.UpdatePharmacyStatus(c.Request().Context(), id, req.PharmacyStatus)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ByPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var visits []Visit
	if daysParam := c.QueryParam("days"); daysParam != "" {
		days, convErr := strconv.Atoi(daysParam)
		if convErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		visits, err = h.service.ByPatientWindow(ctx, id, days)
	} else {
		visits, err = h.service.ByPatient(ctx, id)
	}
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if visits == nil {
		visits = []Visit{}
	}
	return c.JSON(http.StatusOK, visits)
}

func (h *Handler) ByDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	visits, err := h.service.ByDoctor(c.Request().Context(), id)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if visits == nil {
		visits = []Visit{}
	}
	return c.JSON(http.StatusOK, visits)
}

func (h *Handler) PharmacyQueue(c echo.Context) error {
	visits, err := h.service.PharmacyQueue(c.Request().Context())
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if visits == nil {
		visits = []Visit{}
	}
	return c.JSON(http.StatusOK, visits)
}
