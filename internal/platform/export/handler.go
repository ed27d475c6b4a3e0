package export

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/domain/patient"
	"github.com/booleanbros/clinic/internal/domain/visit"
	"github.com/booleanbros/clinic/internal/platform/apperr"
)

// PatientReader and VisitReader are the store slices the exporters read.
type PatientReader interface {
	Get(ctx context.Context, id int64) (*patient.Patient, error)
}

type VisitReader interface {
	ByPatient(ctx context.Context, patientID int64) ([]visit.Visit, error)
}

type Handler struct {
	patients PatientReader
	visits   VisitReader
	now      func() time.Time
}

func NewHandler(patients PatientReader, visits VisitReader) *Handler {
	return &Handler{patients: patients, visits: visits, now: time.Now}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients/:id/snapshot", h.Snapshot)
	g.GET("/patients/:id/report", h.Report)
}

func (h *Handler) load(c echo.Context) (*patient.Patient, []visit.Visit, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()
	p, err := h.patients.Get(ctx, id)
	if err != nil {
		return nil, nil, apperr.ToHTTP(err)
	}
	visits, err := h.visits.ByPatient(ctx, id)
	if err != nil {
		return nil, nil, apperr.ToHTTP(err)
	}
	return p, visits, nil
}

// Snapshot serves the plain-text block the QR encoder consumes.
func (h *Handler) Snapshot(c echo.Context) error {
	p, visits, err := h.load(c)
	if err != nil {
		return err
	}
	return c.String(http.StatusOK, SnapshotText(p, visits, h.now()))
}

// Report serves the record set the PDF renderer lays out.
func (h *Handler) Report(c echo.Context) error {
	p, visits, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReportData(p, visits, h.now()))
}
