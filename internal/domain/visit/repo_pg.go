package visit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// visitColumns joins the patient and the optionally assigned doctor so every
// read carries display names.
const visitColumns = `v.id, v.patient_id, v.doctor_id, v.visit_date,
	COALESCE(v.time_in, ''), COALESCE(v.time_out, ''), v.service, v.status,
	COALESCE(v.notes, ''), v.vitals, v.pharmacy_status,
	COALESCE(v.pharmacy_instructions, ''),
	p.full_name AS patient_name, COALESCE(u.name, '') AS doctor_name`

const visitFrom = `FROM visits v
	JOIN patients p ON p.id = v.patient_id
	LEFT JOIN users u ON u.id = v.doctor_id`

const visitOrder = `ORDER BY v.visit_date DESC, v.time_in DESC`

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.VisitDate,
		&v.TimeIn, &v.TimeOut, &v.Service, &v.Status,
		&v.Notes, &v.Vitals, &v.PharmacyStatus, &v.PharmacyInstructions,
		&v.PatientName, &v.DoctorName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVisits(rows pgx.Rows) ([]Visit, error) {
	defer rows.Close()
	var visits []Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		visits = append(visits, *v)
	}
	return visits, rows.Err()
}

// The insert/update statements and their argument builders live side by
// side so the bindings can be checked against each other in tests.
const insertVisitQuery = `
	INSERT INTO visits (patient_id, doctor_id, visit_date, time_in, time_out,
		service, status, notes, vitals, pharmacy_status, pharmacy_instructions)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id`

func insertVisitArgs(v *Visit) []any {
	return []any{v.PatientID, v.DoctorID, v.VisitDate, v.TimeIn, v.TimeOut,
		v.Service, v.Status, v.Notes, v.Vitals, v.PharmacyStatus,
		v.PharmacyInstructions}
}

const updateVisitQuery = `
	UPDATE visits
	SET patient_id = $1, doctor_id = $2, visit_date = $3, time_in = $4,
		time_out = $5, service = $6, status = $7, notes = $8, vitals = $9,
		pharmacy_instructions = $10
	WHERE id = $11`

func updateVisitArgs(v *Visit) []any {
	return []any{v.PatientID, v.DoctorID, v.VisitDate, v.TimeIn, v.TimeOut,
		v.Service, v.Status, v.Notes, v.Vitals, v.PharmacyInstructions, v.ID}
}

func (r *PGRepository) Create(ctx context.Context, v *Visit) error {
	err := r.pool.QueryRow(ctx, insertVisitQuery, insertVisitArgs(v)...).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}

// Update replaces the clinical fields. pharmacy_status is owned by the
// pharmacy path and is deliberately absent here.
func (r *PGRepository) Update(ctx context.Context, v *Visit) error {
	tag, err := r.pool.Exec(ctx, updateVisitQuery, updateVisitArgs(v)...)
	if err != nil {
		return fmt.Errorf("update visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("visit", v.ID)
	}
	return nil
}

// UpdateStatus writes only the fields the update carries.
func (r *PGRepository) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) error {
	sets := []string{"status = $1"}
	args := []any{upd.Status}
	next := 2

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}
	if upd.Notes != nil {
		appendSet("notes", *upd.Notes)
	}
	if upd.Instructions != nil {
		appendSet("pharmacy_instructions", *upd.Instructions)
	}
	if upd.Vitals != nil {
		appendSet("vitals", upd.Vitals)
	}
	if upd.DoctorID != nil {
		appendSet("doctor_id", *upd.DoctorID)
	}
	if upd.Status == StatusVisitPharmacy {
		appendSet("pharmacy_status", PharmacyPending)
	}

	query := fmt.Sprintf("UPDATE visits SET %s WHERE id = $%d",
		joinSets(sets), next)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update visit status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("visit", id)
	}
	return nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

// UpdatePharmacy rewrites the pharmacy sub-state. Completion additionally
// stamps the checkout time and closes the visit.
func (r *PGRepository) UpdatePharmacy(ctx context.Context, id int64, status, timeOut string, forceDone bool) error {
	var tag pgconn.CommandTag
	var err error
	if forceDone {
		tag, err = r.pool.Exec(ctx, `
			UPDATE visits
			SET pharmacy_status = $1, time_out = $2, status = $3
			WHERE id = $4`, status, timeOut, StatusDone, id)
	} else {
		tag, err = r.pool.Exec(ctx, `
			UPDATE visits SET pharmacy_status = $1 WHERE id = $2`, status, id)
	}
	if err != nil {
		return fmt.Errorf("update pharmacy status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("visit", id)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Visit, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE v.id = $1`, visitColumns, visitFrom)

	v, err := scanVisit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("visit", id)
		}
		return nil, fmt.Errorf("get visit: %w", err)
	}
	return v, nil
}

func (r *PGRepository) ByPatient(ctx context.Context, patientID int64) ([]Visit, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE v.patient_id = $1 %s`,
		visitColumns, visitFrom, visitOrder)

	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("visits by patient: %w", err)
	}
	return collectVisits(rows)
}

func (r *PGRepository) ByPatientWindow(ctx context.Context, patientID int64, from, to string) ([]Visit, error) {
	query := fmt.Sprintf(`SELECT %s %s
		WHERE v.patient_id = $1 AND v.visit_date >= $2 AND v.visit_date <= $3
		%s`, visitColumns, visitFrom, visitOrder)

	rows, err := r.pool.Query(ctx, query, patientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("visits in window: %w", err)
	}
	return collectVisits(rows)
}

func (r *PGRepository) ByDoctor(ctx context.Context, doctorID int64) ([]Visit, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE v.doctor_id = $1 %s`,
		visitColumns, visitFrom, visitOrder)

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("visits by doctor: %w", err)
	}
	return collectVisits(rows)
}

// PharmacyQueue keeps freshly routed visits visible even if their sub-state
// was rewound, and pending ones visible after the visit status moved on.
func (r *PGRepository) PharmacyQueue(ctx context.Context) ([]Visit, error) {
	query := fmt.Sprintf(`SELECT %s %s
		WHERE v.pharmacy_status = $1 OR v.status = $2
		%s`, visitColumns, visitFrom, visitOrder)

	rows, err := r.pool.Query(ctx, query, PharmacyPending, StatusVisitPharmacy)
	if err != nil {
		return nil, fmt.Errorf("pharmacy queue: %w", err)
	}
	return collectVisits(rows)
}
