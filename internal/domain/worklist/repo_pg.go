package worklist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booleanbros/clinic/internal/domain/visit"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const searchColumns = `v.id, v.patient_id, v.doctor_id, v.visit_date,
	COALESCE(v.time_in, ''), COALESCE(v.time_out, ''), v.service, v.status,
	COALESCE(v.notes, ''), v.vitals, v.pharmacy_status,
	COALESCE(v.pharmacy_instructions, ''),
	p.full_name AS patient_name, COALESCE(u.name, '') AS doctor_name`

// The doctor join is LEFT so unassigned visits stay searchable.
const searchFrom = `FROM visits v
	JOIN patients p ON p.id = v.patient_id
	LEFT JOIN users u ON u.id = v.doctor_id`

func (r *PGRepository) Search(ctx context.Context, term, scope string) ([]visit.Visit, error) {
	term = strings.TrimSpace(term)

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if scope == ScopePharmacy {
		where = append(where, fmt.Sprintf(
			"(v.pharmacy_status = %s OR v.status = %s)",
			arg(visit.PharmacyPending), arg(visit.StatusVisitPharmacy)))
	}

	if term != "" {
		pattern := arg("%" + term + "%")
		fields := []string{
			"p.full_name ILIKE " + pattern,
			"v.service ILIKE " + pattern,
			"COALESCE(v.pharmacy_instructions, '') ILIKE " + pattern,
		}
		if scope == ScopeAll {
			fields = append(fields, "COALESCE(v.notes, '') ILIKE "+pattern)
		}
		if id, err := strconv.ParseInt(term, 10, 64); err == nil {
			p := arg(id)
			fields = append(fields, "v.id = "+p, "v.patient_id = "+p)
		}
		where = append(where, "("+strings.Join(fields, " OR ")+")")
	}

	query := fmt.Sprintf("SELECT %s %s", searchColumns, searchFrom)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY v.visit_date DESC, v.time_in DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("worklist search: %w", err)
	}
	defer rows.Close()

	var visits []visit.Visit
	for rows.Next() {
		var v visit.Visit
		err := rows.Scan(&v.ID, &v.PatientID, &v.DoctorID, &v.VisitDate,
			&v.TimeIn, &v.TimeOut, &v.Service, &v.Status,
			&v.Notes, &v.Vitals, &v.PharmacyStatus, &v.PharmacyInstructions,
			&v.PatientName, &v.DoctorName)
		if err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
