package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) VisitCountOnDate(ctx context.Context, date string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE visit_date = $1`, date).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count visits on date: %w", err)
	}
	return n, nil
}

func (r *PGRepository) PatientCount(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func (r *PGRepository) PendingPharmacyCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE pharmacy_status = 'Pending'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending pharmacy: %w", err)
	}
	return n, nil
}

func (r *PGRepository) VisitsOnDate(ctx context.Context, date string) ([]VisitStatus, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, status FROM visits WHERE visit_date = $1 ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("visits on date: %w", err)
	}
	defer rows.Close()

	var out []VisitStatus
	for rows.Next() {
		var vs VisitStatus
		if err := rows.Scan(&vs.ID, &vs.Status); err != nil {
			return nil, fmt.Errorf("scan visit status: %w", err)
		}
		out = append(out, vs)
	}
	return out, rows.Err()
}
