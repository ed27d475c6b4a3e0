package patient

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const patientColumns = `id, full_name, COALESCE(dob, ''), COALESCE(gender, ''),
	COALESCE(address, ''), COALESCE(phone, ''), created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FullName, &p.DOB, &p.Gender, &p.Address, &p.Phone, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows) ([]Patient, error) {
	defer rows.Close()
	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

func (r *PGRepository) Create(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (full_name, dob, gender, address, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		p.FullName, p.DOB, p.Gender, p.Address, p.Phone, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PGRepository) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients
		SET full_name = $1, dob = $2, gender = $3, address = $4, phone = $5
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		p.FullName, p.DOB, p.Gender, p.Address, p.Phone, p.ID)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient", p.ID)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1`, patientColumns)

	p, err := scanPatient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient", id)
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// List returns patients newest-first along with the total registry size.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM patients
		ORDER BY id DESC
		LIMIT $1 OFFSET $2`, patientColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	patients, err := collectPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

// Search matches the term as a substring of name, address, or date of birth.
// A numeric term additionally matches the patient id exactly.
func (r *PGRepository) Search(ctx context.Context, term string) ([]Patient, error) {
	pattern := "%" + term + "%"
	args := []any{pattern}
	idClause := ""
	if id, err := strconv.ParseInt(term, 10, 64); err == nil {
		idClause = " OR id = $2"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM patients
		WHERE full_name ILIKE $1 OR address ILIKE $1 OR dob ILIKE $1%s
		ORDER BY id DESC`, patientColumns, idClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return collectPatients(rows)
}

func (r *PGRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient: %w", err)
	}
	return exists, nil
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}
