package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booleanbros/clinic/internal/platform/apperr"
	"github.com/booleanbros/clinic/internal/platform/auth"
)

type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, name, mobile, password_hash, role`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Mobile, &u.PasswordHash, &u.Role)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, mobile, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, u.Name, u.Mobile, u.PasswordHash, u.Role).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("users.mobile")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PGRepository) GetByMobile(ctx context.Context, mobile string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE mobile = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, mobile))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get user by mobile: %w", err)
	}
	return u, nil
}

func (r *PGRepository) ListByRole(ctx context.Context, role string) ([]UserSummary, error) {
	query := `SELECT id, name, mobile FROM users WHERE role = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var users []UserSummary
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Mobile); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PGRepository) IsDoctor(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND role = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id, auth.RoleDoctor).Scan(&exists); err != nil {
		return false, fmt.Errorf("check doctor: %w", err)
	}
	return exists, nil
}

func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
