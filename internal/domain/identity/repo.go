package identity

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByMobile(ctx context.Context, mobile string) (*User, error)
	ListByRole(ctx context.Context, role string) ([]UserSummary, error)
	IsDoctor(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}
