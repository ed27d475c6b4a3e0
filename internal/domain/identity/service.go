package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/booleanbros/clinic/internal/platform/apperr"
	"github.com/booleanbros/clinic/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate verifies a mobile/secret pair. Unknown mobiles and wrong
// secrets fail identically so callers cannot probe which mobiles exist.
func (s *Service) Authenticate(ctx context.Context, mobile, secret string) (*User, error) {
	if mobile == "" || secret == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	u, err := s.repo.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	hash := HashSecret(secret)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(u.PasswordHash)) != 1 {
		return nil, apperr.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]UserSummary, error) {
	switch role {
	case auth.RoleReceptionist, auth.RoleDoctor, auth.RolePharmacist:
	default:
		return nil, apperr.Validation("role", "must be one of receptionist, doctor, pharmacist")
	}
	return s.repo.ListByRole(ctx, role)
}

// Create provisions a staff account. Used by the seed command; there is no
// HTTP registration endpoint.
func (s *Service) Create(ctx context.Context, name, mobile, secret, role string) (*User, error) {
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}
	if mobile == "" {
		return nil, apperr.Validation("mobile", "is required")
	}
	if secret == "" {
		return nil, apperr.Validation("password", "is required")
	}
	switch role {
	case auth.RoleReceptionist, auth.RoleDoctor, auth.RolePharmacist:
	default:
		return nil, apperr.Validation("role", "must be one of receptionist, doctor, pharmacist")
	}

	u := &User{
		Name:         name,
		Mobile:       mobile,
		PasswordHash: HashSecret(secret),
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
