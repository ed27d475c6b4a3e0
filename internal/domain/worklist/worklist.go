// Package worklist serves the cross-store search boxes: the desk and the
// doctors search every visit, the pharmacy searches only its queue.
package worklist

import (
	"context"

	"github.com/booleanbros/clinic/internal/domain/visit"
	"github.com/booleanbros/clinic/internal/platform/apperr"
)

// Search scopes. The pharmacy scope restricts results to the dispensing
// queue and does not match on doctor notes.
const (
	ScopeAll      = "all"
	ScopePharmacy = "pharmacy"
)

type Repository interface {
	Search(ctx context.Context, term, scope string) ([]visit.Visit, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search matches the term as a case-insensitive substring of patient name,
// service, notes (all scope only), and pharmacy instructions. A numeric term
// additionally matches visit id and patient id exactly; a non-numeric term
// simply skips that branch. A blank term lists the whole scope.
func (s *Service) Search(ctx context.Context, term, scope string) ([]visit.Visit, error) {
	switch scope {
	case ScopeAll, ScopePharmacy:
	default:
		return nil, apperr.Validation("scope", "must be all or pharmacy")
	}
	return s.repo.Search(ctx, term, scope)
}
