package patient

import (
	"context"
	"strings"
	"time"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput carries the registration form fields. Only the full name is
// mandatory; everything else may be filled in later.
type CreateInput struct {
	FullName string `json:"full_name"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperr.Validation("full_name", "is required")
	}

	p := &Patient{
		FullName:  strings.TrimSpace(in.FullName),
		DOB:       in.DOB,
		Gender:    in.Gender,
		Address:   in.Address,
		Phone:     in.Phone,
		CreatedAt: s.now().Format("2006-01-02"),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces every editable field. The registration date is set once at
// creation and never rewritten.
func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (*Patient, error) {
	if strings.TrimSpace(in.FullName) == "" {
		return nil, apperr.Validation("full_name", "is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.FullName = strings.TrimSpace(in.FullName)
	existing.DOB = in.DOB
	existing.Gender = in.Gender
	existing.Address = in.Address
	existing.Phone = in.Phone

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Search returns the full newest-first listing when the term is blank, so a
// cleared search box falls back to browsing.
func (s *Service) Search(ctx context.Context, term string) ([]Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		patients, _, err := s.repo.List(ctx, 1000, 0)
		return patients, err
	}
	return s.repo.Search(ctx, term)
}
