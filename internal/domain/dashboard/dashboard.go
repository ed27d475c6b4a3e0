// Package dashboard serves the read-only counters on the landing screens.
package dashboard

import (
	"context"
	"time"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

// Summary is the landing-screen counter set.
type Summary struct {
	TodaysVisits    int `json:"todays_visits"`
	TotalPatients   int `json:"total_patients"`
	PendingPharmacy int `json:"pending_pharmacy"`
}

// VisitStatus is one row of the per-day status breakdown.
type VisitStatus struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type Repository interface {
	VisitCountOnDate(ctx context.Context, date string) (int, error)
	PatientCount(ctx context.Context) (int, error)
	PendingPharmacyCount(ctx context.Context) (int, error)
	VisitsOnDate(ctx context.Context, date string) ([]VisitStatus, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	today := s.now().Format("2006-01-02")

	visits, err := s.repo.VisitCountOnDate(ctx, today)
	if err != nil {
		return nil, err
	}
	patients, err := s.repo.PatientCount(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.PendingPharmacyCount(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		TodaysVisits:    visits,
		TotalPatients:   patients,
		PendingPharmacy: pending,
	}, nil
}

// VisitsOnDate lists (id, status) pairs for one day; a blank date means today.
func (s *Service) VisitsOnDate(ctx context.Context, date string) ([]VisitStatus, error) {
	if date == "" {
		date = s.now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, apperr.Validation("date", "must be YYYY-MM-DD")
	}
	return s.repo.VisitsOnDate(ctx, date)
}
