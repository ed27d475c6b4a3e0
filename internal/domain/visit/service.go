package visit

import (
	"context"
	"strings"
	"time"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

type Service struct {
	repo     Repository
	patients PatientDirectory
	doctors  DoctorDirectory
	now      func() time.Time
}

func NewService(repo Repository, patients PatientDirectory, doctors DoctorDirectory) *Service {
	return &Service{repo: repo, patients: patients, doctors: doctors, now: time.Now}
}

// CreateInput carries the check-in form fields.
type CreateInput struct {
	PatientID            int64   `json:"patient_id"`
	DoctorID             *int64  `json:"doctor_id"`
	VisitDate            string  `json:"visit_date"`
	TimeIn               string  `json:"time_in"`
	TimeOut              string  `json:"time_out"`
	Service              string  `json:"service"`
	Status               string  `json:"status"`
	Notes                string  `json:"notes"`
	Vitals               *Vitals `json:"vitals"`
	PharmacyInstructions string  `json:"pharmacy_instructions"`
}

func (s *Service) checkRefs(ctx context.Context, patientID int64, doctorID *int64) error {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("patient", patientID)
	}
	if doctorID != nil {
		isDoc, err := s.doctors.IsDoctor(ctx, *doctorID)
		if err != nil {
			return err
		}
		if !isDoc {
			return apperr.NotFound("doctor", *doctorID)
		}
	}
	return nil
}

func (s *Service) validateInput(in *CreateInput) error {
	if strings.TrimSpace(in.VisitDate) == "" {
		return apperr.Validation("visit_date", "is required")
	}
	if strings.TrimSpace(in.Service) == "" {
		return apperr.Validation("service", "is required")
	}
	return nil
}

// Create checks in a patient. The pharmacy sub-state is derived, never taken
// from the caller: Pending when the visit starts routed to pharmacy,
// Not Applicable otherwise.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Visit, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in.PatientID, in.DoctorID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusScheduled
	}
	timeIn := in.TimeIn
	if timeIn == "" {
		timeIn = s.now().Format("15:04")
	}
	pharmacy := PharmacyNotApplicable
	if status == StatusVisitPharmacy {
		pharmacy = PharmacyPending
	}

	v := &Visit{
		PatientID:            in.PatientID,
		DoctorID:             in.DoctorID,
		VisitDate:            in.VisitDate,
		TimeIn:               timeIn,
		TimeOut:              in.TimeOut,
		Service:              in.Service,
		Status:               status,
		Notes:                in.Notes,
		Vitals:               in.Vitals,
		PharmacyStatus:       pharmacy,
		PharmacyInstructions: in.PharmacyInstructions,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, v.ID)
}

// Update replaces the clinical fields of an existing visit. The pharmacy
// sub-state is untouched: only the pharmacy path may move it.
func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (*Visit, error) {
	if err := s.validateInput(&in); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in.PatientID, in.DoctorID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.PatientID = in.PatientID
	existing.DoctorID = in.DoctorID
	existing.VisitDate = in.VisitDate
	existing.TimeIn = in.TimeIn
	existing.TimeOut = in.TimeOut
	existing.Service = in.Service
	if in.Status != "" {
		existing.Status = in.Status
	}
	existing.Notes = in.Notes
	existing.Vitals = in.Vitals
	existing.PharmacyInstructions = in.PharmacyInstructions

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus is the doctor's save path: only the fields it carries are
// written. Routing to pharmacy requires dispensing instructions, either in
// this update or already on the visit, and rearms the pharmacy sub-state.
func (s *Service) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) (*Visit, error) {
	if strings.TrimSpace(upd.Status) == "" {
		return nil, apperr.Validation("status", "is required")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.DoctorID != nil {
		isDoc, err := s.doctors.IsDoctor(ctx, *upd.DoctorID)
		if err != nil {
			return nil, err
		}
		if !isDoc {
			return nil, apperr.NotFound("doctor", *upd.DoctorID)
		}
	}
	if upd.Status == StatusVisitPharmacy {
		instructions := existing.PharmacyInstructions
		if upd.Instructions != nil {
			instructions = *upd.Instructions
		}
		if strings.TrimSpace(instructions) == "" {
			return nil, apperr.Validation("pharmacy_instructions",
				"are required when routing to pharmacy")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// UpdatePharmacyStatus moves the pharmacy sub-state. Completing dispensing
// stamps the checkout time and closes the visit.
func (s *Service) UpdatePharmacyStatus(ctx context.Context, id int64, status string) (*Visit, error) {
	switch status {
	case PharmacyPending, PharmacyInProgress, PharmacyCompleted, PharmacyOnHold:
	default:
		return nil, apperr.Validation("pharmacy_status",
			"must be one of Pending, In Progress, Completed, On Hold")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	var timeOut string
	forceDone := status == PharmacyCompleted
	if forceDone {
		timeOut = s.now().Format("15:04")
	}
	if err := s.repo.UpdatePharmacy(ctx, id, status, timeOut, forceDone); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Visit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ByPatient(ctx context.Context, patientID int64) ([]Visit, error) {
	return s.repo.ByPatient(ctx, patientID)
}

// ByPatientWindow returns the patient's visits over the last `days` days,
// today inclusive: days=1 means today only.
func (s *Service) ByPatientWindow(ctx context.Context, patientID int64, days int) ([]Visit, error) {
	if days < 1 {
		return nil, apperr.Validation("days", "must be at least 1")
	}
	today := s.now()
	from := today.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	to := today.Format("2006-01-02")
	return s.repo.ByPatientWindow(ctx, patientID, from, to)
}

func (s *Service) ByDoctor(ctx context.Context, doctorID int64) ([]Visit, error) {
	return s.repo.ByDoctor(ctx, doctorID)
}

func (s *Service) PharmacyQueue(ctx context.Context) ([]Visit, error) {
	return s.repo.PharmacyQueue(ctx)
}
