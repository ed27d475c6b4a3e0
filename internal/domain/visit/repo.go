package visit

import "context"

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	Update(ctx context.Context, v *Visit) error
	UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) error
	UpdatePharmacy(ctx context.Context, id int64, status, timeOut string, forceDone bool) error
	GetByID(ctx context.Context, id int64) (*Visit, error)
	ByPatient(ctx context.Context, patientID int64) ([]Visit, error)
	ByPatientWindow(ctx context.Context, patientID int64, from, to string) ([]Visit, error)
	ByDoctor(ctx context.Context, doctorID int64) ([]Visit, error)
	PharmacyQueue(ctx context.Context) ([]Visit, error)
}

// PatientDirectory is the slice of the patient store the workflow needs.
type PatientDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// DoctorDirectory is the slice of the identity store the workflow needs.
type DoctorDirectory interface {
	IsDoctor(ctx context.Context, id int64) (bool, error)
}
