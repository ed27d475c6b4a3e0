package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/booleanbros/clinic/internal/domain/identity"
	"github.com/booleanbros/clinic/internal/domain/patient"
	"github.com/booleanbros/clinic/internal/domain/visit"
	"github.com/booleanbros/clinic/internal/platform/auth"
)

// runSeed loads the demo staff roster, sample patients, and five days of
// visits. It is a no-op when users already exist.
func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	identityRepo := identity.NewPGRepository(pool)
	identitySvc := identity.NewService(identityRepo)

	existing, err := identityRepo.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		fmt.Println("Users already present; skipping seed.")
		return nil
	}

	staff := []struct {
		name, mobile, secret, role string
	}{
		{"MO11", "0788365067", "recept123", auth.RoleReceptionist},
		{"Fabby", "0677532140", "recept123", auth.RoleReceptionist},
		{"Mohammed Aminu", "7681969865", "doctor123", auth.RoleDoctor},
		{"Collins Mark", "9781328959", "doctor123", auth.RoleDoctor},
		{"Little MO", "0777730606", "pharma123", auth.RolePharmacist},
	}
	var doctorIDs []int64
	for _, s := range staff {
		u, err := identitySvc.Create(ctx, s.name, s.mobile, s.secret, s.role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", s.name, err)
		}
		if s.role == auth.RoleDoctor {
			doctorIDs = append(doctorIDs, u.ID)
		}
	}

	patientSvc := patient.NewService(patient.NewPGRepository(pool))
	samplePatients := []patient.CreateInput{
		{FullName: "John Doe", Address: "123 Main St", DOB: "1990-01-01"},
		{FullName: "Jane Smith", Address: "456 Oak Ave", DOB: "1985-03-15"},
		{FullName: "Robert Brown", Address: "789 Pine Rd", DOB: "1978-07-22"},
		{FullName: "Emily Davis", Address: "321 Elm St", DOB: "1995-12-10"},
	}
	var patientIDs []int64
	for _, in := range samplePatients {
		p, err := patientSvc.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed patient %s: %w", in.FullName, err)
		}
		patientIDs = append(patientIDs, p.ID)
	}

	ptr := func(s string) *string { return &s }
	iptr := func(n int) *int { return &n }
	fptr := func(f float64) *float64 { return &f }
	vitalsSamples := []*visit.Vitals{
		{BP: ptr("120/80"), HR: iptr(78), Temp: fptr(98.6), Resp: iptr(16), SpO2: iptr(98)},
		{BP: ptr("130/85"), HR: iptr(72), Temp: fptr(98.4), Resp: iptr(18), SpO2: iptr(99)},
		{BP: ptr("118/75"), HR: iptr(65), Temp: fptr(98.8), Resp: iptr(15), SpO2: iptr(97)},
		{BP: ptr("140/90"), HR: iptr(82), Temp: fptr(99.1), Resp: iptr(20), SpO2: iptr(96)},
	}

	visitRepo := visit.NewPGRepository(pool)
	today := time.Now()
	for dayOffset := 0; dayOffset < 5; dayOffset++ {
		visitDate := today.AddDate(0, 0, -dayOffset).Format("2006-01-02")
		for i := 1; i <= 4; i++ {
			doctorID := doctorIDs[0]
			if i%2 == 0 {
				doctorID = doctorIDs[1]
			}

			v := &visit.Visit{
				PatientID: patientIDs[i-1],
				DoctorID:  &doctorID,
				VisitDate: visitDate,
				TimeIn:    fmt.Sprintf("09:%02d", 10*(i%4)),
				TimeOut:   fmt.Sprintf("10:%02d", 15+10*(i%4)),
				Service:   "General Consultation",
				Vitals:    vitalsSamples[i-1],
			}
			if i%2 == 0 {
				v.Status = visit.StatusDone
				v.Notes = "Patient recovering well."
				v.PharmacyInstructions = "Take medication as prescribed"
				v.PharmacyStatus = visit.PharmacyCompleted
			} else {
				v.Status = visit.StatusVisitPharmacy
				v.Notes = "Needs medication review."
				v.PharmacyInstructions = "Dispense antibiotics and pain relievers"
				v.PharmacyStatus = visit.PharmacyPending
			}
			if err := visitRepo.Create(ctx, v); err != nil {
				return fmt.Errorf("seed visit for patient %d: %w", v.PatientID, err)
			}
		}
	}

	fmt.Printf("Seeded %d users, %d patients, %d visits.\n",
		len(staff), len(patientIDs), 5*4)
	return nil
}
