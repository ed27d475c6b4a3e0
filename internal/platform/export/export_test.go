package export

import (
	"strings"
	"testing"
	"time"

	"github.com/booleanbros/clinic/internal/domain/patient"
	"github.com/booleanbros/clinic/internal/domain/visit"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2026, 8, 30, 14, 45, 0, 0, time.UTC)

func samplePatient() *patient.Patient {
	return &patient.Patient{
		ID:        7,
		FullName:  "Emily Davis",
		DOB:       "1990-04-12",
		Address:   "Takoradi",
		CreatedAt: "2026-08-01",
	}
}

func sampleVisit(date string) visit.Visit {
	return visit.Visit{
		VisitDate:      date,
		TimeIn:         "09:30",
		TimeOut:        "10:15",
		Service:        "General Consultation",
		Status:         visit.StatusDone,
		DoctorName:     "Mohammed Aminu",
		PharmacyStatus: visit.PharmacyCompleted,
		Vitals: &visit.Vitals{
			BP:   ptr("120/80"),
			HR:   ptr(78),
			Temp: ptr(98.6),
			Resp: ptr(16),
			SpO2: ptr(98),
		},
	}
}

func TestSnapshotText(t *testing.T) {
	got := SnapshotText(samplePatient(), []visit.Visit{sampleVisit("2026-08-30")}, fixedNow)

	for _, want := range []string{
		"BOOLEAN BROS HOSPITAL",
		"PATIENT INFORMATION",
		"Patient ID: 7",
		"Name: Emily Davis",
		"Date of Birth: 1990-04-12",
		"Registered: 2026-08-01",
		"RECENT VISIT HISTORY (Last 1 visits)",
		"Visit 1 - 2026-08-30",
		"  Service: General Consultation",
		"  Doctor: Mohammed Aminu",
		"  Time: 09:30 - 10:15",
		"    BP: 120/80",
		"    Heart Rate: 78 bpm",
		"    Temp: 98.6°F",
		"    Resp: 16 breaths/min",
		"    SpO2: 98%",
		"  Pharmacy: Completed",
		"Last Updated: 2026-08-30 14:45",
		"Confidential Patient Information",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("snapshot missing %q\n%s", want, got)
		}
	}
}

func TestSnapshotText_MissingFieldsGetPlaceholders(t *testing.T) {
	p := &patient.Patient{ID: 8, FullName: "John Doe", CreatedAt: "2026-08-01"}
	v := visit.Visit{VisitDate: "2026-08-30", Status: visit.StatusScheduled}

	got := SnapshotText(p, []visit.Visit{v}, fixedNow)

	for _, want := range []string{
		"Date of Birth: Not provided",
		"Address: Not provided",
		"  Service: Not specified",
		"  Doctor: Unassigned",
		"  Time: N/A - N/A",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("snapshot missing placeholder %q", want)
		}
	}
	if strings.Contains(got, "Vital Signs:") {
		t.Error("no vitals recorded, section must be absent")
	}
}

func TestSnapshotText_CapsAtFourVisits(t *testing.T) {
	visits := []visit.Visit{
		sampleVisit("2026-08-30"), sampleVisit("2026-08-29"),
		sampleVisit("2026-08-28"), sampleVisit("2026-08-27"),
		sampleVisit("2026-08-26"), sampleVisit("2026-08-25"),
	}
	got := SnapshotText(samplePatient(), visits, fixedNow)

	if !strings.Contains(got, "RECENT VISIT HISTORY (Last 4 visits)") {
		t.Error("expected history capped at 4 visits")
	}
	if strings.Contains(got, "Visit 5") || strings.Contains(got, "2026-08-26") {
		t.Error("older visits must be dropped from the snapshot")
	}
}

func TestReportData(t *testing.T) {
	visits := []visit.Visit{sampleVisit("2026-08-30"), sampleVisit("2026-08-29")}
	report := ReportData(samplePatient(), visits, fixedNow)

	if report.Hospital != "BOOLEAN BROS GENERAL HOSPITAL" {
		t.Errorf("unexpected hospital line: %q", report.Hospital)
	}
	if report.TotalVisits != 2 || len(report.Visits) != 2 {
		t.Errorf("expected 2 visits, got %d/%d", report.TotalVisits, len(report.Visits))
	}
	if report.GeneratedAt != "2026-08-30 14:45" {
		t.Errorf("unexpected timestamp: %q", report.GeneratedAt)
	}

	empty := ReportData(samplePatient(), nil, fixedNow)
	if empty.Visits == nil || empty.TotalVisits != 0 {
		t.Errorf("expected empty slice for no visits, got %+v", empty)
	}
}
