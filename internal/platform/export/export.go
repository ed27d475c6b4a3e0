// Package export assembles the patient-record payloads handed to external
// renderers: the QR encoder consumes SnapshotText, the PDF generator
// consumes ReportData. Neither function knows anything about layout or
// image encoding.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/booleanbros/clinic/internal/domain/patient"
	"github.com/booleanbros/clinic/internal/domain/visit"
)

const (
	hospitalName = "BOOLEAN BROS HOSPITAL"
	hospitalLine = "Boolean Bros General Hospital"
	separator    = "========================================"

	// The QR payload carries at most this many recent visits.
	snapshotVisitLimit = 4
)

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// SnapshotText renders the human-readable record block encoded into the
// patient's QR card: a header, the registry fields, and the most recent
// visits with their vitals and pharmacy state. Visits are expected
// newest-first, as the visit store returns them.
func SnapshotText(p *patient.Patient, visits []visit.Visit, now time.Time) string {
	if len(visits) > snapshotVisitLimit {
		visits = visits[:snapshotVisitLimit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", hospitalName)
	fmt.Fprintf(&b, "PATIENT INFORMATION\n")
	fmt.Fprintf(&b, "%s\n", separator)
	fmt.Fprintf(&b, "Patient ID: %d\n", p.ID)
	fmt.Fprintf(&b, "Name: %s\n", p.FullName)
	fmt.Fprintf(&b, "Date of Birth: %s\n", orDefault(p.DOB, "Not provided"))
	fmt.Fprintf(&b, "Address: %s\n", orDefault(p.Address, "Not provided"))
	fmt.Fprintf(&b, "Registered: %s\n", p.CreatedAt)
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "RECENT VISIT HISTORY (Last %d visits)\n", len(visits))
	fmt.Fprintf(&b, "%s\n", separator)

	for i, v := range visits {
		fmt.Fprintf(&b, "\nVisit %d - %s\n", i+1, v.VisitDate)
		fmt.Fprintf(&b, "  Service: %s\n", orDefault(v.Service, "Not specified"))
		fmt.Fprintf(&b, "  Doctor: %s\n", orDefault(v.DoctorName, "Unassigned"))
		fmt.Fprintf(&b, "  Status: %s\n", orDefault(v.Status, "Unknown"))
		fmt.Fprintf(&b, "  Time: %s - %s\n",
			orDefault(v.TimeIn, "N/A"), orDefault(v.TimeOut, "N/A"))

		if vt := v.Vitals; vt != nil {
			fmt.Fprintf(&b, "  Vital Signs:\n")
			if vt.BP != nil {
				fmt.Fprintf(&b, "    BP: %s\n", *vt.BP)
			}
			if vt.HR != nil {
				fmt.Fprintf(&b, "    Heart Rate: %d bpm\n", *vt.HR)
			}
			if vt.Temp != nil {
				fmt.Fprintf(&b, "    Temp: %.1f°F\n", *vt.Temp)
			}
			if vt.Resp != nil {
				fmt.Fprintf(&b, "    Resp: %d breaths/min\n", *vt.Resp)
			}
			if vt.SpO2 != nil {
				fmt.Fprintf(&b, "    SpO2: %d%%\n", *vt.SpO2)
			}
		}
		fmt.Fprintf(&b, "  Pharmacy: %s\n", orDefault(v.PharmacyStatus, "N/A"))
	}

	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "Last Updated: %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "%s\n", separator)
	fmt.Fprintf(&b, "%s\n", hospitalLine)
	fmt.Fprintf(&b, "Confidential Patient Information")
	return b.String()
}

// Report is the field-complete record set the PDF renderer lays out.
type Report struct {
	Hospital    string          `json:"hospital"`
	Title       string          `json:"title"`
	GeneratedAt string          `json:"generated_at"`
	Patient     patient.Patient `json:"patient"`
	Visits      []visit.Visit   `json:"visits"`
	TotalVisits int             `json:"total_visits"`
}

// ReportData assembles the full visit history for the report renderer,
// newest-first, with no layout decisions baked in.
func ReportData(p *patient.Patient, visits []visit.Visit, now time.Time) *Report {
	if visits == nil {
		visits = []visit.Visit{}
	}
	return &Report{
		Hospital:    "BOOLEAN BROS GENERAL HOSPITAL",
		Title:       "PATIENT MEDICAL REPORT",
		GeneratedAt: now.Format("2006-01-02 15:04"),
		Patient:     *p,
		Visits:      visits,
		TotalVisits: len(visits),
	}
}
