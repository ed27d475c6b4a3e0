package visit

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

func placeholderCount(t *testing.T, query string) int {
	t.Helper()
	max := 0
	for _, m := range placeholderRe.FindAllStringSubmatch(query, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			t.Fatalf("bad placeholder %q", m[0])
		}
		if n > max {
			max = n
		}
	}
	return max
}

func bindingVisit() *Visit {
	doctorID := int64(3)
	return &Visit{
		ID:                   9,
		PatientID:            1,
		DoctorID:             &doctorID,
		VisitDate:            "2026-08-30",
		TimeIn:               "09:00",
		TimeOut:              "10:15",
		Service:              "OPD",
		Status:               StatusDone,
		Notes:                "n",
		PharmacyStatus:       PharmacyCompleted,
		PharmacyInstructions: "i",
	}
}

func TestInsertVisitBindings(t *testing.T) {
	want := placeholderCount(t, insertVisitQuery)
	if got := len(insertVisitArgs(bindingVisit())); got != want {
		t.Fatalf("insert binds %d placeholders but supplies %d args", want, got)
	}
	if !strings.Contains(insertVisitQuery, "time_out") {
		t.Error("insert must persist the checkout time")
	}
}

func TestUpdateVisitBindings(t *testing.T) {
	v := bindingVisit()
	args := updateVisitArgs(v)

	want := placeholderCount(t, updateVisitQuery)
	if got := len(args); got != want {
		t.Fatalf("update binds %d placeholders but supplies %d args", want, got)
	}
	if args[len(args)-1] != v.ID {
		t.Error("last argument must be the row id for the WHERE clause")
	}
	// Every replaceable field must be bound; status was once dropped here.
	for i, field := range []any{
		v.PatientID, v.DoctorID, v.VisitDate, v.TimeIn, v.TimeOut,
		v.Service, v.Status, v.Notes,
	} {
		if args[i] != field {
			t.Errorf("argument %d bound out of order", i+1)
		}
	}
	if strings.Contains(updateVisitQuery, "pharmacy_status") {
		t.Error("record update must not touch pharmacy_status")
	}
}
