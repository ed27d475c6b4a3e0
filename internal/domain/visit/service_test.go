package visit

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/booleanbros/clinic/internal/platform/apperr"
)

type mockRepo struct {
	visits map[int64]*Visit
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{visits: make(map[int64]*Visit), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, v *Visit) error {
	v.ID = m.nextID
	m.nextID++
	cp := *v
	m.visits[v.ID] = &cp
	return nil
}

func (m *mockRepo) Update(ctx context.Context, v *Visit) error {
	existing, ok := m.visits[v.ID]
	if !ok {
		return apperr.NotFound("visit", v.ID)
	}
	cp := *v
	cp.PharmacyStatus = existing.PharmacyStatus
	m.visits[v.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, upd StatusUpdate) error {
	v, ok := m.visits[id]
	if !ok {
		return apperr.NotFound("visit", id)
	}
	v.Status = upd.Status
	if upd.Notes != nil {
		v.Notes = *upd.Notes
	}
	if upd.Instructions != nil {
		v.PharmacyInstructions = *upd.Instructions
	}
	if upd.Vitals != nil {
		v.Vitals = upd.Vitals
	}
	if upd.DoctorID != nil {
		v.DoctorID = upd.DoctorID
	}
	if upd.Status == StatusVisitPharmacy {
		v.PharmacyStatus = PharmacyPending
	}
	return nil
}

func (m *mockRepo) UpdatePharmacy(ctx context.Context, id int64, status, timeOut string, forceDone bool) error {
	v, ok := m.visits[id]
	if !ok {
		return apperr.NotFound("visit", id)
	}
	v.PharmacyStatus = status
	if forceDone {
		v.TimeOut = timeOut
		v.Status = StatusDone
	}
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, apperr.NotFound("visit", id)
	}
	cp := *v
	return &cp, nil
}

func sortVisits(out []Visit) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].VisitDate != out[j].VisitDate {
			return out[i].VisitDate > out[j].VisitDate
		}
		return out[i].TimeIn > out[j].TimeIn
	})
}

func (m *mockRepo) ByPatient(ctx context.Context, patientID int64) ([]Visit, error) {
	var out []Visit
	for _, v := range m.visits {
		if v.PatientID == patientID {
			out = append(out, *v)
		}
	}
	sortVisits(out)
	return out, nil
}

func (m *mockRepo) ByPatientWindow(ctx context.Context, patientID int64, from, to string) ([]Visit, error) {
	var out []Visit
	for _, v := range m.visits {
		if v.PatientID == patientID && v.VisitDate >= from && v.VisitDate <= to {
			out = append(out, *v)
		}
	}
	sortVisits(out)
	return out, nil
}

func (m *mockRepo) ByDoctor(ctx context.Context, doctorID int64) ([]Visit, error) {
	var out []Visit
	for _, v := range m.visits {
		if v.DoctorID != nil && *v.DoctorID == doctorID {
			out = append(out, *v)
		}
	}
	sortVisits(out)
	return out, nil
}

func (m *mockRepo) PharmacyQueue(ctx context.Context) ([]Visit, error) {
	var out []Visit
	for _, v := range m.visits {
		if v.PharmacyStatus == PharmacyPending || v.Status == StatusVisitPharmacy {
			out = append(out, *v)
		}
	}
	sortVisits(out)
	return out, nil
}

type mockPatients map[int64]bool

func (m mockPatients) Exists(ctx context.Context, id int64) (bool, error) {
	return m[id], nil
}

type mockDoctors map[int64]bool

func (m mockDoctors) IsDoctor(ctx context.Context, id int64) (bool, error) {
	return m[id], nil
}

func ptr[T any](v T) *T { return &v }

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	svc := NewService(repo, mockPatients{1: true, 2: true}, mockDoctors{10: true})
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	}
	return svc, repo
}

func checkIn(t *testing.T, svc *Service, in CreateInput) *Visit {
	t.Helper()
	if in.VisitDate == "" {
		in.VisitDate = "2026-08-30"
	}
	if in.Service == "" {
		in.Service = "OPD"
	}
	v, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	return v
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{PatientID: 1})

	if v.Status != StatusScheduled {
		t.Errorf("expected default status Scheduled, got %q", v.Status)
	}
	if v.TimeIn != "09:15" {
		t.Errorf("expected arrival time stamped from clock, got %q", v.TimeIn)
	}
	if v.PharmacyStatus != PharmacyNotApplicable {
		t.Errorf("expected Not Applicable pharmacy state, got %q", v.PharmacyStatus)
	}
}

func TestCreate_KeepsProvidedTimes(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{
		PatientID: 1,
		TimeIn:    "08:30",
		TimeOut:   "10:15",
		Status:    StatusDone,
	})
	if v.TimeIn != "08:30" {
		t.Errorf("expected provided arrival time, got %q", v.TimeIn)
	}
	if v.TimeOut != "10:15" {
		t.Errorf("expected checkout time persisted, got %q", v.TimeOut)
	}
}

func TestCreate_RoutedToPharmacyStartsPending(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{
		PatientID:            1,
		Status:               StatusVisitPharmacy,
		PharmacyInstructions: "Paracetamol 500mg x2 daily",
	})
	if v.PharmacyStatus != PharmacyPending {
		t.Errorf("expected Pending for pharmacy-routed visit, got %q", v.PharmacyStatus)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{PatientID: 1, Service: "OPD"})
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for missing date, got %v", err)
	}

	_, err = svc.Create(ctx, CreateInput{PatientID: 1, VisitDate: "2026-08-30"})
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for missing service, got %v", err)
	}
}

func TestCreate_UnknownRefs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{PatientID: 99, VisitDate: "2026-08-30", Service: "OPD"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown patient, got %v", err)
	}

	_, err = svc.Create(ctx, CreateInput{
		PatientID: 1, DoctorID: ptr(int64(42)), VisitDate: "2026-08-30", Service: "OPD"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-doctor assignee, got %v", err)
	}
}

func TestUpdate_NeverTouchesPharmacyState(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{
		PatientID:            1,
		Status:               StatusVisitPharmacy,
		PharmacyInstructions: "Amoxicillin 250mg",
	})

	updated, err := svc.Update(context.Background(), v.ID, CreateInput{
		PatientID: 1,
		VisitDate: "2026-08-30",
		TimeIn:    "09:00",
		TimeOut:   "11:20",
		Service:   "Follow-up",
		Status:    StatusInProgress,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Service != "Follow-up" || updated.Status != StatusInProgress {
		t.Errorf("expected clinical fields replaced, got %+v", updated)
	}
	if updated.TimeOut != "11:20" {
		t.Errorf("expected checkout time replaced, got %q", updated.TimeOut)
	}
	if updated.PharmacyStatus != PharmacyPending {
		t.Errorf("record edit must not move the pharmacy state, got %q", updated.PharmacyStatus)
	}
}

func TestUpdateStatus_FieldSparse(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{PatientID: 1, Notes: "initial triage"})

	updated, err := svc.UpdateStatus(context.Background(), v.ID, StatusUpdate{
		Status: StatusInProgress,
		Vitals: &Vitals{BP: ptr("120/80"), Temp: ptr(36.8)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Errorf("expected In Progress, got %q", updated.Status)
	}
	if updated.Notes != "initial triage" {
		t.Errorf("omitted notes must stay, got %q", updated.Notes)
	}
	if updated.Vitals == nil || updated.Vitals.BP == nil || *updated.Vitals.BP != "120/80" {
		t.Errorf("expected vitals written, got %+v", updated.Vitals)
	}
}

func TestUpdateStatus_RouteToPharmacy(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{PatientID: 1})

	_, err := svc.UpdateStatus(context.Background(), v.ID, StatusUpdate{
		Status: StatusVisitPharmacy,
	})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError without instructions, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), v.ID, StatusUpdate{
		Status:       StatusVisitPharmacy,
		Instructions: ptr("Ibuprofen 400mg after meals"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PharmacyStatus != PharmacyPending {
		t.Errorf("routing must rearm the pharmacy state, got %q", updated.PharmacyStatus)
	}
}

func TestUpdateStatus_ExistingInstructionsSuffice(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{
		PatientID:            1,
		PharmacyInstructions: "Vitamin C 1000mg daily",
	})

	updated, err := svc.UpdateStatus(context.Background(), v.ID, StatusUpdate{
		Status: StatusVisitPharmacy,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PharmacyStatus != PharmacyPending {
		t.Errorf("expected Pending, got %q", updated.PharmacyStatus)
	}
}

func TestUpdateStatus_UnknownStatusPassesThrough(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{PatientID: 1})

	updated, err := svc.UpdateStatus(context.Background(), v.ID, StatusUpdate{
		Status: "Referred",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != "Referred" {
		t.Errorf("free-text status must round-trip, got %q", updated.Status)
	}
}

func TestUpdatePharmacyStatus_CompletedClosesVisit(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{
		PatientID:            1,
		Status:               StatusVisitPharmacy,
		PharmacyInstructions: "Artemether 80mg",
	})

	updated, err := svc.UpdatePharmacyStatus(context.Background(), v.ID, PharmacyCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PharmacyStatus != PharmacyCompleted {
		t.Errorf("expected Completed, got %q", updated.PharmacyStatus)
	}
	if updated.TimeOut != "09:15" {
		t.Errorf("completion must stamp checkout time, got %q", updated.TimeOut)
	}
	if updated.Status != StatusDone {
		t.Errorf("completion must close the visit, got %q", updated.Status)
	}
}

func TestUpdatePharmacyStatus_OnHoldOnlyMovesSubState(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{
		PatientID:            1,
		Status:               StatusVisitPharmacy,
		PharmacyInstructions: "Cough syrup 10ml",
	})

	updated, err := svc.UpdatePharmacyStatus(context.Background(), v.ID, PharmacyOnHold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PharmacyStatus != PharmacyOnHold {
		t.Errorf("expected On Hold, got %q", updated.PharmacyStatus)
	}
	if updated.Status != StatusVisitPharmacy {
		t.Errorf("visit status must not move, got %q", updated.Status)
	}
	if updated.TimeOut != "" {
		t.Errorf("checkout time must stay empty, got %q", updated.TimeOut)
	}
}

func TestUpdatePharmacyStatus_RejectsUnknownState(t *testing.T) {
	svc, _ := newTestService()
	v := checkIn(t, svc, CreateInput{PatientID: 1})

	_, err := svc.UpdatePharmacyStatus(context.Background(), v.ID, "Dispensed")
	var ve *apperr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestPharmacyQueue_Membership(t *testing.T) {
	svc, repo := newTestService()

	pendingRoute := checkIn(t, svc, CreateInput{
		PatientID: 1, Status: StatusVisitPharmacy, PharmacyInstructions: "a"})
	scheduled := checkIn(t, svc, CreateInput{PatientID: 1})

	// Pending sub-state but the visit status already moved past pharmacy.
	pendingMovedOn := checkIn(t, svc, CreateInput{
		PatientID: 1, Status: StatusVisitPharmacy, PharmacyInstructions: "b"})
	repo.visits[pendingMovedOn.ID].Status = StatusInProgress

	// Routed to pharmacy but the sub-state was rewound.
	routedRewound := checkIn(t, svc, CreateInput{
		PatientID: 1, Status: StatusVisitPharmacy, PharmacyInstructions: "c"})
	repo.visits[routedRewound.ID].PharmacyStatus = PharmacyOnHold

	queue, err := svc.PharmacyQueue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inQueue := make(map[int64]bool)
	for _, v := range queue {
		inQueue[v.ID] = true
	}
	if !inQueue[pendingRoute.ID] || !inQueue[pendingMovedOn.ID] || !inQueue[routedRewound.ID] {
		t.Errorf("expected all pharmacy-touched visits in queue, got %v", inQueue)
	}
	if inQueue[scheduled.ID] {
		t.Error("never-routed visit must not appear in queue")
	}
}

func TestByPatientWindow(t *testing.T) {
	svc, _ := newTestService()
	today := checkIn(t, svc, CreateInput{PatientID: 1, VisitDate: "2026-08-30"})
	twoAgo := checkIn(t, svc, CreateInput{PatientID: 1, VisitDate: "2026-08-28"})
	threeAgo := checkIn(t, svc, CreateInput{PatientID: 1, VisitDate: "2026-08-27"})
	checkIn(t, svc, CreateInput{PatientID: 2, VisitDate: "2026-08-30"})

	window, err := svc.ByPatientWindow(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make(map[int64]bool)
	for _, v := range window {
		ids[v.ID] = true
	}
	if !ids[today.ID] || !ids[twoAgo.ID] {
		t.Errorf("expected visits inside 3-day window, got %v", ids)
	}
	if ids[threeAgo.ID] {
		t.Error("visit before the window must be excluded")
	}

	todayOnly, err := svc.ByPatientWindow(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(todayOnly) != 1 || todayOnly[0].ID != today.ID {
		t.Errorf("days=1 must mean today only, got %+v", todayOnly)
	}

	if _, err := svc.ByPatientWindow(context.Background(), 1, 0); err == nil {
		t.Error("expected error for non-positive window")
	}
}

func TestByPatient_OrderedNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	older := checkIn(t, svc, CreateInput{PatientID: 1, VisitDate: "2026-08-28", TimeIn: "10:00"})
	newerEarly := checkIn(t, svc, CreateInput{PatientID: 1, VisitDate: "2026-08-30", TimeIn: "08:00"})
	newerLate := checkIn(t, svc, CreateInput{PatientID: 1, VisitDate: "2026-08-30", TimeIn: "11:30"})

	visits, err := svc.ByPatient(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{newerLate.ID, newerEarly.ID, older.ID}
	for i, v := range visits {
		if v.ID != want[i] {
			t.Fatalf("position %d: expected visit %d, got %d", i, want[i], v.ID)
		}
	}
}
