package visit

// Visit statuses assigned by the workflow. Stored as free text: unknown
// strings in existing rows round-trip unchanged.
const (
	StatusScheduled     = "Scheduled"
	StatusInProgress    = "In Progress"
	StatusDone          = "Done"
	StatusVisitPharmacy = "Visit Pharmacy"
	StatusComeAgain     = "Come again"
)

// Pharmacy sub-states. NotApplicable marks visits never routed to pharmacy.
const (
	PharmacyPending       = "Pending"
	PharmacyInProgress    = "In Progress"
	PharmacyCompleted     = "Completed"
	PharmacyOnHold        = "On Hold"
	PharmacyNotApplicable = "Not Applicable"
)

// Vitals is the structured record captured at the doctor's desk. Absent
// fields mean "not recorded", so everything is a pointer with omitempty.
type Vitals struct {
	BP   *string  `json:"bp,omitempty"`
	HR   *int     `json:"hr,omitempty"`
	Temp *float64 `json:"temp,omitempty"`
	Resp *int     `json:"resp,omitempty"`
	SpO2 *int     `json:"spo2,omitempty"`
}

// Visit is one clinical encounter. VisitDate is an ISO YYYY-MM-DD string and
// TimeIn/TimeOut are HH:MM strings; ISO text sorts correctly so listings
// order by date then time-in.
type Visit struct {
	ID                   int64   `db:"id" json:"id"`
	PatientID            int64   `db:"patient_id" json:"patient_id"`
	DoctorID             *int64  `db:"doctor_id" json:"doctor_id,omitempty"`
	VisitDate            string  `db:"visit_date" json:"visit_date"`
	TimeIn               string  `db:"time_in" json:"time_in,omitempty"`
	TimeOut              string  `db:"time_out" json:"time_out,omitempty"`
	Service              string  `db:"service" json:"service"`
	Status               string  `db:"status" json:"status"`
	Notes                string  `db:"notes" json:"notes,omitempty"`
	Vitals               *Vitals `db:"vitals" json:"vitals,omitempty"`
	PharmacyStatus       string  `db:"pharmacy_status" json:"pharmacy_status"`
	PharmacyInstructions string  `db:"pharmacy_instructions" json:"pharmacy_instructions,omitempty"`

	// Joined for reads; never written.
	PatientName string `db:"patient_name" json:"patient_name,omitempty"`
	DoctorName  string `db:"doctor_name" json:"doctor_name,omitempty"`
}

// StatusUpdate is the field-sparse doctor save. Nil pointers leave the
// stored value untouched.
type StatusUpdate struct {
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	Instructions *string `json:"pharmacy_instructions,omitempty"`
	Vitals       *Vitals `json:"vitals,omitempty"`
	DoctorID     *int64  `json:"doctor_id,omitempty"`
}
