package patient

// Patient is a registry entry. Dates are stored as ISO strings (YYYY-MM-DD)
// so record content round-trips exactly as entered at the desk.
type Patient struct {
	ID        int64  `db:"id" json:"id"`
	FullName  string `db:"full_name" json:"full_name"`
	DOB       string `db:"dob" json:"dob,omitempty"`
	Gender    string `db:"gender" json:"gender,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}
