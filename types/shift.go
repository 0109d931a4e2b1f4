package types

// Layouts of the date and time cells in the WorkHours sheet.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = DateLayout + " " + TimeLayout
)

// Shift represents one row of the WorkHours sheet: a single clock-in to
// clock-out interval of one employee on one calendar day.
type Shift struct {
	// Username identifies the employee.
	Username string `json:"username"`

	// Date is the store-local calendar day of the clock-in (YYYY-MM-DD).
	Date string `json:"date"`

	// ClockIn is the recorded clock-in time (HH:MM:SS).
	ClockIn string `json:"clock_in"`

	// ClockOut is the clock-out time, empty while the shift is open.
	ClockOut string `json:"clock_out,omitempty"`

	// Hours is the elapsed time in hours, rounded to two decimals.
	// It is zero while the shift is open.
	Hours float64 `json:"hours"`

	// Pay is Hours multiplied by the employee's rate, rounded to two decimals.
	Pay float64 `json:"pay"`
}

// Open reports whether the shift has no recorded clock-out.
func (s Shift) Open() bool {
	return s.ClockOut == ""
}

// ShiftState is the clock state of one employee.
type ShiftState string

const (
	ShiftClosed ShiftState = "closed"
	ShiftOpen   ShiftState = "open"
)

// ShiftStatus describes whether an employee is clocked in.
type ShiftStatus struct {
	State ShiftState `json:"state"`

	// Current is the open shift, nil when closed.
	Current *Shift `json:"current,omitempty"`

	// ClockedInToday reports whether a row for today already exists.
	ClockedInToday bool `json:"clocked_in_today"`
}
