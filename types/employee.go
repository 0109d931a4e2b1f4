package types

// Employee roles.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Employee represents a row of the Employees sheet.
// It carries credentials, pay rate and access flags.
type Employee struct {
	// Username is the unique login name of the employee.
	Username string `json:"username"`

	// Name is the display name, when the sheet provides one.
	Name string `json:"name,omitempty"`

	// Password holds the stored credential, either a bcrypt hash or a
	// plain value. It is never exposed in API responses.
	Password string `json:"-"`

	// Rate is the hourly pay rate.
	Rate float64 `json:"rate"`

	// Role is either "employee" or "admin".
	Role string `json:"role"`

	// EarlyAccess exempts the employee from the earliest clock-in time.
	EarlyAccess bool `json:"early_access"`

	// OnboardingCompleted reports whether the starter form was submitted.
	OnboardingCompleted bool `json:"onboarding_completed"`
}

// IsAdmin reports whether the employee has the admin role.
func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
