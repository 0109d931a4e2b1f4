package types

// Session is the per-login state carried in the signed session cookie.
type Session struct {
	Username            string  `json:"username"`
	Role                string  `json:"role"`
	Rate                float64 `json:"rate"`
	EarlyAccess         bool    `json:"early_access"`
	OnboardingCompleted bool    `json:"onboarding_completed"`
}

// NewSession captures the session fields of an employee at login.
func NewSession(e Employee) Session {
	return Session{
		Username:            e.Username,
		Role:                e.Role,
		Rate:                e.Rate,
		EarlyAccess:         e.EarlyAccess,
		OnboardingCompleted: e.OnboardingCompleted,
	}
}

// IsAdmin reports whether the session belongs to an admin.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
