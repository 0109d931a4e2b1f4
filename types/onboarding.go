package types

// OnboardingRecord is one employee's row in the Onboarding sheet.
// Fields holds every header column except Username, keyed by column name.
type OnboardingRecord struct {
	Username string            `json:"username"`
	Fields   map[string]string `json:"fields"`
}

// OnboardingField describes one input of the starter form.
type OnboardingField struct {
	// Column is the Onboarding sheet header the value is stored under.
	Column string `json:"column"`

	// Label is the human-readable name used in validation messages.
	Label string `json:"label"`

	Required bool `json:"required"`

	// Choices lists the accepted values of a constrained field.
	Choices []string `json:"choices,omitempty"`

	// Default is used when an optional field is left empty.
	Default string `json:"default,omitempty"`
}
