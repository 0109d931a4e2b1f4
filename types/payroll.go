package types

// PayrollLine is one employee's totals within a payroll report period,
// stored as a row of the PayrollReports sheet.
type PayrollLine struct {
	ReportID    string  `json:"report_id"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Username    string  `json:"username"`
	Shifts      int     `json:"shifts"`
	Hours       float64 `json:"hours"`
	Pay         float64 `json:"pay"`
	GeneratedAt string  `json:"generated_at"`
}

// PayrollReport groups the lines generated for one period.
type PayrollReport struct {
	ID          string        `json:"id"`
	PeriodStart string        `json:"period_start"`
	PeriodEnd   string        `json:"period_end"`
	GeneratedAt string        `json:"generated_at"`
	Lines       []PayrollLine `json:"lines"`
	TotalHours  float64       `json:"total_hours"`
	TotalPay    float64       `json:"total_pay"`

	// ArchiveKey is the object storage key of the workbook, empty when
	// archiving is disabled.
	ArchiveKey string `json:"archive_key,omitempty"`
}
