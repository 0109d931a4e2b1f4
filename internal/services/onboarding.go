package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/crewclock/apiserver/types"
)

// DefaultDialCode fills empty phone country codes.
const DefaultDialCode = "+44"

// Columns stamped by the server on every submission.
const (
	ColumnContractAccepted   = "ContractAccepted"
	ColumnSignatureTimestamp = "SignatureTimestamp"
	ColumnSubmittedAt        = "SubmittedAt"
)

var yesNo = []string{"yes", "no"}

// onboardingFields is the starter form dictionary. Input keys and sheet
// columns share the Column name.
var onboardingFields = []types.OnboardingField{
	{Column: "FirstName", Label: "First Name", Required: true},
	{Column: "LastName", Label: "Last Name", Required: true},
	{Column: "DateOfBirth", Label: "Date of Birth", Required: true},
	{Column: "PhoneCountryCode", Label: "Phone Country Code", Default: DefaultDialCode},
	{Column: "Phone", Label: "Phone Number", Required: true},
	{Column: "Email", Label: "Email", Required: true},
	{Column: "Street", Label: "Street"},
	{Column: "City", Label: "City"},
	{Column: "Postcode", Label: "Postcode"},
	{Column: "EmergencyContactName", Label: "Emergency Contact Name", Required: true},
	{Column: "EmergencyContactCountryCode", Label: "Emergency Contact Country Code", Default: DefaultDialCode},
	{Column: "EmergencyContactPhone", Label: "Emergency Contact Phone", Required: true},
	{Column: "MedicalCondition", Label: "Medical Condition", Required: true, Choices: yesNo},
	{Column: "MedicalDetails", Label: "Medical Details"},
	{Column: "Position", Label: "Position", Required: true},
	{Column: "CSCSNumber", Label: "CSCS Number", Required: true},
	{Column: "CSCSExpiry", Label: "CSCS Expiry Date", Required: true},
	{Column: "EmploymentType", Label: "Employment Type", Required: true},
	{Column: "RightToWork", Label: "Right to Work", Required: true, Choices: yesNo},
	{Column: "NINumber", Label: "National Insurance Number", Required: true},
	{Column: "UTR", Label: "UTR", Required: true},
	{Column: "CompanyName", Label: "Company Trading Name"},
	{Column: "CompanyRegNumber", Label: "Company Registration Number"},
	{Column: "StartDate", Label: "Start Date", Required: true},
	{Column: "BankAccountNumber", Label: "Bank Account Number", Required: true},
	{Column: "SortCode", Label: "Sort Code", Required: true},
	{Column: "AccountHolderName", Label: "Account Holder Name", Required: true},
	{Column: "ContractDate", Label: "Date of Contract", Required: true},
	{Column: "SiteAddress", Label: "Site Address", Required: true},
	{Column: "DocumentsLink", Label: "Documents Folder Link", Required: true},
	{Column: ColumnContractAccepted, Label: "Contract Acceptance", Required: true},
	{Column: "SignatureName", Label: "Signature Name", Required: true},
}

// ValidationError lists the labels of every missing or invalid field.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill in all required fields: " + strings.Join(e.Missing, ", ")
}

// OnboardingRepository defines persistence operations for starter forms.
type OnboardingRepository interface {
	Columns() []string
	Get(ctx context.Context, username string) (types.OnboardingRecord, error)
	List(ctx context.Context) ([]types.OnboardingRecord, error)
	Upsert(ctx context.Context, record types.OnboardingRecord) (bool, error)
}

// OnboardingService validates and stores starter forms.
type OnboardingService struct {
	records   OnboardingRepository
	employees EmployeeRepository
	opts      Options
}

func NewOnboardingService(records OnboardingRepository, employees EmployeeRepository, opts Options) *OnboardingService {
	return &OnboardingService{records: records, employees: employees, opts: opts.withDefaults()}
}

// Fields describes the starter form.
func (s *OnboardingService) Fields() []types.OnboardingField {
	out := make([]types.OnboardingField, len(onboardingFields))
	copy(out, onboardingFields)
	return out
}

// UnmappedColumns returns form columns the sheet header does not declare.
// Values for them are dropped on save.
func (s *OnboardingService) UnmappedColumns() []string {
	declared := make(map[string]bool)
	for _, column := range s.records.Columns() {
		declared[column] = true
	}
	var missing []string
	for _, field := range onboardingFields {
		if !declared[field.Column] {
			missing = append(missing, field.Column)
		}
	}
	for _, column := range []string{ColumnSignatureTimestamp, ColumnSubmittedAt} {
		if !declared[column] {
			missing = append(missing, column)
		}
	}
	return missing
}

// Submit validates the form and upserts the employee's record, then marks
// the employee as onboarded. The two writes are independent: when the
// second fails the record stays saved and the error is returned.
func (s *OnboardingService) Submit(ctx context.Context, username string, input map[string]string) (types.OnboardingRecord, error) {
	fields, err := validateOnboarding(input)
	if err != nil {
		return types.OnboardingRecord{}, err
	}

	now := s.opts.now()
	stamp := now.Format(types.TimestampLayout)
	fields[ColumnSignatureTimestamp] = stamp
	fields[ColumnSubmittedAt] = stamp

	record := types.OnboardingRecord{Username: username, Fields: s.keepDeclared(fields)}
	created, err := s.records.Upsert(ctx, record)
	if err != nil {
		return types.OnboardingRecord{}, fmt.Errorf("save onboarding record: %w", err)
	}
	if err := s.employees.SetOnboardingCompleted(ctx, username, true); err != nil {
		return types.OnboardingRecord{}, fmt.Errorf("mark onboarding completed: %w", err)
	}

	s.opts.Logger.InfoContext(ctx, "onboarding submitted", "username", username, "created", created)
	publishEvent(ctx, s.opts.Events, s.opts.Logger, Event{
		Type:       EventOnboardingCompleted,
		Username:   username,
		OccurredAt: now,
	})
	return record, nil
}

func (s *OnboardingService) Get(ctx context.Context, username string) (types.OnboardingRecord, error) {
	return s.records.Get(ctx, username)
}

// List returns records whose username or first/last name contains query,
// case-insensitively.
func (s *OnboardingService) List(ctx context.Context, query string) ([]types.OnboardingRecord, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	query = normalizeQuery(query)
	if query == "" {
		return records, nil
	}
	matched := make([]types.OnboardingRecord, 0, len(records))
	for _, record := range records {
		first, last := record.Fields["FirstName"], record.Fields["LastName"]
		if matchesQuery(query, record.Username, first, last, first+" "+last) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// keepDeclared returns every declared column, empty when not supplied.
func (s *OnboardingService) keepDeclared(fields map[string]string) map[string]string {
	columns := s.records.Columns()
	out := make(map[string]string, len(columns))
	for _, column := range columns {
		out[column] = fields[column]
	}
	return out
}

func validateOnboarding(input map[string]string) (map[string]string, error) {
	fields := make(map[string]string, len(onboardingFields))
	var missing []string

	for _, field := range onboardingFields {
		value := strings.TrimSpace(input[field.Column])

		switch {
		case field.Column == ColumnContractAccepted:
			if !isAccepted(value) {
				missing = append(missing, field.Label)
				continue
			}
			value = "TRUE"
		case len(field.Choices) > 0:
			value = strings.ToLower(value)
			if !slices.Contains(field.Choices, value) {
				missing = append(missing, field.Label)
				continue
			}
		case value == "" && field.Required:
			missing = append(missing, field.Label)
			continue
		case value == "":
			value = field.Default
		}
		fields[field.Column] = value
	}

	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	return fields, nil
}

func isAccepted(value string) bool {
	switch strings.ToLower(value) {
	case "true", "on", "yes", "1":
		return true
	default:
		return false
	}
}
